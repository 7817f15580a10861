package beam

import "fmt"

// Pipeline stages named in a GeometryError.
const (
	StageSolid         = "solid"
	StageReinforcement = "reinforcement"
)

// GeometryError reports a failed construction step. Generation stops at
// the first one; no partial result is returned.
type GeometryError struct {
	Stage string
	Op    string
	Err   error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Op, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

// stageErr returns a constructor for errors of one stage.
func stageErr(stage string) func(op string, err error) error {
	return func(op string, err error) error {
		return &GeometryError{Stage: stage, Op: op, Err: err}
	}
}
