package params

import (
	"fmt"
	"strings"
)

// ParameterError reports a missing or invalid parameter.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
	// Others lists further missing parameters when Reason is "missing".
	Others []string
}

func (e *ParameterError) Error() string {
	switch {
	case e.Reason == "missing" && len(e.Others) > 0:
		return fmt.Sprintf("parameter %s: missing (also missing: %s)", e.Name, strings.Join(e.Others, ", "))
	case e.Reason == "missing":
		return fmt.Sprintf("parameter %s: missing", e.Name)
	default:
		return fmt.Sprintf("parameter %s = %g: %s", e.Name, e.Value, e.Reason)
	}
}
