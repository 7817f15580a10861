package params

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a parameter file. Keys may use any spelling accepted by
// CanonicalName. Grade values may be given as an index or as the grade name.
func LoadYAML(r io.Reader) (Set, error) {
	var raw map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Set{}, nil
		}
		return nil, fmt.Errorf("decode parameters: %w", err)
	}

	out := make(Set, len(raw))
	for key, node := range raw {
		name, ok := CanonicalName(key)
		if !ok {
			return nil, &ParameterError{Name: key, Reason: "unknown parameter"}
		}
		v, err := nodeValue(name, &node)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// LoadFile reads a YAML parameter file from path.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

func nodeValue(name string, node *yaml.Node) (float64, error) {
	var f float64
	if err := node.Decode(&f); err == nil {
		return f, nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return 0, &ParameterError{Name: name, Reason: "not a number"}
	}
	return GradeValue(name, s)
}

// GradeValue resolves a grade name such as "C30/37" or "B500B" to its index.
func GradeValue(name, grade string) (float64, error) {
	var grades []string
	switch name {
	case ConcreteGrade:
		grades = ConcreteGrades
	case SteelGrade:
		grades = SteelGrades
	default:
		return 0, &ParameterError{Name: name, Reason: fmt.Sprintf("expected a number, got %q", grade)}
	}
	i, ok := GradeIndex(grades, grade)
	if !ok {
		return 0, &ParameterError{Name: name, Reason: fmt.Sprintf("unknown grade %q", grade)}
	}
	return float64(i), nil
}

// WriteYAML encodes s with canonical names.
func WriteYAML(w io.Writer, s Set) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]float64(s)); err != nil {
		return err
	}
	return enc.Close()
}
