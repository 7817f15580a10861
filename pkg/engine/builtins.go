package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/precast/pkg/params"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms parameter-script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: concrete-grade -> concrete_grade
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpAngles wraps a rotation so it can be returned from `angles` and
// consumed by `beam :rotation`.
type sexpAngles struct {
	x, y, z float64
}

func (a *sexpAngles) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(angles %g %g %g)", a.x, a.y, a.z)
}
func (a *sexpAngles) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toAngles extracts the rotation from a sexpAngles.
func toAngles(s zygo.Sexp) (*sexpAngles, error) {
	if a, ok := s.(*sexpAngles); ok {
		return a, nil
	}
	return nil, fmt.Errorf("expected angles, got %T (%s)", s, s.SexpString(nil))
}

// toParam converts a number, or a grade name for the grade parameters, to
// the value stored in the parameter set.
func toParam(name string, s zygo.Sexp) (float64, error) {
	if f, err := toFloat64(s); err == nil {
		return f, nil
	}
	str, err := toString(s)
	if err != nil {
		return 0, fmt.Errorf("expected number or grade name, got %T (%s)", s, s.SexpString(nil))
	}
	return params.GradeValue(name, str)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the parameter-script builtins into a zygomys
// environment. `beam` writes into out; a script may call it once.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, out params.Set) {
	defined := false

	// -----------------------------------------------------------------------
	// (angles 0 0 90) or (angles :z 90)
	// -----------------------------------------------------------------------
	env.AddFunction("angles", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a := &sexpAngles{}
		dst := []*float64{&a.x, &a.y, &a.z}

		if len(pa.positional) > 3 {
			return zygo.SexpNull, fmt.Errorf("angles: expected at most 3 positional args, got %d", len(pa.positional))
		}
		for i, v := range pa.positional {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("angles: arg %d: %w", i+1, err)
			}
			*dst[i] = f
		}
		for _, k := range pa.order {
			var i int
			switch k {
			case "x":
				i = 0
			case "y":
				i = 1
			case "z":
				i = 2
			default:
				return zygo.SexpNull, fmt.Errorf("angles: unknown axis %q, expected x, y, or z", k)
			}
			f, err := toFloat64(pa.kw[k])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("angles: %s: %w", k, err)
			}
			*dst[i] = f
		}
		return a, nil
	})

	// -----------------------------------------------------------------------
	// (concrete-grade "C30/37") and (steel-grade "B500B") return the index.
	// -----------------------------------------------------------------------
	gradeFn := func(param string) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s: expected 1 arg, got %d", name, len(args))
			}
			s, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			v, err := params.GradeValue(param, s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpInt{Val: int64(v)}, nil
		}
	}
	env.AddFunction("concrete_grade", gradeFn(params.ConcreteGrade))
	env.AddFunction("steel_grade", gradeFn(params.SteelGrade))

	// -----------------------------------------------------------------------
	// (beam :length 4000 :height 600 ... :rotation (angles 0 0 90))
	// -----------------------------------------------------------------------
	env.AddFunction("beam", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if defined {
			return zygo.SexpNull, fmt.Errorf("beam: already defined")
		}
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("beam: unexpected positional arg %s", pa.positional[0].SexpString(nil))
		}

		set := params.Set{}
		for _, k := range pa.order {
			v := pa.kw[k]
			if k == "rotation" {
				a, err := toAngles(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("beam: rotation: %w", err)
				}
				set[params.AngleX], set[params.AngleY], set[params.AngleZ] = a.x, a.y, a.z
				continue
			}
			param, ok := params.CanonicalName(k)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("beam: unknown parameter %q", k)
			}
			f, err := toParam(param, v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("beam: %s: %w", k, err)
			}
			set[param] = f
		}

		for k, v := range set {
			out[k] = v
		}
		defined = true
		return zygo.SexpNull, nil
	})
}
