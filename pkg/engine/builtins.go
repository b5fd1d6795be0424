package engine

import (
	"errors"
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshslice/pkg/kernel"
	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms job script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: outer-shell -> outer_shell
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

// sexpVec3 wraps a vecmath.Vec3.
type sexpVec3 struct {
	vec vecmath.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel.Solid so it can flow between geometry builtins.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(" + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpPlane wraps a slicer.Plane returned by `plane`.
type sexpPlane struct {
	plane slicer.Plane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	n := p.plane.Normal
	return fmt.Sprintf("(plane :normal (vec3 %g %g %g) :distance %g)", n.X, n.Y, n.Z, p.plane.Distance)
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

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

// float returns the number bound to keyword key. Missing keys are an error.
func (a kwArgs) float(key string) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, fmt.Errorf("missing :%s", key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// positive is float restricted to values greater than zero.
func (a kwArgs) positive(key string) (float64, error) {
	f, err := a.float(key)
	if err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, fmt.Errorf("%s must be positive, got %g", key, f)
	}
	return f, nil
}

// vec returns the vec3 bound to keyword key.
func (a kwArgs) vec(key string) (vecmath.Vec3, error) {
	v, ok := a.kw[key]
	if !ok {
		return vecmath.Vec3{}, fmt.Errorf("missing :%s", key)
	}
	vec, err := toVec3(v)
	if err != nil {
		return vecmath.Vec3{}, fmt.Errorf("%s: %w", key, err)
	}
	return vec, nil
}

// normal returns the vec3 bound to :normal, rejecting the zero vector.
func (a kwArgs) normal() (vecmath.Vec3, error) {
	n, err := a.vec("normal")
	if err != nil {
		return vecmath.Vec3{}, err
	}
	if n.Length() == 0 {
		return vecmath.Vec3{}, errors.New("normal must be non-zero")
	}
	return n.Normalize(), nil
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

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (vecmath.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return vecmath.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// errNoKernel is returned by geometry builtins when the engine has no kernel.
var errNoKernel = errors.New("no geometry kernel configured")

// registerBuiltins installs the job DSL builtins into a zygomys environment.
// The builtins build solids through k and record the model and cutting
// planes in job as evaluation proceeds.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, job *Job) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: vecmath.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :x 20 :y 10 :z 5)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if k == nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", errNoKernel)
		}
		pa := parseArgs(args)
		var dims [3]float64
		for i, key := range []string{"x", "y", "z"} {
			f, err := pa.positive(key)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			dims[i] = f
		}
		return &sexpSolid{
			solid: k.Box(dims[0], dims[1], dims[2]),
			desc:  fmt.Sprintf("box %gx%gx%g", dims[0], dims[1], dims[2]),
		}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 30 :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if k == nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", errNoKernel)
		}
		pa := parseArgs(args)
		h, err := pa.positive("height")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		r, err := pa.positive("radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpSolid{solid: k.Cylinder(h, r), desc: fmt.Sprintf("cylinder h=%g r=%g", h, r)}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 8)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if k == nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", errNoKernel)
		}
		r, err := parseArgs(args).positive("radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpSolid{solid: k.Sphere(r), desc: fmt.Sprintf("sphere r=%g", r)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate solid :by (vec3 10 0 0))
	// (rotate solid :by (vec3 0 0 90))   ; Euler angles in degrees
	// -----------------------------------------------------------------------
	transform := func(op string, apply func(s kernel.Solid, v vecmath.Vec3) kernel.Solid) {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if k == nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, errNoKernel)
			}
			pa := parseArgs(args)
			if len(pa.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly one solid argument, got %d", op, len(pa.positional))
			}
			s, err := toSolid(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			by, err := pa.vec("by")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			return &sexpSolid{
				solid: apply(s.solid, by),
				desc:  fmt.Sprintf("%s (%s) %v", op, s.desc, by),
			}, nil
		})
	}
	transform("translate", func(s kernel.Solid, v vecmath.Vec3) kernel.Solid {
		return k.Translate(s, v.X, v.Y, v.Z)
	})
	transform("rotate", func(s kernel.Solid, v vecmath.Vec3) kernel.Solid {
		return k.Rotate(s, v.X, v.Y, v.Z)
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (difference a b ...) (intersection a b ...)
	// Folded left to right: (difference a b c) is a - b - c.
	// -----------------------------------------------------------------------
	boolean := func(op string, combine func(a, b kernel.Solid) kernel.Solid) {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if k == nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, errNoKernel)
			}
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
			}
			acc, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand 1: %w", op, err)
			}
			out := acc.solid
			for i, a := range args[1:] {
				s, err := toSolid(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i+2, err)
				}
				out = combine(out, s.solid)
			}
			return &sexpSolid{solid: out, desc: fmt.Sprintf("%s of %d", op, len(args))}, nil
		})
	}
	boolean("union", func(a, b kernel.Solid) kernel.Solid { return k.Union(a, b) })
	boolean("difference", func(a, b kernel.Solid) kernel.Solid { return k.Difference(a, b) })
	boolean("intersection", func(a, b kernel.Solid) kernel.Solid { return k.Intersection(a, b) })

	// -----------------------------------------------------------------------
	// (model solid)
	// -----------------------------------------------------------------------
	env.AddFunction("model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("model requires exactly one solid argument, got %d", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("model: %w", err)
		}
		if job.Solid != nil {
			return zygo.SexpNull, errors.New("model: the job already has a model")
		}
		job.Solid = s.solid
		return s, nil
	})

	// -----------------------------------------------------------------------
	// (plane :normal (vec3 0 1 0) :distance 2.5)
	// (plane :normal (vec3 0 0 1) :point (vec3 0 0 10))
	// (plane :rotate (vec3 90 0 0) :at (vec3 0 0 10))
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if _, ok := pa.kw["rotate"]; ok {
			p, err := posedPlane(pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
			job.Planes = append(job.Planes, p)
			return &sexpPlane{plane: p}, nil
		}

		n, err := pa.normal()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}

		_, hasDist := pa.kw["distance"]
		_, hasPoint := pa.kw["point"]
		var p slicer.Plane
		switch {
		case hasDist && hasPoint:
			return zygo.SexpNull, errors.New("plane: :distance and :point are mutually exclusive")
		case hasPoint:
			pt, err := pa.vec("point")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
			p = slicer.PlaneFromPoint(n, pt)
		default:
			d, err := pa.float("distance")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
			p = slicer.Plane{Normal: n, Distance: d}
		}

		job.Planes = append(job.Planes, p)
		return &sexpPlane{plane: p}, nil
	})

	// -----------------------------------------------------------------------
	// (layers :normal (vec3 0 1 0) :from 0 :to 10 :step 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("layers", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := pa.normal()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layers: %w", err)
		}
		var bounds [3]float64
		for i, key := range []string{"from", "to", "step"} {
			f, err := pa.float(key)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layers: %w", err)
			}
			bounds[i] = f
		}
		planes, err := slicer.Layers(n, bounds[0], bounds[1], bounds[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layers: %w", err)
		}

		job.Planes = append(job.Planes, planes...)
		return &zygo.SexpInt{Val: int64(len(planes))}, nil
	})
}

// posedPlane builds the plane of a posed cutter: its local XZ plane turned
// by :rotate (Euler degrees, as for solids) and moved to :at.
func posedPlane(pa kwArgs) (slicer.Plane, error) {
	for _, key := range []string{"normal", "distance", "point"} {
		if _, ok := pa.kw[key]; ok {
			return slicer.Plane{}, fmt.Errorf(":rotate and :%s are mutually exclusive", key)
		}
	}
	rot, err := pa.vec("rotate")
	if err != nil {
		return slicer.Plane{}, err
	}
	var at vecmath.Vec3
	if _, ok := pa.kw["at"]; ok {
		if at, err = pa.vec("at"); err != nil {
			return slicer.Plane{}, err
		}
	}
	pose := vecmath.Translation4(at).Mul(vecmath.FromMat3(vecmath.RotationEuler(rot)))
	return slicer.PlaneFromTransform(pose), nil
}
