package stl

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// tokenizer splits ASCII STL into whitespace-separated words, tracking the
// line each word came from.
type tokenizer struct {
	sc    *bufio.Scanner
	line  int
	words []string
	err   error // scanner failure, reported in place of a syntax error
}

func newTokenizer(data []byte) *tokenizer {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &tokenizer{sc: sc}
}

// next returns the next word, or "" at end of input or on a read error.
func (t *tokenizer) next() string {
	for len(t.words) == 0 {
		if !t.sc.Scan() {
			t.err = t.sc.Err()
			return ""
		}
		t.line++
		t.words = strings.Fields(t.sc.Text())
	}
	w := t.words[0]
	t.words = t.words[1:]
	return w
}

// skipLine drops whatever is left of the current line.
func (t *tokenizer) skipLine() {
	t.words = nil
}

func (t *tokenizer) expect(want string) error {
	if got := t.next(); got != want {
		return t.errorf(want, got)
	}
	return nil
}

func (t *tokenizer) errorf(want, got string) error {
	if t.err != nil {
		return fmt.Errorf("stl: line %d: %w", t.line+1, t.err)
	}
	if got == "" {
		got = "EOF"
	}
	return &SyntaxError{Line: t.line, Want: want, Got: got}
}

func (t *tokenizer) vec() (vecmath.Vec3, error) {
	var c [3]float64
	for i := range c {
		w := t.next()
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return vecmath.Vec3{}, t.errorf("number", w)
		}
		c[i] = f
	}
	return vecmath.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func decodeASCII(data []byte, remap Remap) ([]mesh.Vertex, error) {
	t := newTokenizer(data)
	if err := t.expect("solid"); err != nil {
		return nil, err
	}
	t.skipLine()

	var vs []mesh.Vertex
	for {
		switch w := t.next(); w {
		case "endsolid":
			return vs, nil
		case "facet":
		default:
			return nil, t.errorf("facet or endsolid", w)
		}
		if err := t.expect("normal"); err != nil {
			return nil, err
		}
		n, err := t.vec()
		if err != nil {
			return nil, err
		}
		n = remap.apply(n)
		if err := t.expect("outer"); err != nil {
			return nil, err
		}
		if err := t.expect("loop"); err != nil {
			return nil, err
		}
		for k := 0; k < 3; k++ {
			if err := t.expect("vertex"); err != nil {
				return nil, err
			}
			p, err := t.vec()
			if err != nil {
				return nil, err
			}
			vs = append(vs, mesh.Vertex{Position: remap.apply(p), Normal: n})
		}
		if err := t.expect("endloop"); err != nil {
			return nil, err
		}
		if err := t.expect("endfacet"); err != nil {
			return nil, err
		}
	}
}
