// Package export writes slices to files for other tools: plain text for
// scripts, SVG for viewing and DXF for CAM. Segments are written as they
// come; nothing here assumes they form closed contours.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// Layer is one slice together with a label, usually the plane it came from.
type Layer struct {
	Name   string
	Points []vecmath.Vec2
}

// Format names an output encoding.
type Format string

const (
	Text Format = "text"
	SVG  Format = "svg"
	DXF  Format = "dxf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, SVG, DXF:
		return f, nil
	}
	return "", fmt.Errorf("export: unknown format %q (want text, svg or dxf)", s)
}

// WriteText writes one segment per line as "x1 y1 x2 y2". Each layer is
// preceded by a "# name" line when it has a name.
func WriteText(w io.Writer, layers []Layer) error {
	bw := bufio.NewWriter(w)
	for _, l := range layers {
		if l.Name != "" {
			fmt.Fprintf(bw, "# %s\n", l.Name)
		}
		for _, s := range slicer.Segments(l.Points) {
			fmt.Fprintf(bw, "%g %g %g %g\n", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: text: %w", err)
	}
	return nil
}

// bounds returns the box around every point of every layer.
func bounds(layers []Layer) (lo, hi vecmath.Vec2, ok bool) {
	for _, l := range layers {
		a, b, has := slicer.Bounds(l.Points)
		if !has {
			continue
		}
		if !ok {
			lo, hi, ok = a, b, true
			continue
		}
		lo = vecmath.Vec2{X: min(lo.X, a.X), Y: min(lo.Y, a.Y)}
		hi = vecmath.Vec2{X: max(hi.X, b.X), Y: max(hi.Y, b.Y)}
	}
	return lo, hi, ok
}
