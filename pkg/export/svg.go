package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// SVGOptions controls the SVG viewport.
type SVGOptions struct {
	// Size is the length in pixels of the longer side of the drawing area.
	Size int
	// Margin is the blank border in pixels around the drawing area.
	Margin int
	// Stroke is the CSS stroke color of the segments.
	Stroke string
}

// DefaultSVGOptions returns a 1000px black-on-white layout.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Size: 1000, Margin: 10, Stroke: "black"}
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// viewport maps slice coordinates onto integer pixels, Y pointing down.
type viewport struct {
	lo, hi vecmath.Vec2
	scale  float64
	margin int
}

func newViewport(layers []Layer, opts SVGOptions) viewport {
	lo, hi, ok := bounds(layers)
	if !ok {
		return viewport{scale: 1, margin: opts.Margin}
	}
	extent := max(hi.X-lo.X, hi.Y-lo.Y)
	scale := 1.0
	if extent > 0 {
		scale = float64(opts.Size) / extent
	}
	return viewport{lo: lo, hi: hi, scale: scale, margin: opts.Margin}
}

func (v viewport) width() int  { return v.px(v.hi.X-v.lo.X) + 2*v.margin }
func (v viewport) height() int { return v.px(v.hi.Y-v.lo.Y) + 2*v.margin }

func (v viewport) px(d float64) int {
	return int(math.Round(d * v.scale))
}

func (v viewport) point(p vecmath.Vec2) (int, int) {
	return v.margin + v.px(p.X-v.lo.X), v.margin + v.px(v.hi.Y-p.Y)
}

// WriteSVG draws every layer as a group of line elements, scaled so the
// union of all layers fills opts.Size.
func WriteSVG(w io.Writer, layers []Layer, opts SVGOptions) error {
	if opts.Size <= 0 {
		opts.Size = DefaultSVGOptions().Size
	}
	if opts.Stroke == "" {
		opts.Stroke = DefaultSVGOptions().Stroke
	}
	vp := newViewport(layers, opts)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(vp.width(), vp.height())
	for _, l := range layers {
		if l.Name != "" {
			canvas.Title(l.Name)
		}
		canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:1;fill:none", opts.Stroke))
		for _, s := range slicer.Segments(l.Points) {
			x1, y1 := vp.point(s.A)
			x2, y2 := vp.point(s.B)
			canvas.Line(x1, y1, x2, y2)
		}
		canvas.Gend()
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("export: svg: %w", ew.err)
	}
	return nil
}
