package slicer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// Engine is a configured slicer. Workers is fixed for the lifetime of the
// engine; values below 2 select the sequential path.
type Engine struct {
	Workers  int
	TieBreak TieBreak
	Logger   *zap.Logger
}

// NewEngine returns an engine using workers goroutines per call.
func NewEngine(workers int, tb TieBreak, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Workers: workers, TieBreak: tb, Logger: log}
}

// Slice cuts m with p. The only possible error is a failed worker.
func (e *Engine) Slice(m *mesh.Mesh, p Plane) ([]vecmath.Vec2, error) {
	start := time.Now()
	points, err := sliceParallel(m, p, e.Workers, e.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("slicer: %v: %w", p, err)
	}
	e.logger().Debug("slice computed",
		zap.Stringer("plane", p),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("workers", max(e.Workers, 1)),
		zap.Int("segments", len(points)/2),
		zap.Duration("elapsed", time.Since(start)),
	)
	return points, nil
}

// SliceAll cuts m with every plane in order.
func (e *Engine) SliceAll(m *mesh.Mesh, planes []Plane) ([][]vecmath.Vec2, error) {
	out := make([][]vecmath.Vec2, len(planes))
	for i, p := range planes {
		points, err := e.Slice(m, p)
		if err != nil {
			return nil, err
		}
		out[i] = points
	}
	return out, nil
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
