package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/meshslice/internal/config"
	"github.com/chazu/meshslice/pkg/engine"
	"github.com/chazu/meshslice/pkg/export"
	"github.com/chazu/meshslice/pkg/kernel"
	"github.com/chazu/meshslice/pkg/kernel/sdfx"
	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/stl"
	"github.com/chazu/meshslice/pkg/vecmath"
)

// CubeSource names the built-in ±1 cube in place of an STL path.
const CubeSource = "cube"

// errDXFNeedsFile is returned when DXF output is asked for on stdout.
var errDXFNeedsFile = errors.New("dxf output needs -out")

// App ties the mesh sources, the slicer and the exporters together. Its
// settings are fixed when it is built.
type App struct {
	log    *zap.Logger
	slicer *slicer.Engine
	engine *engine.Engine
	kernel kernel.Kernel

	remap     stl.Remap
	format    export.Format
	svg       export.SVGOptions
	normalize bool
}

// ScriptResult is the outcome of running a job script. Errors holds parse
// and evaluation errors; Layers is empty when there are any.
type ScriptResult struct {
	Layers []export.Layer
	Errors []engine.EvalError
}

// ModelInfo summarizes a loaded mesh.
type ModelInfo struct {
	Triangles int
	Min, Max  vecmath.Vec3
	Center    vecmath.Vec3
	Extent    float64
}

// NewApp builds an App from a validated, resolved config.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tie, err := cfg.TieBreak()
	if err != nil {
		return nil, err
	}
	remap, err := cfg.Remap()
	if err != nil {
		return nil, err
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	k := sdfx.New(cfg.Kernel.MeshCells)
	return &App{
		log:       log,
		slicer:    slicer.NewEngine(cfg.Slice.Workers, tie, log.Named("slicer")),
		engine:    engine.NewEngine(k),
		kernel:    k,
		remap:     remap,
		format:    format,
		svg:       cfg.SVGOptions(),
		normalize: cfg.Slice.Normalize,
	}, nil
}

// LoadModel returns the built-in cube for CubeSource, otherwise the STL file
// at src.
func (a *App) LoadModel(src string) (*mesh.Mesh, error) {
	if src == CubeSource {
		return mesh.Cube(), nil
	}
	m, err := stl.Load(src, stl.Options{Remap: a.remap})
	if err != nil {
		return nil, err
	}
	a.log.Info("model loaded",
		zap.String("path", src),
		zap.Int("triangles", m.TriangleCount()),
		zap.Stringer("remap", a.remap),
	)
	return m, nil
}

// LoadModels loads every source and joins them into one mesh, in order.
func (a *App) LoadModels(srcs []string) (*mesh.Mesh, error) {
	if len(srcs) == 1 {
		return a.LoadModel(srcs[0])
	}
	meshes := make([]*mesh.Mesh, len(srcs))
	for i, src := range srcs {
		m, err := a.LoadModel(src)
		if err != nil {
			return nil, err
		}
		meshes[i] = m
	}
	return mesh.Concat(meshes...), nil
}

// Slice cuts m with every plane, one layer per plane. With normalize set the
// model is first centered and scaled to a unit diagonal, the planes are
// carried along, and points come out in that unit view.
func (a *App) Slice(m *mesh.Mesh, planes []slicer.Plane) ([]export.Layer, error) {
	cut := planes
	if a.normalize {
		center, _ := m.ViewFit()
		var s float64
		m, s = m.Normalized()
		cut = fitPlanes(planes, center, s)
	}
	results, err := a.slicer.SliceAll(m, cut)
	if err != nil {
		return nil, err
	}
	layers := make([]export.Layer, len(planes))
	for i, points := range results {
		layers[i] = export.Layer{Name: planes[i].String(), Points: points}
	}
	return layers, nil
}

// fitPlanes maps planes through p -> s*(p-center), the transform applied by
// mesh.Normalized. s is positive, so normals are unchanged.
func fitPlanes(planes []slicer.Plane, center vecmath.Vec3, s float64) []slicer.Plane {
	out := make([]slicer.Plane, len(planes))
	for i, p := range planes {
		out[i] = slicer.Plane{Normal: p.Normal, Distance: s * (p.Distance - p.Normal.Dot(center))}
	}
	return out
}

// RunScript evaluates a job script, tessellates its model and slices it
// with every declared plane. A fatal evaluation failure (timeout, panic) is
// returned as an error.
func (a *App) RunScript(source string) (ScriptResult, error) {
	job, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return ScriptResult{}, err
	}
	if len(evalErrs) > 0 {
		return ScriptResult{Errors: evalErrs}, nil
	}
	if job.Solid == nil {
		if len(job.Planes) > 0 {
			return ScriptResult{}, errors.New("script declares planes but no model")
		}
		return ScriptResult{}, nil
	}

	m, err := a.kernel.ToMesh(job.Solid)
	if err != nil {
		return ScriptResult{}, fmt.Errorf("tessellation failed: %w", err)
	}
	a.log.Info("model tessellated",
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("planes", len(job.Planes)),
	)

	layers, err := a.Slice(m, job.Planes)
	if err != nil {
		return ScriptResult{}, err
	}
	return ScriptResult{Layers: layers}, nil
}

// Info reports the size and view fit of m.
func (a *App) Info(m *mesh.Mesh) ModelInfo {
	lo, hi, _ := m.Bounds()
	center, extent := m.ViewFit()
	return ModelInfo{
		Triangles: m.TriangleCount(),
		Min:       lo,
		Max:       hi,
		Center:    center,
		Extent:    extent,
	}
}

// Write exports layers in the configured format. An empty path means stdout,
// which DXF does not support.
func (a *App) Write(path string, stdout io.Writer, layers []export.Layer) error {
	if a.format == export.DXF {
		if path == "" {
			return errDXFNeedsFile
		}
		return export.SaveDXF(path, layers)
	}

	if path == "" {
		return a.encode(stdout, layers)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.encode(f, layers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *App) encode(w io.Writer, layers []export.Layer) error {
	if a.format == export.SVG {
		return export.WriteSVG(w, layers, a.svg)
	}
	return export.WriteText(w, layers)
}

// initConfig writes the default config to path, or to the user config
// directory when path is empty, and returns where it went. An existing file
// is left alone.
func initConfig(path string) (string, error) {
	cfg := config.Default()
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if path == config.DefaultPath() {
		return path, cfg.Save()
	}
	return path, cfg.SaveTo(path)
}

// parsePlaneArgs reads "nx ny nz distance" from the command line.
func parsePlaneArgs(args []string) (slicer.Plane, error) {
	if len(args) != 4 {
		return slicer.Plane{}, fmt.Errorf("expected nx ny nz distance, got %d values", len(args))
	}
	var v [4]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return slicer.Plane{}, fmt.Errorf("bad number %q", s)
		}
		v[i] = f
	}
	normal := vecmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
	if normal.Length() == 0 {
		return slicer.Plane{}, errors.New("plane normal must not be zero")
	}
	return slicer.Plane{Normal: normal, Distance: v[3]}.Normalized(), nil
}
