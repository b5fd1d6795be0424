package export_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/meshslice/pkg/export"
	"github.com/chazu/meshslice/pkg/mesh"
	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/vecmath"
)

func cubeLayer() export.Layer {
	p := slicer.Plane{Normal: vecmath.UnitY}
	return export.Layer{Name: p.String(), Points: slicer.Slice(mesh.Cube(), p)}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"text", export.Text, false},
		{"SVG", export.SVG, false},
		{"dxf", export.DXF, false},
		{"png", "", true},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteText(t *testing.T) {
	layers := []export.Layer{
		{Name: "first", Points: []vecmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0.5}}},
		{Points: []vecmath.Vec2{{X: -1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}}},
	}
	var buf bytes.Buffer
	if err := export.WriteText(&buf, layers); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "# first\n0 0 1 0.5\n-1 2 3 4\n5 6 7 8\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorsPropagate(t *testing.T) {
	layers := []export.Layer{cubeLayer()}
	if err := export.WriteText(failingWriter{}, layers); err == nil {
		t.Error("WriteText ignored a write error")
	}
	if err := export.WriteSVG(failingWriter{}, layers, export.DefaultSVGOptions()); err == nil {
		t.Error("WriteSVG ignored a write error")
	}
}

var lineRE = regexp.MustCompile(`<line x1="(-?\d+)" y1="(-?\d+)" x2="(-?\d+)" y2="(-?\d+)"`)

func TestWriteSVG(t *testing.T) {
	opts := export.SVGOptions{Size: 200, Margin: 10, Stroke: "red"}
	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, []export.Layer{cubeLayer()}, opts); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if !strings.Contains(out, `width="220"`) || !strings.Contains(out, `height="220"`) {
		t.Errorf("expected a 220x220 canvas:\n%s", out)
	}
	if !strings.Contains(out, "stroke:red") {
		t.Error("stroke color missing")
	}

	matches := lineRE.FindAllStringSubmatch(out, -1)
	if len(matches) != 8 {
		t.Fatalf("got %d line elements, want 8", len(matches))
	}
	// The ±1 square maps onto the 200px box inside a 10px margin.
	for _, m := range matches {
		for _, s := range m[1:] {
			v, _ := strconv.Atoi(s)
			if v < 10 || v > 210 {
				t.Errorf("coordinate %d outside the drawing area in %s", v, m[0])
			}
		}
	}
}

func TestWriteSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, nil, export.SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if strings.Contains(buf.String(), "<line") {
		t.Error("empty export drew lines")
	}
}

func TestSaveDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.dxf")
	layers := []export.Layer{cubeLayer(), cubeLayer()}
	if err := export.SaveDXF(path, layers); err != nil {
		t.Fatalf("SaveDXF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, name := range []string{"slice-000", "slice-001"} {
		if !strings.Contains(out, name) {
			t.Errorf("layer %s missing", name)
		}
	}
	lines := 0
	for _, l := range strings.Split(out, "\n") {
		if strings.TrimSpace(l) == "LINE" {
			lines++
		}
	}
	if lines < 16 {
		t.Errorf("found %d LINE entities, want at least 16", lines)
	}
}
