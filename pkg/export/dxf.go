package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/chazu/meshslice/pkg/slicer"
)

// SaveDXF writes every segment as a LINE entity at Z=0. Each layer goes on
// its own DXF layer named slice-000, slice-001, ...
func SaveDXF(path string, layers []Layer) error {
	d := dxf.NewDrawing()
	for i, l := range layers {
		if _, err := d.AddLayer(fmt.Sprintf("slice-%03d", i), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("export: dxf: layer %d: %w", i, err)
		}
		for _, s := range slicer.Segments(l.Points) {
			if _, err := d.Line(s.A.X, s.A.Y, 0, s.B.X, s.B.Y, 0); err != nil {
				return fmt.Errorf("export: dxf: line: %w", err)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: dxf: %w", err)
	}
	return nil
}
