package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/locale/pkg/blueprint"
)

// SVGOptions configures the debug diagram export.
type SVGOptions struct {
	Width      int
	Height     int
	Margin     int
	NodeRadius int
	ShowLabels bool
	Title      string
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1000,
		Height:     800,
		Margin:     60,
		NodeRadius: 18,
		ShowLabels: true,
		Title:      "Blueprint",
	}
}

// ExportSVG renders bp's sublocation graph as an SVG diagram: a circular
// layout of nodes, straight-line edges (one-way edges in a different colour,
// with no arrowheads), and the entry
// points highlighted. This is a debug aid for inspecting what a generator
// produced, not part of the core contract.
func ExportSVG(bp *blueprint.Blueprint, opts SVGOptions) ([]byte, error) {
	if bp == nil {
		return nil, fmt.Errorf("export: blueprint cannot be nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 18
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	ids := make([]string, 0, len(bp.Sublocations))
	for id := range bp.Sublocations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	positions := circularLayout(ids, opts)
	drawConnections(canvas, bp, positions)
	drawSublocations(canvas, bp, ids, positions, opts)

	if opts.Title != "" {
		canvas.Text(opts.Margin, opts.Margin/2, opts.Title, "fill:#eaeaea;font-size:20px;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile writes the rendered diagram to filepath with 0644 permissions.
func SaveSVGToFile(bp *blueprint.Blueprint, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(bp, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

type point struct{ X, Y float64 }

func circularLayout(ids []string, opts SVGOptions) map[string]point {
	positions := make(map[string]point, len(ids))
	if len(ids) == 0 {
		return positions
	}
	centerX := float64(opts.Width) / 2
	centerY := float64(opts.Height) / 2
	radius := math.Min(float64(opts.Width), float64(opts.Height))/2 - float64(opts.Margin) - float64(opts.NodeRadius)

	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		angle := float64(i) * step
		positions[id] = point{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}

func drawConnections(canvas *svg.SVG, bp *blueprint.Blueprint, positions map[string]point) {
	froms := make([]string, 0, len(bp.Connections))
	for from := range bp.Connections {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	for _, from := range froms {
		tos := make([]string, 0, len(bp.Connections[from]))
		for to, ok := range bp.Connections[from] {
			if ok {
				tos = append(tos, to)
			}
		}
		sort.Strings(tos)
		for _, to := range tos {
			fromPos, fromOK := positions[from]
			toPos, toOK := positions[to]
			if !fromOK || !toOK {
				continue
			}
			bidirectional := bp.Connections[to] != nil && bp.Connections[to][from]
			style := "stroke:#4a5568;stroke-width:2"
			if !bidirectional {
				style = "stroke:#d69e2e;stroke-width:2"
			}
			canvas.Line(int(fromPos.X), int(fromPos.Y), int(toPos.X), int(toPos.Y), style)
		}
	}
}

func drawSublocations(canvas *svg.SVG, bp *blueprint.Blueprint, ids []string, positions map[string]point, opts SVGOptions) {
	for _, id := range ids {
		sub := bp.Sublocations[id]
		pos := positions[id]
		fill := "#3182ce"
		if sub.IsEntry() {
			fill = "#38a169"
		}
		canvas.Circle(int(pos.X), int(pos.Y), opts.NodeRadius, fmt.Sprintf("fill:%s;stroke:#eaeaea;stroke-width:1", fill))
		if opts.ShowLabels {
			canvas.Text(int(pos.X), int(pos.Y)+opts.NodeRadius+14, sub.Name, "fill:#eaeaea;font-size:12px;font-family:sans-serif;text-anchor:middle")
		}
	}
}
