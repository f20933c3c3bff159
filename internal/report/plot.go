// Package report renders detection results for visual review: static PNG
// projections via gonum/plot and an interactive 3-D HTML view via go-echarts.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/seegkit/seegkit/internal/detect"
)

// projection selects two of the three voxel axes for a 2-D view.
type projection struct {
	name   string
	xLabel string
	yLabel string
	x      func(p detect.Point3) float64
	y      func(p detect.Point3) float64
}

var projections = []projection{
	{"xy", "X (voxels)", "Y (voxels)", func(p detect.Point3) float64 { return p.X }, func(p detect.Point3) float64 { return p.Y }},
	{"xz", "X (voxels)", "Z (voxels)", func(p detect.Point3) float64 { return p.X }, func(p detect.Point3) float64 { return p.Z }},
	{"yz", "Y (voxels)", "Z (voxels)", func(p detect.Point3) float64 { return p.Y }, func(p detect.Point3) float64 { return p.Z }},
}

// SaveProjections writes one PNG per axis pair (xy, xz, yz) into outputDir,
// showing unabsorbed candidates in grey and each electrode's ordered contacts
// as a coloured line with markers. Returns the files written.
func SaveProjections(res *detect.DetectionResult, outputDir, prefix string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	colors := generateColors(len(res.Electrodes))

	var files []string
	for _, proj := range projections {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Detected electrodes (%s)", proj.name)
		p.X.Label.Text = proj.xLabel
		p.Y.Label.Text = proj.yLabel

		if len(res.Unabsorbed) > 0 {
			pts := make(plotter.XYs, 0, len(res.Unabsorbed))
			for _, c := range res.Unabsorbed {
				pts = append(pts, plotter.XY{X: proj.x(c.Point), Y: proj.y(c.Point)})
			}
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return files, fmt.Errorf("unabsorbed scatter: %w", err)
			}
			scatter.GlyphStyle.Color = color.RGBA{R: 160, G: 160, B: 160, A: 255}
			scatter.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(scatter)
			p.Legend.Add("unabsorbed", scatter)
		}

		for i, e := range res.Electrodes {
			pts := make(plotter.XYs, 0, len(e.Contacts))
			for _, c := range e.Contacts {
				pts = append(pts, plotter.XY{X: proj.x(c), Y: proj.y(c)})
			}
			line, scatter, err := plotter.NewLinePoints(pts)
			if err != nil {
				return files, fmt.Errorf("electrode %s: %w", e.ID, err)
			}
			line.Color = colors[i]
			line.Width = vg.Points(1)
			scatter.GlyphStyle.Color = colors[i]
			scatter.GlyphStyle.Radius = vg.Points(2.5)
			p.Add(line, scatter)
			p.Legend.Add(fmt.Sprintf("%s (%s)", e.ID, e.SuggestedName), line, scatter)
		}

		p.Legend.Top = true
		p.Legend.Left = false

		file := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", prefix, proj.name))
		if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
			return files, fmt.Errorf("save %s projection: %w", proj.name, err)
		}
		files = append(files, file)
	}
	return files, nil
}

// generateColors creates a palette of distinct colors, one per electrode.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
