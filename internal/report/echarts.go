package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/seegkit/seegkit/internal/detect"
)

// SaveScatter3D writes an interactive 3-D HTML view of a detection result:
// one series per electrode plus a grey series for unabsorbed candidates.
// Returns the file written.
func SaveScatter3D(res *detect.DetectionResult, outputDir, prefix string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Detected electrodes",
			Theme:     "dark",
			Width:     "1100px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Detected electrodes",
			Subtitle: fmt.Sprintf("electrodes=%d unabsorbed=%d", len(res.Electrodes), len(res.Unabsorbed)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithGrid3DOpts(opts.Grid3D{
			Show:      opts.Bool(true),
			BoxWidth:  100,
			BoxHeight: 100,
			BoxDepth:  100,
		}),
	)

	if len(res.Unabsorbed) > 0 {
		data := make([]opts.Chart3DData, 0, len(res.Unabsorbed))
		for _, c := range res.Unabsorbed {
			data = append(data, opts.Chart3DData{Value: []interface{}{c.Point.X, c.Point.Y, c.Point.Z}})
		}
		scatter.AddSeries("unabsorbed", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e", Opacity: opts.Float(0.4)}))
	}

	palette := generateColors(len(res.Electrodes))
	for i, e := range res.Electrodes {
		data := make([]opts.Chart3DData, 0, len(e.Contacts))
		for _, c := range e.Contacts {
			data = append(data, opts.Chart3DData{Value: []interface{}{c.X, c.Y, c.Z}})
		}
		r, g, b, _ := palette[i].RGBA()
		scatter.AddSeries(fmt.Sprintf("%s (%s)", e.ID, e.SuggestedName), data,
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8)),
			}))
	}

	file := filepath.Join(outputDir, prefix+"_3d.html")
	f, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create html file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return "", fmt.Errorf("failed to render 3d chart: %w", err)
	}
	return file, nil
}
