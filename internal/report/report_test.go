package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seegkit/seegkit/internal/detect"
)

func testResult() *detect.DetectionResult {
	return &detect.DetectionResult{
		Electrodes: []detect.DetectedElectrode{
			{
				ID:            "electrode-01",
				SuggestedName: "LA",
				Contacts: []detect.Point3{
					{X: 20, Y: 30, Z: 10},
					{X: 20, Y: 30, Z: 14},
					{X: 20, Y: 30, Z: 18},
					{X: 20, Y: 30, Z: 22},
				},
			},
			{
				ID:            "electrode-02",
				SuggestedName: "RP",
				Contacts: []detect.Point3{
					{X: 70, Y: 60, Z: 12},
					{X: 70, Y: 64, Z: 12},
					{X: 70, Y: 68, Z: 12},
					{X: 70, Y: 72, Z: 12},
				},
			},
		},
		Unabsorbed: []detect.Candidate{
			{Point: detect.Point3{X: 5, Y: 5, Z: 5}, Intensity: 1600},
		},
	}
}

func TestSaveProjections(t *testing.T) {
	dir := t.TempDir()
	files, err := SaveProjections(testResult(), dir, "scene")
	if err != nil {
		t.Fatalf("SaveProjections: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			t.Errorf("missing output %s: %v", f, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("empty output %s", f)
		}
		if filepath.Ext(f) != ".png" {
			t.Errorf("unexpected extension for %s", f)
		}
	}
}

func TestSaveProjectionsEmptyResult(t *testing.T) {
	dir := t.TempDir()
	files, err := SaveProjections(&detect.DetectionResult{}, dir, "empty")
	if err != nil {
		t.Fatalf("SaveProjections: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
}

func TestSaveScatter3D(t *testing.T) {
	dir := t.TempDir()
	file, err := SaveScatter3D(testResult(), dir, "scene")
	if err != nil {
		t.Fatalf("SaveScatter3D: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "electrode-01") || !strings.Contains(html, "electrode-02") {
		t.Error("rendered html missing electrode series")
	}
	if !strings.Contains(html, "unabsorbed") {
		t.Error("rendered html missing unabsorbed series")
	}
}

func TestGenerateColorsDistinct(t *testing.T) {
	colors := generateColors(6)
	if len(colors) != 6 {
		t.Fatalf("got %d colors, want 6", len(colors))
	}
	seen := make(map[string]bool)
	for _, c := range colors {
		r, g, b, _ := c.RGBA()
		key := string(rune(r)) + string(rune(g)) + string(rune(b))
		if seen[key] {
			t.Error("duplicate color in palette")
		}
		seen[key] = true
	}
}
