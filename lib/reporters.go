package lib

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/report-shell.html
var templatesFS embed.FS

// ReportGenerator renders a browsable HTML page for a result set.
type ReportGenerator struct {
	imageDir string
}

func NewReportGenerator(imageDir string) *ReportGenerator {
	return &ReportGenerator{imageDir: imageDir}
}

// GenerateHTML writes the viewer to outputPath. Thumbnails are referenced
// relative to the page so the HTML, JSON and image directory can move together.
func (rg *ReportGenerator) GenerateHTML(result *ResultSet, outputPath string) error {
	html, err := rg.generateHTMLContent(result, outputPath)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	slog.Info("HTML viewer generated", "path", outputPath)
	return nil
}

func (rg *ReportGenerator) generateHTMLContent(result *ResultSet, outputPath string) (string, error) {
	result = result.normalized()

	viewerData := map[string]interface{}{
		"guids":       result.GUIDs,
		"frames":      result.Frames,
		"imageDir":    rg.relativeImageDir(outputPath),
		"generatedAt": time.Now().Format(time.RFC3339),
	}

	bundle, err := NewUIBuilder().BuildViewerBundle(viewerData)
	if err != nil {
		return "", fmt.Errorf("failed to build viewer bundle: %w", err)
	}

	templateBytes, err := templatesFS.ReadFile("templates/report-shell.html")
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	// a closing script tag inside the data would end the inline script early
	bundle = strings.ReplaceAll(bundle, "</script", "<\\/script")
	return strings.Replace(string(templateBytes), "{{.JSBundle}}", bundle, 1), nil
}

func (rg *ReportGenerator) relativeImageDir(outputPath string) string {
	pageDir, err := filepath.Abs(filepath.Dir(outputPath))
	if err != nil {
		return filepath.ToSlash(rg.imageDir)
	}
	imageDir, err := filepath.Abs(rg.imageDir)
	if err != nil {
		return filepath.ToSlash(rg.imageDir)
	}
	rel, err := filepath.Rel(pageDir, imageDir)
	if err != nil {
		return filepath.ToSlash(rg.imageDir)
	}
	return filepath.ToSlash(rel)
}
