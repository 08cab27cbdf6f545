package lib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

type App struct {
	Config   *Config
	Progress io.Writer
}

func (a *App) Run(ctx context.Context) error {
	slog.Debug("Application starting", "config", fmt.Sprintf("%+v", *a.Config))

	if err := a.Config.Validate(); err != nil {
		return err
	}

	if err := CheckToolsAvailable(); err != nil {
		return err
	}

	extractor := NewFrameExtractor(
		NewFFprobe(),
		NewContentDetector(NewFFmpegFrameSource()),
		NewFFmpegThumbnailer(a.Config.ImageDir),
	).WithProgress(a.Progress)

	result, err := extractor.Scan(ctx, a.Config.InputDir)
	if err != nil {
		return err
	}

	if err := result.SaveJSON(a.Config.OutputFile); err != nil {
		return err
	}

	if a.Config.HTMLFile != "" {
		reporter := NewReportGenerator(a.Config.ImageDir)
		if err := reporter.GenerateHTML(result, a.Config.HTMLFile); err != nil {
			return fmt.Errorf("failed to generate HTML viewer: %w", err)
		}
	}

	return nil
}
