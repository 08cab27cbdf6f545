package lib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

type VideoProber interface {
	Probe(ctx context.Context, path string) (*VideoInfo, error)
}

// FrameExtractor walks a directory of videos and collects representative
// frames for every scene of every distinct asset.
type FrameExtractor struct {
	prober     VideoProber
	detector   SceneDetector
	thumbnails ThumbnailExporter
	progress   io.Writer
}

func NewFrameExtractor(prober VideoProber, detector SceneDetector, thumbnails ThumbnailExporter) *FrameExtractor {
	return &FrameExtractor{
		prober:     prober,
		detector:   detector,
		thumbnails: thumbnails,
	}
}

// WithProgress renders a progress bar to w while scanning.
func (fe *FrameExtractor) WithProgress(w io.Writer) *FrameExtractor {
	fe.progress = w
	return fe
}

// Scan processes every .mp4 under rootDir in walk order. Files whose
// identifier was already seen are skipped silently. The first failure aborts
// the scan.
func (fe *FrameExtractor) Scan(ctx context.Context, rootDir string) (*ResultSet, error) {
	videoFiles, err := NewFileScanner(rootDir).ScanVideoFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video files: %w", err)
	}

	result := NewResultSet()
	if len(videoFiles) == 0 {
		slog.Warn("No video files found in directory", "dir", rootDir)
		return result, nil
	}

	bar := fe.newProgressBar(len(videoFiles))
	for _, path := range videoFiles {
		id := DeriveIdentifier(path)
		if result.HasGUID(id.Value) {
			slog.Debug("Skipping duplicate asset", "path", path, "guid", id.Value)
			bar.Add(1)
			continue
		}

		info, err := fe.prober.Probe(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		result.GUIDs[id.Value] = VideoMeta{FrameCount: info.FrameCount}

		if err := fe.processVideo(ctx, info, id, result); err != nil {
			return nil, err
		}
		bar.Add(1)
	}
	bar.Finish()

	slog.Info("Scan completed",
		"candidates", len(videoFiles),
		"videos", len(result.GUIDs),
		"frames", len(result.Frames))
	return result, nil
}

func (fe *FrameExtractor) processVideo(ctx context.Context, info *VideoInfo, id IdentifierMatch, result *ResultSet) error {
	slog.Info("Reading " + info.Path)
	slog.Debug("Identifier derived", "guid", id.Value, "source", id.Source)
	readStart := time.Now()

	scenes, err := fe.detector.DetectScenes(ctx, info)
	if err != nil {
		return err
	}

	basename := Basename(info.Path)
	if _, err := fe.thumbnails.SaveImages(ctx, info, scenes, basename); err != nil {
		return fmt.Errorf("failed to save images for %s: %w", info.Path, err)
	}

	for i, scene := range scenes {
		result.AddScene(id.Value, basename, i, scene)
	}

	slog.Info("Time elapsed: "+FormatElapsed(time.Since(readStart)), "scenes", len(scenes))
	return nil
}

func (fe *FrameExtractor) newProgressBar(total int) *progressbar.ProgressBar {
	if fe.progress == nil {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(fe.progress),
		progressbar.OptionSetDescription("Extracting scenes"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
