package lib

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultImageDir is where thumbnails go unless configured otherwise.
const DefaultImageDir = "image_outputs"

type ThumbnailExporter interface {
	// SaveImages writes ImagesPerScene JPEGs for every scene and returns
	// their paths in scene order.
	SaveImages(ctx context.Context, video *VideoInfo, scenes []Scene, basename string) ([]string, error)
}

// FFmpegThumbnailer grabs single frames with ffmpeg.
type FFmpegThumbnailer struct {
	outputDir string
}

func NewFFmpegThumbnailer(outputDir string) *FFmpegThumbnailer {
	return &FFmpegThumbnailer{outputDir: outputDir}
}

func (t *FFmpegThumbnailer) SaveImages(ctx context.Context, video *VideoInfo, scenes []Scene, basename string) ([]string, error) {
	if len(scenes) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(t.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	paths := make([]string, 0, len(scenes)*ImagesPerScene)
	for i, scene := range scenes {
		for j, frame := range ThumbnailFrames(scene) {
			outPath := filepath.Join(t.outputDir, ThumbnailName(basename, i, j))
			if err := t.exportFrame(ctx, video, frame, outPath); err != nil {
				return paths, err
			}
			paths = append(paths, outPath)
		}
	}

	slog.Debug("Thumbnails exported", "path", video.Path, "images", len(paths), "dir", t.outputDir)
	return paths, nil
}

func thumbnailArgs(inputPath, outputPath string, seconds float64) []string {
	return ffmpeg.Input(inputPath, ffmpeg.KwArgs{
		"ss": strconv.FormatFloat(seconds, 'f', 6, 64),
	}).
		Output(outputPath, ffmpeg.KwArgs{
			"map":      "0:v:0",
			"frames:v": 1,
			"q:v":      2,
		}).
		OverWriteOutput().
		GetArgs()
}

func (t *FFmpegThumbnailer) exportFrame(ctx context.Context, video *VideoInfo, frame int, outPath string) error {
	if video.FrameRate <= 0 {
		return fmt.Errorf("cannot seek %s without a frame rate", video.Path)
	}
	seconds := float64(frame) / video.FrameRate

	cmd := exec.CommandContext(ctx, "ffmpeg", thumbnailArgs(video.Path, outPath, seconds)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg thumbnail failed for %s frame %d: %w: %s", video.Path, frame, err, lastLines(string(output), 5))
	}
	return nil
}
