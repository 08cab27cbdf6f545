package lib

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// videoSuffix is matched literally and case-sensitively against the full path.
const videoSuffix = ".mp4"

type FileScanner struct {
	rootDir string
}

func NewFileScanner(rootDir string) *FileScanner {
	return &FileScanner{rootDir: rootDir}
}

// ScanVideoFiles recursively finds all .mp4 files under the root directory in
// walk order. Unreadable entries, including a missing root, are logged and
// skipped.
func (fs *FileScanner) ScanVideoFiles(ctx context.Context) ([]string, error) {
	slog.Debug("Starting video file scan", "rootDir", fs.rootDir)

	var videoFiles []string

	err := filepath.Walk(fs.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("Error accessing path", "path", path, "error", err)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		if IsVideoFile(path) {
			videoFiles = append(videoFiles, path)
			slog.Debug("Found video file", "path", path, "size", info.Size())
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slog.Info("Video file scan completed", "filesFound", len(videoFiles))
	return videoFiles, nil
}

func IsVideoFile(path string) bool {
	return strings.HasSuffix(path, videoSuffix)
}
