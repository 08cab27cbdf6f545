package lib

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileScanner_ScanVideoFiles(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []struct {
		path    string
		isVideo bool
	}{
		{"video1.mp4", true},
		{"video2.mkv", false},
		{"upper.MP4", false},
		{"document.txt", false},
		{"subdir/video3.mp4", true},
		{"subdir/audio.mp3", false},
		{"subdir/deep/cpb-aacip-1-2.mp4", true},
		{"subdir/deep/video.mp4.bak", false},
	}

	for _, tf := range testFiles {
		fullPath := filepath.Join(tempDir, tf.path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte("test content"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	scanner := NewFileScanner(tempDir)
	videoFiles, err := scanner.ScanVideoFiles(context.Background())
	if err != nil {
		t.Fatalf("ScanVideoFiles failed: %v", err)
	}

	expectedCount := 0
	for _, tf := range testFiles {
		if tf.isVideo {
			expectedCount++
		}
	}

	if len(videoFiles) != expectedCount {
		t.Errorf("Expected %d video files, got %d: %v", expectedCount, len(videoFiles), videoFiles)
	}

	for _, file := range videoFiles {
		if !strings.HasSuffix(file, ".mp4") {
			t.Errorf("Non-video file found: %s", file)
		}
	}
}

func TestFileScanner_MissingRoot(t *testing.T) {
	scanner := NewFileScanner(filepath.Join(t.TempDir(), "does-not-exist"))
	videoFiles, err := scanner.ScanVideoFiles(context.Background())
	if err != nil {
		t.Fatalf("Missing root should not error: %v", err)
	}
	if len(videoFiles) != 0 {
		t.Errorf("Expected no files, got %v", videoFiles)
	}
}

func TestFileScanner_Cancelled(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.mp4"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileScanner(tempDir).ScanVideoFiles(ctx); err == nil {
		t.Error("Expected cancelled scan to fail")
	}
}

func TestIsVideoFile(t *testing.T) {
	testCases := []struct {
		filename string
		expected bool
	}{
		{"test.mp4", true},
		{"dir/test.mp4", true},
		{"test.MP4", false},
		{"test.mkv", false},
		{"test.mp4.part", false},
		{"mp4", false},
	}

	for _, tc := range testCases {
		if got := IsVideoFile(tc.filename); got != tc.expected {
			t.Errorf("For %s: expected %v, got %v", tc.filename, tc.expected, got)
		}
	}
}
