package lib

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FrameSource decodes a video into packed RGB24 frames of the requested size.
type FrameSource interface {
	// Frames calls fn for every decoded frame in presentation order. The rgb
	// slice is reused between calls.
	Frames(ctx context.Context, video *VideoInfo, width, height int, fn func(index int, rgb []byte) error) error
}

// FFmpegFrameSource pipes rawvideo out of an ffmpeg child process.
type FFmpegFrameSource struct{}

func NewFFmpegFrameSource() *FFmpegFrameSource {
	return &FFmpegFrameSource{}
}

func decodeArgs(path string, width, height int) []string {
	return ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"map":     "0:v:0",
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
			"s":       fmt.Sprintf("%dx%d", width, height),
			"vsync":   "passthrough",
		}).
		GetArgs()
}

func (s *FFmpegFrameSource) Frames(ctx context.Context, video *VideoInfo, width, height int, fn func(index int, rgb []byte) error) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid decode size %dx%d for %s", width, height, video.Path)
	}

	args := decodeArgs(video.Path, width, height)
	slog.Debug("Decoding frames", "path", video.Path, "size", fmt.Sprintf("%dx%d", width, height))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	frameSize := width * height * 3
	reader := bufio.NewReaderSize(stdout, frameSize)
	frame := make([]byte, frameSize)

	var loopErr error
	for index := 0; ; index++ {
		if _, err := io.ReadFull(reader, frame); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				loopErr = fmt.Errorf("failed to read frame %d: %w", index, err)
			}
			break
		}
		if err := fn(index, frame); err != nil {
			loopErr = err
			break
		}
	}

	if loopErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return loopErr
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg decode failed for %s: %w: %s", video.Path, err, lastLines(stderr.String(), 5))
	}
	return nil
}

// lastLines trims noisy ffmpeg stderr down to its tail.
func lastLines(s string, n int) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
