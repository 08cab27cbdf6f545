package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// VideoInfo is what the extractor needs to know about a video before decoding.
type VideoInfo struct {
	Path       string
	Width      int
	Height     int
	FrameRate  float64
	FrameCount float64
	Duration   float64
}

type FFProbeOutput struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	NbFrames     string `json:"nb_frames,omitempty"`
	AvgFrameRate string `json:"avg_frame_rate,omitempty"`
	RFrameRate   string `json:"r_frame_rate,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type Format struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
}

// FFprobe reads stream metadata through the ffprobe binary.
type FFprobe struct{}

func NewFFprobe() *FFprobe {
	return &FFprobe{}
}

func (p *FFprobe) Probe(ctx context.Context, filePath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath)

	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("ffprobe exit code %d for %s: %s", exitError.ExitCode(), filePath, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}

	var probe FFProbeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	info, err := parseVideoInfo(filePath, &probe)
	if err != nil {
		return nil, err
	}

	slog.Debug("Probed video",
		"path", filePath,
		"resolution", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"fps", info.FrameRate,
		"frames", info.FrameCount)
	return info, nil
}

func parseVideoInfo(filePath string, probe *FFProbeOutput) (*VideoInfo, error) {
	var video *Stream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			video = &probe.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream in %s", filePath)
	}

	info := &VideoInfo{
		Path:   filePath,
		Width:  video.Width,
		Height: video.Height,
	}

	info.FrameRate = parseRate(video.AvgFrameRate)
	if info.FrameRate == 0 {
		info.FrameRate = parseRate(video.RFrameRate)
	}
	if info.FrameRate == 0 {
		return nil, fmt.Errorf("unknown frame rate for %s", filePath)
	}

	if d, err := strconv.ParseFloat(video.Duration, 64); err == nil {
		info.Duration = d
	} else if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	if n, err := strconv.ParseFloat(video.NbFrames, 64); err == nil && n > 0 {
		info.FrameCount = n
	} else {
		info.FrameCount = math.Round(info.Duration * info.FrameRate)
	}

	return info, nil
}

// parseRate converts ffprobe rationals like "30000/1001" to frames per second.
func parseRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// CheckToolsAvailable verifies that ffmpeg and ffprobe are available in PATH
func CheckToolsAvailable() error {
	for _, tool := range []string{"ffprobe", "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s not found in PATH - please install FFmpeg", tool)
		}
	}
	return nil
}
