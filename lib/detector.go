package lib

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultContentThreshold is the HSV delta score that marks a cut.
	DefaultContentThreshold = 27.0
	// DefaultMinSceneLen is the minimum number of frames between cuts.
	DefaultMinSceneLen = 15

	detectorMinWidth = 256
)

type SceneDetector interface {
	DetectScenes(ctx context.Context, video *VideoInfo) ([]Scene, error)
}

// ContentDetector finds hard cuts by comparing consecutive frames in HSV
// space. Sensitivity is fixed at the defaults.
type ContentDetector struct {
	source      FrameSource
	threshold   float64
	minSceneLen int
}

func NewContentDetector(source FrameSource) *ContentDetector {
	return &ContentDetector{
		source:      source,
		threshold:   DefaultContentThreshold,
		minSceneLen: DefaultMinSceneLen,
	}
}

func (d *ContentDetector) DetectScenes(ctx context.Context, video *VideoInfo) ([]Scene, error) {
	width, height, err := downscaledSize(video.Width, video.Height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", video.Path, err)
	}

	tracker := newCutTracker(d.threshold, d.minSceneLen, width*height)
	decoded := 0
	err = d.source.Frames(ctx, video, width, height, func(index int, rgb []byte) error {
		tracker.push(index, rgb)
		decoded = index + 1
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scene detection failed for %s: %w", video.Path, err)
	}

	scenes := scenesFromCuts(tracker.cuts, decoded)
	slog.Debug("Scene detection finished",
		"path", video.Path,
		"framesDecoded", decoded,
		"cuts", len(tracker.cuts),
		"scenes", len(scenes))
	return scenes, nil
}

// downscaledSize shrinks frames by an integer factor so detection works on
// images roughly detectorMinWidth pixels wide.
func downscaledSize(width, height int) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("unknown frame size %dx%d", width, height)
	}
	factor := width / detectorMinWidth
	if factor <= 1 {
		return width, height, nil
	}
	return max(width/factor, 1), max(height/factor, 1), nil
}

// scenesFromCuts turns cut positions into [start, end) scenes covering all
// decoded frames. With no cuts there are no scenes.
func scenesFromCuts(cuts []int, totalFrames int) []Scene {
	if len(cuts) == 0 {
		return nil
	}
	scenes := make([]Scene, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		scenes = append(scenes, Scene{Start: start, End: cut})
		start = cut
	}
	if start < totalFrames {
		scenes = append(scenes, Scene{Start: start, End: totalFrames})
	}
	return scenes
}

type cutTracker struct {
	threshold   float64
	minSceneLen int
	prev, cur   []byte
	hasPrev     bool
	lastCut     int
	cuts        []int
}

func newCutTracker(threshold float64, minSceneLen, pixels int) *cutTracker {
	return &cutTracker{
		threshold:   threshold,
		minSceneLen: minSceneLen,
		prev:        make([]byte, pixels*3),
		cur:         make([]byte, pixels*3),
	}
}

func (t *cutTracker) push(frameNum int, rgb []byte) {
	rgbToHSV(rgb, t.cur)

	if !t.hasPrev {
		t.lastCut = frameNum
	} else if contentScore(t.prev, t.cur) >= t.threshold && frameNum-t.lastCut >= t.minSceneLen {
		t.cuts = append(t.cuts, frameNum)
		t.lastCut = frameNum
	}

	t.prev, t.cur = t.cur, t.prev
	t.hasPrev = true
}

// contentScore averages the mean absolute hue, saturation and value deltas.
func contentScore(a, b []byte) float64 {
	var dh, ds, dv int64
	for i := 0; i+2 < len(a); i += 3 {
		dh += absDiff(a[i], b[i])
		ds += absDiff(a[i+1], b[i+1])
		dv += absDiff(a[i+2], b[i+2])
	}
	pixels := float64(len(a) / 3)
	if pixels == 0 {
		return 0
	}
	return (float64(dh) + float64(ds) + float64(dv)) / pixels / 3
}

func absDiff(a, b byte) int64 {
	if a > b {
		return int64(a - b)
	}
	return int64(b - a)
}

// rgbToHSV converts packed RGB24 to packed 8-bit HSV with hue in [0, 180).
func rgbToHSV(rgb, hsv []byte) {
	for i := 0; i+2 < len(rgb); i += 3 {
		r, g, b := float64(rgb[i]), float64(rgb[i+1]), float64(rgb[i+2])
		v := math.Max(r, math.Max(g, b))
		diff := v - math.Min(r, math.Min(g, b))

		var s, h float64
		if v > 0 {
			s = 255 * diff / v
		}
		if diff > 0 {
			switch v {
			case r:
				h = 60 * (g - b) / diff
			case g:
				h = 120 + 60*(b-r)/diff
			default:
				h = 240 + 60*(r-g)/diff
			}
			if h < 0 {
				h += 360
			}
		}

		hue := math.Round(h / 2)
		if hue >= 180 {
			hue -= 180
		}
		hsv[i] = byte(hue)
		hsv[i+1] = byte(math.Round(s))
		hsv[i+2] = byte(v)
	}
}
