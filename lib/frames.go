package lib

import (
	"fmt"
	"math"
)

// ImagesPerScene is the number of thumbnails exported for every scene.
const ImagesPerScene = 3

// imageFrameMargin keeps the first and last thumbnail off the cut itself.
const imageFrameMargin = 1

// Scene is a half-open frame range [Start, End).
type Scene struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Scene) Len() int {
	return s.End - s.Start
}

// RepresentativeFrames returns start+1, the midpoint and end of a scene.
// The midpoint rounds half to even, so a 9-frame scene starting at 10 gives
// 11, 15, 19. Scenes of three frames or fewer may collapse the ordering.
func RepresentativeFrames(s Scene) [ImagesPerScene]int {
	half := int(math.RoundToEven(float64(s.End-s.Start) / 2))
	return [ImagesPerScene]int{s.Start + 1, s.End - half, s.End}
}

// ThumbnailName is the exported image name for a 0-based scene and image index.
func ThumbnailName(basename string, sceneIndex, imageIndex int) string {
	return fmt.Sprintf("%s-Scene-%03d-%02d.jpg", basename, sceneIndex+1, imageIndex+1)
}

// ThumbnailFrames picks the frames actually exported for a scene. The scene is
// split into ImagesPerScene near-equal chunks (earlier chunks take the
// remainder); the first image sits one frame into the first chunk, middle
// images at their chunk's centre and the last image one frame before the end
// of the final chunk.
func ThumbnailFrames(s Scene) [ImagesPerScene]int {
	var frames [ImagesPerScene]int
	n := s.Len()
	if n <= 0 {
		for i := range frames {
			frames[i] = s.Start
		}
		return frames
	}

	size, extra := n/ImagesPerScene, n%ImagesPerScene
	offset := s.Start
	for i := 0; i < ImagesPerScene; i++ {
		chunk := size
		if i < extra {
			chunk++
		}
		if chunk == 0 {
			// fewer frames than images: reuse the last real frame
			frames[i] = s.End - 1
			continue
		}

		var pick int
		switch i {
		case 0:
			pick = min(imageFrameMargin, chunk-1)
		case ImagesPerScene - 1:
			pick = max(chunk-1-imageFrameMargin, 0)
		default:
			pick = chunk / 2
		}
		frames[i] = offset + pick
		offset += chunk
	}
	return frames
}
