package lib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// VideoMeta is stored once per identifier under "guids".
type VideoMeta struct {
	FrameCount float64 `json:"frame_count"`
}

// FrameRecord ties one representative frame of a scene to its thumbnail.
type FrameRecord struct {
	Frame   int    `json:"frame"`
	GUID    string `json:"guid"`
	ImgFile string `json:"img_file"`
}

// ResultSet is the document written to scenes.json.
type ResultSet struct {
	GUIDs  map[string]VideoMeta `json:"guids"`
	Frames []FrameRecord        `json:"frames"`
}

func NewResultSet() *ResultSet {
	return &ResultSet{
		GUIDs:  make(map[string]VideoMeta),
		Frames: []FrameRecord{},
	}
}

// HasGUID reports whether a video with this identifier was already recorded.
func (r *ResultSet) HasGUID(guid string) bool {
	_, ok := r.GUIDs[guid]
	return ok
}

// AddScene appends the three frame records of one scene.
func (r *ResultSet) AddScene(guid, basename string, sceneIndex int, scene Scene) {
	for j, frame := range RepresentativeFrames(scene) {
		r.Frames = append(r.Frames, FrameRecord{
			Frame:   frame,
			GUID:    guid,
			ImgFile: ThumbnailName(basename, sceneIndex, j),
		})
	}
}

// SaveJSON writes the result set with 4-space indentation, replacing any
// existing file at path.
func (r *ResultSet) SaveJSON(path string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(r.normalized()); err != nil {
		return fmt.Errorf("failed to encode scenes: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("Scene data written", "path", path, "videos", len(r.GUIDs), "frames", len(r.Frames))
	return nil
}

// LoadResultSet reads a scenes.json document written by SaveJSON.
func LoadResultSet(path string) (*ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result ResultSet
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result.normalized(), nil
}

// normalized keeps empty collections as {} and [] instead of null.
func (r *ResultSet) normalized() *ResultSet {
	out := *r
	if out.GUIDs == nil {
		out.GUIDs = make(map[string]VideoMeta)
	}
	if out.Frames == nil {
		out.Frames = []FrameRecord{}
	}
	return &out
}
