package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeProber struct {
	probed []string
	err    error
}

func (p *fakeProber) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.probed = append(p.probed, path)
	return &VideoInfo{Path: path, Width: 640, Height: 360, FrameRate: 30, FrameCount: 300}, nil
}

type fakeDetector struct {
	scenes map[string][]Scene
	calls  []string
	err    error
}

func (d *fakeDetector) DetectScenes(ctx context.Context, video *VideoInfo) ([]Scene, error) {
	d.calls = append(d.calls, video.Path)
	if d.err != nil {
		return nil, d.err
	}
	if scenes, ok := d.scenes[Basename(video.Path)]; ok {
		return scenes, nil
	}
	return []Scene{{0, 20}, {20, 50}}, nil
}

type fakeThumbnailer struct {
	basenames []string
	images    int
}

func (th *fakeThumbnailer) SaveImages(ctx context.Context, video *VideoInfo, scenes []Scene, basename string) ([]string, error) {
	th.basenames = append(th.basenames, basename)
	var paths []string
	for i := range scenes {
		for j := 0; j < ImagesPerScene; j++ {
			paths = append(paths, ThumbnailName(basename, i, j))
		}
	}
	th.images += len(paths)
	return paths, nil
}

func touch(root string, paths ...string) {
	for _, p := range paths {
		full := filepath.Join(root, p)
		Expect(os.MkdirAll(filepath.Dir(full), 0755)).To(Succeed())
		Expect(os.WriteFile(full, []byte("video"), 0644)).To(Succeed())
	}
}

var _ = Describe("FrameExtractor", func() {
	var (
		root       string
		prober     *fakeProber
		detector   *fakeDetector
		thumbnails *fakeThumbnailer
		extractor  *FrameExtractor
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "scene-frames-")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)
		prober = &fakeProber{}
		detector = &fakeDetector{scenes: map[string][]Scene{}}
		thumbnails = &fakeThumbnailer{}
		extractor = NewFrameExtractor(prober, detector, thumbnails)
		ctx = context.Background()
	})

	Context("with an empty directory", func() {
		It("returns an empty result that serializes to empty guids and frames", func() {
			touch(root, "notes.txt", "clip.mkv")

			result, err := extractor.Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.GUIDs).To(BeEmpty())
			Expect(result.Frames).To(BeEmpty())

			out := filepath.Join(root, "scenes.json")
			Expect(result.SaveJSON(out)).To(Succeed())
			data, err := os.ReadFile(out)
			Expect(err).NotTo(HaveOccurred())

			var compact bytes.Buffer
			Expect(json.Compact(&compact, data)).To(Succeed())
			Expect(compact.String()).To(Equal(`{"guids":{},"frames":[]}`))
			Expect(prober.probed).To(BeEmpty())
		})
	})

	Context("with duplicate copies of one asset", func() {
		BeforeEach(func() {
			touch(root,
				"a_high/cpb-aacip-111-222.mp4",
				"b_low/cpb-aacip-111-222_proxy.mp4",
				"c/interview.mp4",
				"c/interview.MP4",
				"c/readme.txt",
			)
		})

		It("processes only the first copy in walk order", func() {
			result, err := extractor.Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.GUIDs).To(HaveLen(2))
			Expect(result.GUIDs).To(HaveKeyWithValue("cpb-aacip-111-222", VideoMeta{FrameCount: 300}))
			Expect(result.GUIDs).To(HaveKey("interview"))

			Expect(detector.calls).To(Equal([]string{
				filepath.Join(root, "a_high/cpb-aacip-111-222.mp4"),
				filepath.Join(root, "c/interview.mp4"),
			}))
			Expect(thumbnails.basenames).To(Equal([]string{"cpb-aacip-111-222", "interview"}))
		})

		It("emits three frame records per scene", func() {
			result, err := extractor.Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Frames).To(HaveLen(3 * 4))
			Expect(result.Frames[:3]).To(Equal([]FrameRecord{
				{Frame: 1, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-001-01.jpg"},
				{Frame: 10, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-001-02.jpg"},
				{Frame: 20, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-001-03.jpg"},
			}))
			Expect(result.Frames[3:6]).To(Equal([]FrameRecord{
				{Frame: 21, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-002-01.jpg"},
				{Frame: 35, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-002-02.jpg"},
				{Frame: 50, GUID: "cpb-aacip-111-222", ImgFile: "cpb-aacip-111-222-Scene-002-03.jpg"},
			}))
			Expect(thumbnails.images).To(Equal(len(result.Frames)))
		})

		It("produces identical JSON across runs", func() {
			first, err := extractor.Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())
			second, err := NewFrameExtractor(&fakeProber{}, &fakeDetector{}, &fakeThumbnailer{}).
				WithProgress(io.Discard).
				Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())

			a, b := filepath.Join(root, "a.json"), filepath.Join(root, "b.json")
			Expect(first.SaveJSON(a)).To(Succeed())
			Expect(second.SaveJSON(b)).To(Succeed())

			dataA, _ := os.ReadFile(a)
			dataB, _ := os.ReadFile(b)
			Expect(dataA).To(Equal(dataB))
		})
	})

	Context("when a video has no scene cuts", func() {
		It("records the video without frames", func() {
			touch(root, "static.mp4")
			detector.scenes["static"] = nil

			result, err := extractor.Scan(ctx, root)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.GUIDs).To(HaveKey("static"))
			Expect(result.Frames).To(BeEmpty())
		})
	})

	Context("when a collaborator fails", func() {
		BeforeEach(func() {
			touch(root, "a.mp4", "b.mp4")
		})

		It("aborts the scan on a probe error", func() {
			prober.err = errors.New("moov atom not found")

			result, err := extractor.Scan(ctx, root)
			Expect(err).To(MatchError(ContainSubstring("moov atom not found")))
			Expect(err.Error()).To(ContainSubstring("a.mp4"))
			Expect(result).To(BeNil())
			Expect(detector.calls).To(BeEmpty())
		})

		It("aborts the scan on a detection error", func() {
			detector.err = errors.New("decode failed")

			result, err := extractor.Scan(ctx, root)
			Expect(err).To(MatchError(detector.err))
			Expect(result).To(BeNil())
			Expect(detector.calls).To(HaveLen(1))
		})
	})
})
