package processor

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/internal/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// memoryBackend replays a fixed clip and records what the pipeline writes
type memoryBackend struct {
	frames    int
	sourceErr error
	sinkErr   error

	sink     *frame.MemorySink
	sinkPath string
	profile  string
}

func (b *memoryBackend) OpenSource(path string) (frame.Source, error) {
	if b.sourceErr != nil {
		return nil, b.sourceErr
	}
	frames := make([]*frame.Frame, b.frames)
	for i := range frames {
		frames[i] = frame.New(320, 180)
		frames[i].Fill(color.RGBA{R: 30, G: 30, B: 30, A: 255})
	}
	return frame.NewMemorySource(frame.Info{Width: 320, Height: 180, FPS: 2, FrameRate: "2/1"}, frames), nil
}

func (b *memoryBackend) OpenSink(path string, info frame.Info, prof profile.Profile) (frame.Sink, error) {
	if b.sinkErr != nil {
		return nil, b.sinkErr
	}
	b.sink = frame.NewMemorySink()
	b.sinkPath = path
	b.profile = prof.GetName()
	return b.sink, nil
}

type stubGenerator struct {
	text string
	got  []string
}

func (g *stubGenerator) Generate(ctx context.Context, categories []string) (string, error) {
	g.got = categories
	return g.text, nil
}

func newOverlayer(opts *OverlayOptions, backend Backend) *Overlayer {
	return &Overlayer{opts: opts, backend: backend, logger: zerolog.Nop()}
}

func styleFor(d time.Duration) overlay.Config {
	cfg := overlay.DefaultConfig()
	cfg.Duration = d
	return cfg
}

func TestOverlayerProcess(t *testing.T) {
	b := &memoryBackend{frames: 6}
	out := filepath.Join(t.TempDir(), "nested", "result.mov")

	video, err := newOverlayer(&OverlayOptions{
		InputPath:  "in.mp4",
		OutputPath: out,
		Caption:    "Haloo kamu",
		Style:      styleFor(time.Second),
	}, b).Process(context.Background())
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	want := filepath.Join(filepath.Dir(out), "result.mp4")
	if video.FilePath != want || b.sinkPath != want {
		t.Errorf("output path = %s (sink %s); want %s", video.FilePath, b.sinkPath, want)
	}
	if b.profile != profile.Default {
		t.Errorf("profile = %s", b.profile)
	}
	if video.FramesRead != 6 || video.FramesRendered != 2 || len(b.sink.Frames) != 6 {
		t.Errorf("video = %+v, wrote %d", video, len(b.sink.Frames))
	}
	if !b.sink.Closed() {
		t.Error("sink left open")
	}
}

func TestOverlayerOpenErrors(t *testing.T) {
	cause := errors.New("boom")

	_, err := newOverlayer(&OverlayOptions{
		InputPath: "in.mp4", OutputPath: filepath.Join(t.TempDir(), "o.mp4"), Style: styleFor(0),
	}, &memoryBackend{sourceErr: cause}).Process(context.Background())
	var srcErr *overlay.SourceOpenError
	if !errors.As(err, &srcErr) || !errors.Is(err, cause) || srcErr.Path != "in.mp4" {
		t.Errorf("source failure = %v", err)
	}

	_, err = newOverlayer(&OverlayOptions{
		InputPath: "in.mp4", OutputPath: filepath.Join(t.TempDir(), "o.mp4"), Style: styleFor(0),
	}, &memoryBackend{frames: 1, sinkErr: cause}).Process(context.Background())
	var sinkErr *overlay.SinkOpenError
	if !errors.As(err, &sinkErr) || !errors.Is(err, cause) {
		t.Errorf("sink failure = %v", err)
	}
}

func TestOverlayerRejectsBadInput(t *testing.T) {
	bad := styleFor(0)
	bad.FontScale = -1
	cases := map[string]*OverlayOptions{
		"missing paths": {Style: styleFor(0)},
		"bad profile":   {InputPath: "a", OutputPath: "b", Profile: "gif", Style: styleFor(0)},
		"bad style":     {InputPath: "a", OutputPath: filepath.Join(t.TempDir(), "b"), Style: bad},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			b := &memoryBackend{frames: 1}
			if _, err := newOverlayer(opts, b).Process(context.Background()); err == nil {
				t.Fatal("Process() succeeded")
			}
			if b.sink != nil {
				t.Fatal("sink opened despite invalid options")
			}
		})
	}
}

func writeRecords(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"CIF", "TRX_TYPE", "SUBHEADER"},
		{7, "Pembayaran", "Kopi"},
		{7, "Pembayaran Qris", "Parkir"},
		{8, "Pembayaran", "Listrik"},
	}
	for i := range rows {
		if err := f.SetSheetRow(sheet, "A"+string(rune('1'+i)), &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "records.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPersonalizerProcess(t *testing.T) {
	b := &memoryBackend{frames: 4}
	gen := &stubGenerator{text: "Haloo, kamu sering ngopi dan parkir!"}
	dir := t.TempDir()

	p := &Personalizer{
		opts: &GenerateOptions{
			RecordsPath: writeRecords(t),
			CIF:         "7",
			InputPath:   "template.mp4",
			OutputDir:   dir,
			Style:       styleFor(time.Second),
		},
		backend:   b,
		generator: gen,
		logger:    zerolog.Nop(),
	}

	video, err := p.Process(context.Background())
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if want := filepath.Join(dir, "output_video_7.mp4"); video.FilePath != want {
		t.Errorf("output = %s; want %s", video.FilePath, want)
	}
	if len(gen.got) != 2 || gen.got[0] != "Kopi" || gen.got[1] != "Parkir" {
		t.Errorf("generator saw %q", gen.got)
	}
	if video.Caption != gen.text || len(video.Categories) != 2 || video.FramesRendered != 2 {
		t.Errorf("video = %+v", video)
	}
}

func TestPersonalizerNoRecords(t *testing.T) {
	p := &Personalizer{
		opts:      &GenerateOptions{RecordsPath: writeRecords(t), CIF: "99", InputPath: "x.mp4"},
		backend:   &memoryBackend{frames: 1},
		generator: &stubGenerator{text: "unused"},
		logger:    zerolog.Nop(),
	}
	if _, err := p.Process(context.Background()); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("Process() = %v; want ErrNoRecords", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"1001":          "1001",
		"a b/c":         "a_b_c",
		"__weird!!id__": "weird_id",
		"clip.mp4":      "clip",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q; want %q", in, got, want)
		}
	}
}
