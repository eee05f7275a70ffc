package overlay

import (
	"context"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var testLogger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

// clip builds n distinct gray frames at 640x360
func clip(n, fps int) (*frame.MemorySource, []*frame.Frame) {
	frames := make([]*frame.Frame, n)
	for i := range frames {
		f := frame.New(640, 360)
		v := uint8(40 + i*5)
		f.Fill(color.RGBA{R: v, G: v, B: v, A: 255})
		frames[i] = f
	}
	src := frame.NewMemorySource(frame.Info{Width: 640, Height: 360, FPS: fps, FrameRate: "1/1"}, frames)
	return src, frames
}

func runPipeline(t *testing.T, n, fps int, duration time.Duration, caption string) (*Result, []*frame.Frame, *frame.MemorySink) {
	t.Helper()
	src, frames := clip(n, fps)
	sink := frame.NewMemorySink()

	cfg := DefaultConfig()
	cfg.Duration = duration

	p, err := NewPipeline(src, sink, cfg, testLogger)
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	res, err := p.AddText(context.Background(), caption)
	if err != nil {
		t.Fatalf("AddText() error: %v", err)
	}
	if !src.Closed() || !sink.Closed() {
		t.Fatal("pipeline did not release source and sink")
	}
	return res, frames, sink
}

func TestAddTextWindow(t *testing.T) {
	res, frames, sink := runPipeline(t, 10, 1, 3*time.Second, "Haloo kamu sering transfer")

	if len(sink.Frames) != 10 {
		t.Fatalf("output has %d frames; want 10", len(sink.Frames))
	}
	for i, out := range sink.Frames {
		changed := !out.Equal(frames[i])
		if i < 3 && !changed {
			t.Errorf("frame %d should carry the caption", i+1)
		}
		if i >= 3 && changed {
			t.Errorf("frame %d should be identical to the source", i+1)
		}
	}
	if res.TextFrames != 3 || res.FramesRendered != 3 || res.FramesRead != 10 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Lines) != 1 || res.Lines[0] != "Haloo kamu sering transfer" {
		t.Fatalf("lines = %q", res.Lines)
	}
}

func TestAddTextEmptyCaptionPassesThrough(t *testing.T) {
	res, frames, sink := runPipeline(t, 10, 1, 3*time.Second, "")

	if len(sink.Frames) != len(frames) {
		t.Fatalf("output has %d frames; want %d", len(sink.Frames), len(frames))
	}
	for i, out := range sink.Frames {
		if !out.Equal(frames[i]) {
			t.Errorf("frame %d was modified", i+1)
		}
	}
	if res.FramesRendered != 0 || len(res.Lines) != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestAddTextFrameCountPreserved(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		rendered int
	}{
		{"zero duration", 0, 0},
		{"partial", 4 * time.Second, 8},
		{"longer than clip", time.Minute, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, frames, sink := runPipeline(t, 10, 2, c.duration, "Haloo kamu")
			if len(sink.Frames) != 10 {
				t.Fatalf("output has %d frames; want 10", len(sink.Frames))
			}
			if res.FramesRendered != c.rendered {
				t.Fatalf("rendered %d frames; want %d", res.FramesRendered, c.rendered)
			}
			for i, out := range sink.Frames {
				if changed := !out.Equal(frames[i]); changed != (i < c.rendered) {
					t.Errorf("frame %d changed=%v", i+1, changed)
				}
			}
		})
	}
}

func TestAddTextIsSingleUse(t *testing.T) {
	src, _ := clip(2, 1)
	p, err := NewPipeline(src, frame.NewMemorySink(), DefaultConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddText(context.Background(), "first"); err != nil {
		t.Fatalf("first AddText() error: %v", err)
	}
	if _, err := p.AddText(context.Background(), "second"); !errors.Is(err, ErrPipelineClosed) {
		t.Fatalf("second AddText() = %v; want ErrPipelineClosed", err)
	}
}

func TestAddTextDecodeFailureIsFatal(t *testing.T) {
	src, _ := clip(5, 1)
	src.Err = errors.New("corrupt packet")
	src.FailAt = 2
	sink := frame.NewMemorySink()

	p, err := NewPipeline(src, sink, DefaultConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.AddText(context.Background(), "Haloo")
	if err == nil {
		t.Fatal("AddText() succeeded despite decode failure")
	}
	if res.FramesRead != 2 || len(sink.Frames) != 2 {
		t.Fatalf("read %d, wrote %d; want 2 and 2", res.FramesRead, len(sink.Frames))
	}
	if !src.Closed() || !sink.Closed() {
		t.Fatal("handles left open after failure")
	}
}

func TestAddTextEncodeFailureIsFatal(t *testing.T) {
	src, _ := clip(5, 1)
	sink := frame.NewMemorySink()
	sink.Err = errors.New("disk full")
	sink.FailAt = 1

	p, err := NewPipeline(src, sink, DefaultConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddText(context.Background(), "Haloo"); !errors.Is(err, sink.Err) {
		t.Fatalf("AddText() = %v; want wrapped sink error", err)
	}
}

func TestAddTextHonorsCancellation(t *testing.T) {
	src, _ := clip(5, 1)
	sink := frame.NewMemorySink()
	p, err := NewPipeline(src, sink, DefaultConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.AddText(ctx, "Haloo"); !errors.Is(err, context.Canceled) {
		t.Fatalf("AddText() = %v; want context.Canceled", err)
	}
	if len(sink.Frames) != 0 {
		t.Fatalf("wrote %d frames after cancellation", len(sink.Frames))
	}
}

func TestNewPipelineRejectsBadInput(t *testing.T) {
	src, _ := clip(1, 1)
	if _, err := NewPipeline(nil, frame.NewMemorySink(), DefaultConfig(), testLogger); err == nil {
		t.Error("nil source accepted")
	}
	if _, err := NewPipeline(src, nil, DefaultConfig(), testLogger); err == nil {
		t.Error("nil sink accepted")
	}
	bad := DefaultConfig()
	bad.FontThickness = 0
	if _, err := NewPipeline(src, frame.NewMemorySink(), bad, testLogger); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid config: got %v", err)
	}
}
