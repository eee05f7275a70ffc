package ffmpeg

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

const sampleProbe = `{
  "streams": [
    {"codec_type": "audio", "codec_name": "aac"},
    {
      "codec_type": "video",
      "codec_name": "h264",
      "width": 1280,
      "height": 720,
      "r_frame_rate": "30000/1001",
      "avg_frame_rate": "30000/1001",
      "nb_frames": "300",
      "duration": "10.010000"
    }
  ],
  "format": {"duration": "10.050000"}
}`

func TestParseProbe(t *testing.T) {
	m, err := parseProbe(sampleProbe)
	if err != nil {
		t.Fatalf("parseProbe() error: %v", err)
	}
	if m.Width != 1280 || m.Height != 720 {
		t.Errorf("size = %dx%d", m.Width, m.Height)
	}
	if m.FPS != 30 || m.FrameRate != "30000/1001" {
		t.Errorf("rate = %d (%s)", m.FPS, m.FrameRate)
	}
	if m.FrameCount != 300 || m.Duration != 10.01 || m.Codec != "h264" {
		t.Errorf("metadata = %+v", m)
	}
}

func TestParseProbeFallbacks(t *testing.T) {
	probe := `{
	  "streams": [{"codec_type": "video", "width": 64, "height": 48, "r_frame_rate": "0/0", "avg_frame_rate": "25/1"}],
	  "format": {"duration": "2.0"}
	}`
	m, err := parseProbe(probe)
	if err != nil {
		t.Fatalf("parseProbe() error: %v", err)
	}
	if m.FPS != 25 || m.FrameRate != "25/1" {
		t.Errorf("rate = %d (%s); want 25 (25/1)", m.FPS, m.FrameRate)
	}
	if m.Duration != 2 || m.FrameCount != 50 {
		t.Errorf("duration %v frames %d; want 2 and 50", m.Duration, m.FrameCount)
	}
}

func TestParseProbeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"no streams":    `{"streams": []}`,
		"audio only":    `{"streams": [{"codec_type": "audio"}]}`,
		"zero size":     `{"streams": [{"codec_type": "video", "r_frame_rate": "25/1"}]}`,
		"no frame rate": `{"streams": [{"codec_type": "video", "width": 2, "height": 2, "r_frame_rate": "0/0"}]}`,
	}
	for name, probe := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseProbe(probe); err == nil {
				t.Fatal("parseProbe() succeeded")
			}
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := map[string]float64{
		"30/1":       30,
		"25":         25,
		"24000/1001": 24000.0 / 1001,
		"0/0":        0,
		"":           0,
		"a/b":        0,
		"1/2/3":      0,
	}
	for in, want := range cases {
		if got := parseFrameRate(in); got != want {
			t.Errorf("parseFrameRate(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestEnsureExtension(t *testing.T) {
	cases := []struct{ in, ext, want string }{
		{"out.mov", ".mp4", "out.mp4"},
		{"out", ".webm", "out.webm"},
		{"out.mp4", ".mp4", "out.mp4"},
	}
	for _, c := range cases {
		if got := EnsureExtension(c.in, c.ext); got != c.want {
			t.Errorf("EnsureExtension(%q, %q) = %q; want %q", c.in, c.ext, got, c.want)
		}
	}
}

func TestLogWriterSplitsLines(t *testing.T) {
	var buf bytes.Buffer
	w := logWriter{logger: zerolog.New(&buf)}

	in := []byte("first problem\n\n  second problem  \n")
	n, err := w.Write(in)
	if err != nil || n != len(in) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"second problem"`) {
		t.Fatalf("logged %q", buf.String())
	}
}
