package ffmpeg

import (
	"encoding/json"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration   float64
	Width      int
	Height     int
	Codec      string
	FPS        int
	FrameRate  string
	FrameCount int
}

// Processor wraps FFmpeg functionality
type Processor struct {
	logger zerolog.Logger
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{
		logger: logger.With().Str("component", "ffmpeg").Logger(),
	}
}

// GetVideoMetadata retrieves metadata about a video file
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "error probing video")
	}

	metadata, err := parseProbe(probe)
	if err != nil {
		return nil, errors.Wrapf(err, "unusable probe output for %s", inputPath)
	}

	p.logger.Debug().
		Str("path", inputPath).
		Int("width", metadata.Width).
		Int("height", metadata.Height).
		Str("frame_rate", metadata.FrameRate).
		Int("frames", metadata.FrameCount).
		Float64("duration", metadata.Duration).
		Str("codec", metadata.Codec).
		Msg("probed video")

	return metadata, nil
}

// probeResult matches the subset of ffprobe JSON output we read
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

func parseProbe(probe string) (*VideoMetadata, error) {
	var data probeResult
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(data.Streams) == 0 {
		return nil, errors.New("no streams found in video")
	}

	idx := -1
	for i, s := range data.Streams {
		if s.CodecType == "video" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.New("no video stream found")
	}
	stream := data.Streams[idx]

	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", stream.Width, stream.Height)
	}

	rateStr := stream.RFrameRate
	rate := parseFrameRate(rateStr)
	if rate <= 0 {
		rateStr = stream.AvgFrameRate
		rate = parseFrameRate(rateStr)
	}
	if rate <= 0 {
		return nil, errors.New("could not determine frame rate")
	}

	// First try video stream duration, then format duration
	duration := parseSeconds(stream.Duration)
	if duration == 0 {
		duration = parseSeconds(data.Format.Duration)
	}

	frames, _ := strconv.Atoi(stream.NbFrames)
	if frames == 0 && duration > 0 {
		frames = int(math.Round(duration * rate))
	}
	// If still no duration found, try calculating from frames and frame rate
	if duration == 0 && frames > 0 {
		duration = float64(frames) / rate
	}

	return &VideoMetadata{
		Duration:   duration,
		Width:      stream.Width,
		Height:     stream.Height,
		Codec:      stream.CodecName,
		FPS:        int(math.Round(rate)),
		FrameRate:  rateStr,
		FrameCount: frames,
	}, nil
}

// parseFrameRate turns "30000/1001" or "25" into frames per second
func parseFrameRate(rate string) float64 {
	nums := strings.Split(strings.TrimSpace(rate), "/")
	num, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return 0
	}
	if len(nums) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(nums[1], 64)
	if err != nil || den == 0 || len(nums) != 2 {
		return 0
	}
	return num / den
}

func parseSeconds(s string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// EnsureExtension replaces any known video extension on filename with extension
func EnsureExtension(filename, extension string) string {
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}

// logWriter forwards ffmpeg stderr lines to the logger
type logWriter struct {
	logger zerolog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.logger.Warn().Msg(line)
		}
	}
	return len(p), nil
}

// quietArgs keeps ffmpeg from printing anything but errors
var quietArgs = []string{"-hide_banner", "-loglevel", "error"}
