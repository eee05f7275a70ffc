package processor

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZacxDev/video-captioner/internal/ffmpeg"
	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/internal/profile"
	"github.com/ZacxDev/video-captioner/pkg/types"
	"github.com/rs/zerolog"
)

// OverlayOptions defines options for burning a caption into a video
type OverlayOptions struct {
	InputPath  string
	OutputPath string
	Caption    string
	Profile    string
	Style      overlay.Config
}

// GenerateOptions defines options for the records → caption → video flow
type GenerateOptions struct {
	RecordsPath   string
	CIF           string
	AcceptedTypes []string

	Provider types.CaptionProvider
	APIKey   string
	Model    string

	InputPath string
	// OutputPath defaults to output_video_<cif> in OutputDir
	OutputPath string
	OutputDir  string
	Profile    string
	Style      overlay.Config
}

// ProcessedVideo describes a finished output file
type ProcessedVideo struct {
	FilePath       string
	Caption        string
	Categories     []string
	Lines          []string
	FramesRead     int
	FramesRendered int
}

// Backend opens the decoder and encoder ends of a pipeline
type Backend interface {
	OpenSource(path string) (frame.Source, error)
	OpenSink(path string, info frame.Info, prof profile.Profile) (frame.Sink, error)
}

type ffmpegBackend struct {
	ffmpeg *ffmpeg.Processor
}

// NewFFmpegBackend decodes and encodes through the ffmpeg binary
func NewFFmpegBackend(logger zerolog.Logger) Backend {
	return ffmpegBackend{ffmpeg: ffmpeg.NewProcessor(logger)}
}

func (b ffmpegBackend) OpenSource(path string) (frame.Source, error) {
	return b.ffmpeg.OpenSource(path)
}

func (b ffmpegBackend) OpenSink(path string, info frame.Info, prof profile.Profile) (frame.Sink, error) {
	return b.ffmpeg.OpenSink(path, info, prof)
}

// GetSupportedProfiles returns a list of supported output profiles
func GetSupportedProfiles() []string {
	return profile.Names()
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_.]`)
	repeatedSep = regexp.MustCompile(`_+`)
)

func sanitizeFilename(filename string) string {
	sanitized := filename

	// Remove the old extension if present
	sanitized = strings.TrimSuffix(sanitized, ".mp4")
	sanitized = strings.TrimSuffix(sanitized, ".webm")

	sanitized = unsafeChars.ReplaceAllString(sanitized, "_")
	sanitized = repeatedSep.ReplaceAllString(sanitized, "_")

	sanitized = strings.Trim(sanitized, "_")

	return sanitized
}

func ensureOutputPath(path string, prof profile.Profile, logger zerolog.Logger) string {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			// the sink reports the real failure when it opens the file
			logger.Warn().Err(err).Str("dir", dir).Msg("failed to create output directory")
		}
	}

	// Ensure correct file extension
	ext := profile.Extension(prof)
	if !strings.HasSuffix(strings.ToLower(path), ext) {
		path = ffmpeg.EnsureExtension(path, ext)
	}

	return path
}
