// Package captioner burns short text captions into videos and can write
// those captions from a customer's transaction history.
package captioner

import (
	"context"

	"github.com/ZacxDev/video-captioner/internal/ffmpeg"
	"github.com/ZacxDev/video-captioner/internal/logging"
	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/internal/processor"
)

type (
	// OverlayOptions defines options for burning a caption into a video
	OverlayOptions = processor.OverlayOptions
	// GenerateOptions defines options for generating a personalized video
	GenerateOptions = processor.GenerateOptions
	// ProcessedVideo describes a finished output file
	ProcessedVideo = processor.ProcessedVideo
	// Style controls how the caption looks and how long it stays on screen
	Style = overlay.Config
	// VideoMetadata contains metadata about a video file
	VideoMetadata = ffmpeg.VideoMetadata
)

// DefaultStyle returns white text with a green drop shadow for ten seconds
func DefaultStyle() Style {
	return overlay.DefaultConfig()
}

// GetSupportedProfiles returns a list of supported output profiles
func GetSupportedProfiles() []string {
	return processor.GetSupportedProfiles()
}

// GetVideoMetadata retrieves metadata about a video file
func GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	return ffmpeg.NewProcessor(logging.WithComponent("captioner")).GetVideoMetadata(inputPath)
}

// AddText burns opts.Caption into the leading frames of opts.InputPath
func AddText(ctx context.Context, opts *OverlayOptions) (*ProcessedVideo, error) {
	return processor.NewOverlayer(opts, logging.WithComponent("captioner")).Process(ctx)
}

// GenerateCaption looks up the customer's transactions and writes a caption for them
func GenerateCaption(ctx context.Context, opts *GenerateOptions) (string, []string, error) {
	return processor.NewPersonalizer(opts, logging.WithComponent("captioner")).Caption(ctx)
}

// GenerateVideo captions opts.InputPath with a caption generated from the customer's transactions
func GenerateVideo(ctx context.Context, opts *GenerateOptions) (*ProcessedVideo, error) {
	return processor.NewPersonalizer(opts, logging.WithComponent("captioner")).Process(ctx)
}
