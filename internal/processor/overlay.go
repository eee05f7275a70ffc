package processor

import (
	"context"
	"os"

	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/internal/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Overlayer burns a caption into one video
type Overlayer struct {
	opts    *OverlayOptions
	backend Backend
	logger  zerolog.Logger
}

// NewOverlayer creates an overlayer backed by ffmpeg
func NewOverlayer(opts *OverlayOptions, logger zerolog.Logger) *Overlayer {
	return &Overlayer{
		opts:    opts,
		backend: NewFFmpegBackend(logger),
		logger:  logger.With().Str("component", "overlayer").Logger(),
	}
}

// Process renders the caption and writes the output file. A failed run
// removes whatever partial output the encoder produced.
func (o *Overlayer) Process(ctx context.Context) (*ProcessedVideo, error) {
	if o.opts.InputPath == "" || o.opts.OutputPath == "" {
		return nil, errors.New("input and output paths are required")
	}

	prof, err := profile.Get(o.opts.Profile)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	outputPath := ensureOutputPath(o.opts.OutputPath, prof, o.logger)

	// Style problems are reported before ffmpeg starts
	if err := o.opts.Style.Validate(); err != nil {
		return nil, err
	}

	src, err := o.backend.OpenSource(o.opts.InputPath)
	if err != nil {
		return nil, &overlay.SourceOpenError{Path: o.opts.InputPath, Err: err}
	}

	sink, err := o.backend.OpenSink(outputPath, src.Info(), prof)
	if err != nil {
		src.Close()
		return nil, &overlay.SinkOpenError{Path: outputPath, Err: err}
	}

	pipeline, err := overlay.NewPipeline(src, sink, o.opts.Style, o.logger)
	if err != nil {
		src.Close()
		sink.Close()
		os.Remove(outputPath)
		return nil, err
	}

	info := src.Info()
	o.logger.Info().
		Str("input", o.opts.InputPath).
		Str("output", outputPath).
		Str("profile", prof.GetName()).
		Int("width", info.Width).
		Int("height", info.Height).
		Int("fps", info.FPS).
		Msg("adding caption")

	res, err := pipeline.AddText(ctx, o.opts.Caption)
	if err != nil {
		if rmErr := os.Remove(outputPath); rmErr != nil && !os.IsNotExist(rmErr) {
			o.logger.Warn().Err(rmErr).Str("output", outputPath).Msg("failed to remove partial output")
		}
		return nil, errors.Wrapf(err, "failed to caption %s", o.opts.InputPath)
	}

	o.logger.Info().
		Str("output", outputPath).
		Int("frames", res.FramesRead).
		Int("captioned_frames", res.FramesRendered).
		Int("lines", len(res.Lines)).
		Msg("caption added")

	return &ProcessedVideo{
		FilePath:       outputPath,
		Caption:        o.opts.Caption,
		Lines:          res.Lines,
		FramesRead:     res.FramesRead,
		FramesRendered: res.FramesRendered,
	}, nil
}
