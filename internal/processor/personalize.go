package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZacxDev/video-captioner/internal/caption"
	"github.com/ZacxDev/video-captioner/internal/records"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNoRecords is returned when a customer has no qualifying transactions
var ErrNoRecords = errors.New("no matching data found for the given CIF")

// Personalizer turns a customer's transaction history into a captioned video
type Personalizer struct {
	opts      *GenerateOptions
	backend   Backend
	generator caption.Generator
	logger    zerolog.Logger
}

func NewPersonalizer(opts *GenerateOptions, logger zerolog.Logger) *Personalizer {
	return &Personalizer{
		opts:    opts,
		backend: NewFFmpegBackend(logger),
		logger:  logger.With().Str("component", "personalizer").Str("cif", opts.CIF).Logger(),
	}
}

// Categories looks up the customer's transaction categories
func (p *Personalizer) Categories() ([]string, error) {
	if p.opts.RecordsPath == "" || p.opts.CIF == "" {
		return nil, errors.New("records path and CIF are required")
	}

	book, err := records.Open(p.opts.RecordsPath, p.opts.AcceptedTypes...)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	categories, err := book.Categories(p.opts.CIF)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, errors.Wrapf(ErrNoRecords, "cif %s", p.opts.CIF)
	}

	p.logger.Info().Int("patterns", len(categories)).Msg("found transaction patterns")
	return categories, nil
}

// Caption generates the caption text, returning it with the categories it describes
func (p *Personalizer) Caption(ctx context.Context) (string, []string, error) {
	categories, err := p.Categories()
	if err != nil {
		return "", nil, err
	}

	gen := p.generator
	if gen == nil {
		gen, err = caption.New(p.opts.Provider, p.opts.APIKey, p.opts.Model)
		if err != nil {
			return "", nil, err
		}
	}

	text, err := gen.Generate(ctx, categories)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to generate caption")
	}

	p.logger.Debug().Str("caption", text).Msg("generated caption")
	return text, categories, nil
}

// Process runs the full records → caption → overlay flow
func (p *Personalizer) Process(ctx context.Context) (*ProcessedVideo, error) {
	if p.opts.InputPath == "" {
		return nil, errors.New("input video path is required")
	}

	text, categories, err := p.Caption(ctx)
	if err != nil {
		return nil, err
	}

	overlayer := &Overlayer{
		opts: &OverlayOptions{
			InputPath:  p.opts.InputPath,
			OutputPath: p.outputPath(),
			Caption:    text,
			Profile:    p.opts.Profile,
			Style:      p.opts.Style,
		},
		backend: p.backend,
		logger:  p.logger,
	}

	video, err := overlayer.Process(ctx)
	if err != nil {
		return nil, err
	}
	video.Categories = categories
	return video, nil
}

func (p *Personalizer) outputPath() string {
	if p.opts.OutputPath != "" {
		return p.opts.OutputPath
	}
	name := fmt.Sprintf("output_video_%s", sanitizeFilename(p.opts.CIF))
	return filepath.Join(p.opts.OutputDir, name)
}
