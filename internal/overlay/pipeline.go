package overlay

import (
	"context"
	"io"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type state int

const (
	stateOpen state = iota
	stateStreaming
	stateClosed
)

// Result summarizes one AddText pass
type Result struct {
	Lines          []string
	TextFrames     int
	FramesRead     int
	FramesRendered int
}

// Pipeline streams frames from a source to a sink, burning a caption into
// the leading frames. It owns both handles and is single-use: after AddText
// returns, the pipeline is closed.
type Pipeline struct {
	src      frame.Source
	sink     frame.Sink
	cfg      Config
	engine   *Engine
	renderer *Renderer
	logger   zerolog.Logger
	state    state
}

// NewPipeline takes ownership of src and sink. On error neither is closed.
func NewPipeline(src frame.Source, sink frame.Sink, cfg Config, logger zerolog.Logger) (*Pipeline, error) {
	if src == nil {
		return nil, errors.New("overlay pipeline requires a source")
	}
	if sink == nil {
		return nil, errors.New("overlay pipeline requires a sink")
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		src:      src,
		sink:     sink,
		cfg:      cfg,
		engine:   engine,
		renderer: NewRenderer(cfg),
		logger:   logger.With().Str("component", "overlay").Logger(),
		state:    stateOpen,
	}, nil
}

// AddText copies every source frame to the sink, drawing caption on frames
// whose 1-based index is within the active window. Any decode or encode
// failure aborts the pass; the sink output must then be discarded.
func (p *Pipeline) AddText(ctx context.Context, caption string) (res *Result, err error) {
	if p.state != stateOpen {
		return nil, ErrPipelineClosed
	}
	p.state = stateStreaming
	defer func() {
		if cerr := p.close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	info := p.src.Info()
	layout := p.engine.Layout(caption, info.Height)

	res = &Result{
		Lines:      layout.Texts(),
		TextFrames: TextFrameCount(p.cfg.Duration, info.FPS),
	}

	p.logger.Debug().
		Int("lines", len(layout.Lines)).
		Int("origin_y", layout.OriginY).
		Int("line_height", layout.LineHeight).
		Int("text_frames", res.TextFrames).
		Int("fps", info.FPS).
		Int("total_frames", info.TotalFrames).
		Msg("caption layout computed")

	hasText := len(layout.Lines) > 0
	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "overlay cancelled at frame %d", index)
		}

		f, err := p.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.Wrapf(err, "failed to decode frame %d", index)
		}
		res.FramesRead++

		if hasText && index <= res.TextFrames {
			p.renderer.Render(f, layout)
			res.FramesRendered++
		}

		if err := p.sink.Write(f); err != nil {
			return res, errors.Wrapf(err, "failed to encode frame %d", index)
		}
	}

	p.logger.Debug().
		Int("frames_read", res.FramesRead).
		Int("frames_rendered", res.FramesRendered).
		Msg("source exhausted")

	return res, nil
}

// close releases both handles; the sink error wins since it decides durability
func (p *Pipeline) close() error {
	if p.state == stateClosed {
		return nil
	}
	p.state = stateClosed

	srcErr := p.src.Close()
	if err := p.sink.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize output")
	}
	if srcErr != nil {
		return errors.Wrap(srcErr, "failed to release source")
	}
	return nil
}
