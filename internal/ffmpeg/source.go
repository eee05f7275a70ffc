package ffmpeg

import (
	"io"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Source decodes a video file into BGR24 frames through an ffmpeg pipe.
// The frame returned by Next is reused by the following call.
type Source struct {
	info   frame.Info
	pipe   *io.PipeReader
	done   chan error
	buf    *frame.Frame
	index  int
	closed bool
	logger zerolog.Logger
}

// OpenSource probes inputPath and starts decoding it
func (p *Processor) OpenSource(inputPath string) (*Source, error) {
	metadata, err := p.GetVideoMetadata(inputPath)
	if err != nil {
		return nil, err
	}

	info := frame.Info{
		Width:       metadata.Width,
		Height:      metadata.Height,
		FPS:         metadata.FPS,
		FrameRate:   metadata.FrameRate,
		TotalFrames: metadata.FrameCount,
	}

	logger := p.logger.With().Str("stream", "decode").Logger()
	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		err := ffmpeg.Input(inputPath).
			Output("pipe:", ffmpeg.KwArgs{
				"format":  "rawvideo",
				"pix_fmt": "bgr24",
				"an":      "",
			}).
			GlobalArgs(quietArgs...).
			WithOutput(pw).
			WithErrorOutput(logWriter{logger: logger}).
			Run()
		if err != nil {
			err = errors.Wrap(err, "ffmpeg decode failed")
		}
		pw.CloseWithError(err)
		done <- err
	}()

	return &Source{
		info:   info,
		pipe:   pr,
		done:   done,
		buf:    frame.New(info.Width, info.Height),
		logger: logger,
	}, nil
}

func (s *Source) Info() frame.Info {
	return s.info
}

// Next returns io.EOF once the decoder has produced every frame
func (s *Source) Next() (*frame.Frame, error) {
	if s.closed {
		return nil, frame.ErrClosed
	}

	_, err := io.ReadFull(s.pipe, s.buf.Pix)
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, errors.Errorf("truncated frame after %d frames", s.index)
	case err != nil:
		return nil, err
	}

	s.index++
	s.buf.Index = s.index
	return s.buf, nil
}

// Close stops the decoder and waits for it to exit
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.pipe.Close()
	if err := <-s.done; err != nil {
		// an early close makes ffmpeg fail on a broken pipe
		s.logger.Debug().Err(err).Int("frames", s.index).Msg("decoder stopped")
	}
	return nil
}
