package ffmpeg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"github.com/ZacxDev/video-captioner/internal/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Sink encodes BGR24 frames into outputPath through an ffmpeg pipe
type Sink struct {
	info   frame.Info
	pipe   *io.PipeWriter
	done   chan error
	frames int
	closed bool
	logger zerolog.Logger
}

// OpenSink starts an encoder matching info's size and rate. It fails before
// any frame is decoded when ffmpeg is missing or outputPath is not writable.
func (p *Processor) OpenSink(outputPath string, info frame.Info, prof profile.Profile) (*Sink, error) {
	if prof == nil {
		return nil, errors.New("no output profile")
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", info.Width, info.Height)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.Wrap(err, "ffmpeg not found")
	}
	if err := checkWritable(outputPath); err != nil {
		return nil, err
	}

	rate := info.FrameRate
	if rate == "" {
		rate = strconv.Itoa(info.FPS)
	}

	outputKwargs := ffmpeg.KwArgs{
		"c:v":     prof.GetVideoCodec(),
		"pix_fmt": prof.GetPixelFormat(),
		"format":  prof.GetOutputFormat(),
		"threads": GetOptimalThreadCount(),
		"an":      "",
	}
	if tag := prof.GetCodecTag(); tag != "" {
		outputKwargs["tag:v"] = tag
	}
	if bitrate := prof.GetVideoBitrate(); bitrate != "" {
		outputKwargs["b:v"] = bitrate
	}
	if prof.GetOutputFormat() == "mp4" {
		outputKwargs["movflags"] = "+faststart"
	}

	// Add codec-specific settings
	switch prof.GetVideoCodec() {
	case "libx264":
		outputKwargs["profile:v"] = "high"
		outputKwargs["preset"] = "medium"
		outputKwargs["crf"] = 18
	case "libvpx-vp9":
		outputKwargs["deadline"] = "good"
		outputKwargs["cpu-used"] = 2
		outputKwargs["row-mt"] = 1
	}

	logger := p.logger.With().Str("stream", "encode").Str("profile", prof.GetName()).Logger()
	logger.Debug().
		Str("path", outputPath).
		Str("codec", prof.GetVideoCodec()).
		Str("frame_rate", rate).
		Msg("starting encoder")

	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		err := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "bgr24",
			"s":       fmt.Sprintf("%dx%d", info.Width, info.Height),
			"r":       rate,
		}).
			Output(outputPath, outputKwargs).
			OverWriteOutput().
			GlobalArgs(quietArgs...).
			WithInput(pr).
			WithErrorOutput(logWriter{logger: logger}).
			Run()
		if err != nil {
			err = errors.Wrap(err, "ffmpeg encode failed")
		}
		pr.CloseWithError(err)
		done <- err
	}()

	return &Sink{
		info:   info,
		pipe:   pw,
		done:   done,
		logger: logger,
	}, nil
}

func (s *Sink) Write(f *frame.Frame) error {
	if s.closed {
		return frame.ErrClosed
	}
	if f.Width != s.info.Width || f.Height != s.info.Height {
		return errors.Errorf("frame is %dx%d, encoder expects %dx%d", f.Width, f.Height, s.info.Width, s.info.Height)
	}
	if _, err := s.pipe.Write(f.Pix); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Close flushes the encoder and waits for the container to be finalized
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.pipe.Close()
	err := <-s.done
	s.logger.Debug().Int("frames", s.frames).Msg("encoder finished")
	return err
}

// checkWritable creates outputPath if needed so path problems surface early
func checkWritable(outputPath string) error {
	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(err, "output path is not writable")
	}
	return f.Close()
}
