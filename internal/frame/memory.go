package frame

import (
	"io"

	"github.com/pkg/errors"
)

// ErrClosed is returned when a closed stream is used
var ErrClosed = errors.New("stream closed")

// MemorySource replays a fixed set of frames
type MemorySource struct {
	info   Info
	frames []*Frame
	pos    int
	closed bool
	// Err, when set, is returned instead of the frame at position FailAt
	Err    error
	FailAt int
}

// NewMemorySource builds a source over frames, which must all match info's size
func NewMemorySource(info Info, frames []*Frame) *MemorySource {
	if info.TotalFrames == 0 {
		info.TotalFrames = len(frames)
	}
	return &MemorySource{info: info, frames: frames, FailAt: -1}
}

func (s *MemorySource) Info() Info {
	return s.info
}

func (s *MemorySource) Next() (*Frame, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.Err != nil && s.pos == s.FailAt {
		return nil, s.Err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos].Clone()
	s.pos++
	f.Index = s.pos
	return f, nil
}

func (s *MemorySource) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called
func (s *MemorySource) Closed() bool {
	return s.closed
}

// MemorySink keeps a copy of every written frame
type MemorySink struct {
	Frames []*Frame
	closed bool
	// Err, when set, fails the write of the frame at position FailAt
	Err    error
	FailAt int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{FailAt: -1}
}

func (s *MemorySink) Write(f *Frame) error {
	if s.closed {
		return ErrClosed
	}
	if s.Err != nil && len(s.Frames) == s.FailAt {
		return s.Err
	}
	s.Frames = append(s.Frames, f.Clone())
	return nil
}

func (s *MemorySink) Close() error {
	s.closed = true
	return nil
}

func (s *MemorySink) Closed() bool {
	return s.closed
}
