package overlay

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPipelineClosed is returned by AddText on a pipeline that already ran
var ErrPipelineClosed = errors.New("overlay pipeline is closed")

// SourceOpenError reports an input video that could not be opened or probed
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("open source %s: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error {
	return e.Err
}

// SinkOpenError reports an output that could not be created or encoded to
type SinkOpenError struct {
	Path string
	Err  error
}

func (e *SinkOpenError) Error() string {
	return fmt.Sprintf("open sink %s: %v", e.Path, e.Err)
}

func (e *SinkOpenError) Unwrap() error {
	return e.Err
}
