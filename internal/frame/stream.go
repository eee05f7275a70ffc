package frame

// Info describes the geometry and timing of a video stream
type Info struct {
	Width  int
	Height int
	// FPS is the frame rate rounded to whole frames per second
	FPS int
	// FrameRate is the exact rate as reported by the container, e.g. "30000/1001"
	FrameRate string
	// TotalFrames is 0 when the container does not report a frame count
	TotalFrames int
}

// Source yields decoded frames in presentation order.
//
// Next returns io.EOF once the stream is exhausted. The returned frame is only
// valid until the following call to Next.
type Source interface {
	Info() Info
	Next() (*Frame, error)
	Close() error
}

// Sink consumes frames in the order they are written. Output is only durable
// after Close returns nil.
type Sink interface {
	Write(f *Frame) error
	Close() error
}
