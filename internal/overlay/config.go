package overlay

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("invalid overlay config")

// Color is a 24-bit color in the frame's channel order
type Color struct {
	B, G, R uint8
}

// RGBA converts the color for use with image/draw
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Config holds the immutable parameters of one overlay session
type Config struct {
	FontScale     float64
	TextColor     Color
	FontThickness int
	ShadowColor   Color
	ShadowOffset  image.Point
	// Duration is how long the caption stays on screen from the first frame
	Duration time.Duration
}

// DefaultConfig returns white text with a green drop shadow for ten seconds
func DefaultConfig() Config {
	return Config{
		FontScale:     1.0,
		TextColor:     Color{B: 255, G: 255, R: 255},
		FontThickness: 2,
		ShadowColor:   Color{B: 0, G: 128, R: 0},
		ShadowOffset:  image.Pt(1, 1),
		Duration:      10 * time.Second,
	}
}

// Validate checks ranges; colors are always in range by construction
func (c Config) Validate() error {
	if !(c.FontScale > 0) || math.IsInf(c.FontScale, 0) {
		return errors.Wrapf(ErrInvalidConfig, "font scale must be positive, got %v", c.FontScale)
	}
	if c.FontThickness < 1 {
		return errors.Wrapf(ErrInvalidConfig, "font thickness must be at least 1, got %d", c.FontThickness)
	}
	if c.Duration < 0 {
		return errors.Wrapf(ErrInvalidConfig, "duration must not be negative, got %s", c.Duration)
	}
	return nil
}

// TextFrameCount is the number of leading frames that carry the caption.
// It is not clamped to the stream length.
func TextFrameCount(d time.Duration, fps int) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	// whole seconds and the remainder are scaled separately to stay exact in integers
	f := int64(fps)
	whole := int64(d/time.Second) * f
	part := int64(d%time.Second) * f / int64(time.Second)
	return int(whole + part)
}
