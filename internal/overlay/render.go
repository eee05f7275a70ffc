package overlay

import (
	"image"

	"github.com/ZacxDev/video-captioner/internal/frame"
	"golang.org/x/image/draw"
)

// Renderer burns a laid-out caption into frames
type Renderer struct {
	shadow image.Image
	text   image.Image
	offset image.Point
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		shadow: image.NewUniform(cfg.ShadowColor.RGBA()),
		text:   image.NewUniform(cfg.TextColor.RGBA()),
		offset: cfg.ShadowOffset,
	}
}

// LineX centers a line of the given width horizontally
func LineX(frameWidth, lineWidth int) int {
	return (frameWidth - lineWidth) / 2
}

// Render draws every line of l into f, shadow first so the main text wins
// where they overlap. Pixels outside the frame are clipped.
func (r *Renderer) Render(f *frame.Frame, l *Layout) {
	y := l.OriginY
	for _, line := range l.Lines {
		x := LineX(f.Width, line.Width)
		r.blit(f, line.mask, image.Pt(x, y).Add(r.offset), r.shadow)
		r.blit(f, line.mask, image.Pt(x, y), r.text)
		y += l.LineHeight + LineSpacing
	}
}

func (r *Renderer) blit(f *frame.Frame, mask *image.Alpha, at image.Point, src image.Image) {
	dr := mask.Bounds().Add(at)
	draw.DrawMask(f, dr, src, image.Point{}, mask, image.Point{}, draw.Over)
}
