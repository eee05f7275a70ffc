package overlay

import (
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// basePixelSize is the em size in pixels at FontScale 1.0
const basePixelSize = 30.0

var (
	monoOnce sync.Once
	monoFont *opentype.Font
	monoErr  error
)

func loadMono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

// textFace measures and rasterizes single lines at a fixed scale and stroke.
// A face is not safe for concurrent use.
type textFace struct {
	face   font.Face
	ascent int
	// radius of the dilation that turns thickness into wider strokes
	radius     int
	lineHeight int
}

func newTextFace(scale float64, thickness int) (*textFace, error) {
	f, err := loadMono()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse monospace font")
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    basePixelSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create font face")
	}

	radius := thickness / 2
	m := face.Metrics()

	return &textFace{
		face:       face,
		ascent:     m.Ascent.Ceil(),
		radius:     radius,
		lineHeight: m.Ascent.Ceil() + m.Descent.Ceil() + 2*radius,
	}, nil
}

// width is the rendered width of s including the stroke padding
func (t *textFace) width(s string) int {
	return font.MeasureString(t.face, s).Ceil() + 2*t.radius
}

// mask rasterizes s into an anti-aliased coverage mask anchored at (0,0)
func (t *textFace) mask(s string) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, t.width(s), t.lineHeight))
	d := font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: t.face,
		Dot:  fixed.P(t.radius, t.radius+t.ascent),
	}
	d.DrawString(s)

	if t.radius > 0 {
		return dilate(m, t.radius)
	}
	return m
}

// dilate applies a disc-shaped max filter, keeping the anti-aliased edge ramp
func dilate(src *image.Alpha, r int) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var peak uint8
			for dy := -r; dy <= r && peak < 0xff; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx*dx+dy*dy > r*r {
						continue
					}
					p := image.Pt(x+dx, y+dy)
					if !p.In(b) {
						continue
					}
					if a := src.AlphaAt(p.X, p.Y).A; a > peak {
						peak = a
					}
				}
			}
			dst.SetAlpha(x, y, color.Alpha{A: peak})
		}
	}
	return dst
}
