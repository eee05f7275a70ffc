package frame

import (
	"bytes"
	"image"
	"image/color"
)

// BytesPerPixel is the size of one packed BGR24 pixel
const BytesPerPixel = 3

// Frame is a single decoded picture stored as packed BGR24
type Frame struct {
	// Index is the 1-based position of the frame in its stream
	Index  int
	Width  int
	Height int
	// Pix holds Height rows of Width pixels, blue first
	Pix []byte
}

// New allocates a black frame of the given size
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, Size(width, height)),
	}
}

// Size returns the byte length of a BGR24 frame
func Size(width, height int) int {
	return width * height * BytesPerPixel
}

// Clone returns a deep copy of the frame
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Index: f.Index, Width: f.Width, Height: f.Height, Pix: pix}
}

// Equal reports whether both frames hold identical pixels
func (f *Frame) Equal(o *Frame) bool {
	if o == nil {
		return false
	}
	return f.Width == o.Width && f.Height == o.Height && bytes.Equal(f.Pix, o.Pix)
}

// Fill paints every pixel with c
func (f *Frame) Fill(c color.Color) {
	r, g, b, _ := c.RGBA()
	for i := 0; i+2 < len(f.Pix); i += BytesPerPixel {
		f.Pix[i] = uint8(b >> 8)
		f.Pix[i+1] = uint8(g >> 8)
		f.Pix[i+2] = uint8(r >> 8)
	}
}

func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

func (f *Frame) At(x, y int) color.Color {
	if !image.Pt(x, y).In(f.Bounds()) {
		return color.RGBA{}
	}
	i := f.offset(x, y)
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 0xff}
}

// Set writes c, dropping alpha; frames are always opaque
func (f *Frame) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(f.Bounds()) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := f.offset(x, y)
	f.Pix[i] = uint8(b >> 8)
	f.Pix[i+1] = uint8(g >> 8)
	f.Pix[i+2] = uint8(r >> 8)
}

func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * BytesPerPixel
}
