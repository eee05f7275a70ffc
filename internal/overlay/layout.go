package overlay

import (
	"image"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLineChars is the character budget of one wrapped line
	MaxLineChars = 40
	// LineSpacing is the vertical gap between wrapped lines in pixels
	LineSpacing  = 9
	BottomMargin = 20
	TopMargin    = 20
)

// Line is one wrapped row of caption text, measured and rasterized
type Line struct {
	Text  string
	Width int
	mask  *image.Alpha
}

// Layout is the geometry of a caption block for one frame size
type Layout struct {
	Lines      []Line
	OriginY    int
	LineHeight int
}

// Texts returns the wrapped line strings
func (l *Layout) Texts() []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		out[i] = line.Text
	}
	return out
}

// Wrap splits caption at whitespace into lines of at most width characters.
// A single word longer than width is kept whole on its own line.
func Wrap(caption string, width int) []string {
	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(caption) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// BlockOrigin anchors a block of lineCount lines to the bottom of the frame,
// never letting it start above TopMargin.
func BlockOrigin(lineCount, frameHeight, lineHeight int) int {
	blockHeight := lineCount*(lineHeight+LineSpacing) - LineSpacing
	return max(frameHeight-blockHeight-BottomMargin, TopMargin)
}

// Engine computes caption layouts for a fixed font scale and thickness
type Engine struct {
	face *textFace
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	face, err := newTextFace(cfg.FontScale, cfg.FontThickness)
	if err != nil {
		return nil, err
	}
	return &Engine{face: face}, nil
}

// LineHeight is the height of one rendered line, measured once per engine
func (e *Engine) LineHeight() int {
	return e.face.lineHeight
}

// Layout wraps and measures caption for frames of the given height
func (e *Engine) Layout(caption string, frameHeight int) *Layout {
	texts := Wrap(caption, MaxLineChars)

	l := &Layout{
		Lines:      make([]Line, 0, len(texts)),
		LineHeight: e.face.lineHeight,
		OriginY:    BlockOrigin(len(texts), frameHeight, e.face.lineHeight),
	}
	for _, text := range texts {
		l.Lines = append(l.Lines, Line{
			Text:  text,
			Width: e.face.width(text),
			mask:  e.face.mask(text),
		})
	}
	return l
}
