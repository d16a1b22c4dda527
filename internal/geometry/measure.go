package geometry

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is used when a shape carries no usable font size.
const DefaultFontSize = 16

// maxFaces bounds the face cache; zooming requests many distinct sizes.
const maxFaces = 64

// TextExtents are the measured extents of a single line of text.
type TextExtents struct {
	Advance float64
	Ascent  float64
	Descent float64
}

// TextMeasurer is the text measurement capability of a rendering surface.
type TextMeasurer interface {
	Measure(content string, fontSize float64) TextExtents
}

// ApproxMeasurer estimates extents from the rune count. It is deterministic
// and needs no font data.
type ApproxMeasurer struct{}

func (ApproxMeasurer) Measure(content string, fontSize float64) TextExtents {
	fontSize = sanitizeSize(fontSize)
	return TextExtents{
		Advance: 0.6 * fontSize * float64(utf8.RuneCountInString(content)),
		Ascent:  0.8 * fontSize,
		Descent: 0.2 * fontSize,
	}
}

// FontMeasurer measures with the Go Regular font and hands the same faces
// to the renderer. The cache is locked but the faces it returns are not
// safe for concurrent use, so each goroutine that draws needs its own.
type FontMeasurer struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

func NewFontMeasurer() (*FontMeasurer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular font: %w", err)
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Face returns a face for the given pixel size, rounded to half a pixel.
func (m *FontMeasurer) Face(size float64) (font.Face, error) {
	size = math.Round(sanitizeSize(size)*2) / 2

	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	if len(m.faces) >= maxFaces {
		for k, face := range m.faces {
			face.Close()
			delete(m.faces, k)
		}
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face at %.1fpx: %w", size, err)
	}
	m.faces[size] = face
	return face, nil
}

func (m *FontMeasurer) Measure(content string, fontSize float64) TextExtents {
	face, err := m.Face(fontSize)
	if err != nil {
		return ApproxMeasurer{}.Measure(content, fontSize)
	}
	metrics := face.Metrics()
	return TextExtents{
		Advance: fixedToFloat(font.MeasureString(face, content)),
		Ascent:  fixedToFloat(metrics.Ascent),
		Descent: fixedToFloat(metrics.Descent),
	}
}

func sanitizeSize(size float64) float64 {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return DefaultFontSize
	}
	return size
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
