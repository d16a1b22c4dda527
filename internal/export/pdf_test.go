package export

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoomBoard/internal/geometry"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

func sampleScene(t *testing.T) state.Scene {
	t.Helper()
	rect, err := state.NewShape(state.KindRectangle, state.Style{Color: "black", StrokeWidth: 2},
		state.Frame{Origin: state.Point{X: 100, Y: 100}, Width: 100, Height: 50})
	require.NoError(t, err)
	geometry.Refresh(&rect, geometry.ApproxMeasurer{})
	return state.Scene{rect}
}

func TestRasterize_CropsToSceneBounds(t *testing.T) {
	img, err := Rasterize(render.New(nil, nil), sampleScene(t), 1)
	require.NoError(t, err)

	assert.Equal(t, 100+2*Margin, img.Rect.Dx())
	assert.Equal(t, 50+2*Margin, img.Rect.Dy())
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(Margin, Margin+25), "left edge of the rectangle")
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(Margin+50, Margin+25))
}

func TestRasterize_EmptyScene(t *testing.T) {
	img, err := Rasterize(render.New(nil, nil), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, emptySide, img.Rect.Dx())
}

func TestRasterize_CapsSize(t *testing.T) {
	img, err := Rasterize(render.New(nil, nil), sampleScene(t), 1000)
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Rect.Dx(), maxSide)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, render.New(nil, nil), sampleScene(t)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100+2*Margin, img.Bounds().Dx())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, render.New(nil, nil), sampleScene(t), "lobby"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDF_NonASCIITitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, render.New(nil, nil), sampleScene(t), "Tafel ü"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
