// Package export writes a scene out as PNG or PDF. Both go through the
// raster renderer so eraser strokes cut the ink exactly as on screen.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"RoomBoard/internal/geometry"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
	"RoomBoard/internal/view"
)

const (
	// Margin is the blank border around the scene, in output pixels.
	Margin = 20
	// maxSide caps either dimension of the raster.
	maxSide = 4096

	emptySide = 200
)

// Rasterize renders the whole scene at the given scale onto white, cropped
// to the scene bounds plus Margin.
func Rasterize(r *render.Renderer, scene state.Scene, scale float64) (*image.RGBA, error) {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	bounds, ok := geometry.SceneBounds(scene)
	if !ok {
		img := image.NewRGBA(image.Rect(0, 0, emptySide, emptySide))
		return render.Flatten(img, color.White), nil
	}
	if longest := math.Max(bounds.Width, bounds.Height) * scale; longest+2*Margin > maxSide {
		scale = (maxSide - 2*Margin - 1) / math.Max(bounds.Width, bounds.Height)
	}

	v := view.New(scale, scale)
	v.Pan(Margin-bounds.X*scale, Margin-bounds.Y*scale)
	w := int(math.Ceil(bounds.Width*scale)) + 2*Margin
	h := int(math.Ceil(bounds.Height*scale)) + 2*Margin

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := r.Render(img, render.Frame{Scene: scene, View: v}); err != nil {
		return nil, fmt.Errorf("render scene: %w", err)
	}
	return render.Flatten(img, color.White), nil
}

func PNG(w io.Writer, r *render.Renderer, scene state.Scene) error {
	img, err := Rasterize(r, scene, 1)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PDF writes a single A4 page with a title line and the scene image scaled
// to fit the page.
func PDF(w io.Writer, r *render.Renderer, scene state.Scene, title string) error {
	p, err := buildPDF(r, scene, title)
	if err != nil {
		return err
	}
	return p.Output(w)
}

func buildPDF(r *render.Renderer, scene state.Scene, title string) (*gofpdf.Fpdf, error) {
	// Render at twice the on-screen size so the page stays sharp.
	img, err := Rasterize(r, scene, 2)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	orientation := "P"
	if img.Rect.Dx() > img.Rect.Dy() {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetTitle(title, true)
	p.SetCreator("RoomBoard", true)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.SetFont("Helvetica", "B", 14)
	p.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(110, 110, 110)
	p.CellFormat(0, 6, fmt.Sprintf("%d shapes, exported %s", len(scene), time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	p.Ln(2)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("scene", opt, &buf)

	pageW, pageH := p.GetPageSize()
	left, _, right, bottom := p.GetMargins()
	top := p.GetY()
	availW, availH := pageW-left-right, pageH-top-bottom
	iw, ih := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	k := math.Min(availW/iw, availH/ih)
	p.ImageOptions("scene", left, top, iw*k, ih*k, false, opt, 0, "")

	if p.Err() {
		return nil, fmt.Errorf("build pdf: %w", p.Error())
	}
	return p, nil
}
