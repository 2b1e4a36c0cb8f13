package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"idcard/internal/domain/card"
)

// Supersampling factor for raster export. Small print on the wallet card is
// unreadable at 96dpi, so the canvas is rendered at three times the CSS
// pixel density (288dpi effective) before encoding.
const RasterScale = 3

// RenderPNG rasterizes a composed card. The canvas is the template's mm
// dimensions at 96dpi times RasterScale; every op coordinate is converted
// with the same factor so the raster and document outputs line up.
func RenderPNG(c card.ComposedCard, assets *Assets) ([]byte, error) {
	scale := float64(RasterScale)
	w := int(math.Round(c.Template.WidthMm * card.PxPerMm * scale))
	h := int(math.Round(c.Template.HeightMm * card.PxPerMm * scale))

	canvas := imaging.New(w, h, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if bg, ok := assets.Background(c.Template.Background); ok {
		scaled := imaging.Resize(bg, w, h, imaging.Lanczos)
		canvas = imaging.Paste(canvas, scaled, image.Pt(0, 0))
	}

	if c.Photo != nil {
		if err := drawPhoto(canvas, c, scale); err != nil {
			return nil, err
		}
	}

	measurer := NewMeasurer(assets)
	for _, op := range c.Ops {
		if err := drawTextOp(canvas, c, op, measurer, scale); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPhoto cover-crops the photo into its placement rectangle and strokes
// the border on top.
func drawPhoto(canvas *image.NRGBA, c card.ComposedCard, scale float64) error {
	ph := c.Photo
	img, err := DecodePhoto(ph.DataURI)
	if err != nil {
		return err
	}

	wPx := int(math.Round(ph.WidthMm * card.PxPerMm * scale))
	hPx := int(math.Round(ph.HeightMm * card.PxPerMm * scale))
	fitted := imaging.Fill(img, wPx, hPx, imaging.Center, imaging.Lanczos)

	x := int(math.Round(ph.XMm * card.PxPerMm * scale))
	if ph.CenterX {
		x = (canvas.Bounds().Dx() - wPx) / 2
	}
	y := int(math.Round(ph.YMm * card.PxPerMm * scale))
	draw.Draw(canvas, image.Rect(x, y, x+wPx, y+hPx), fitted, image.Point{}, draw.Over)

	if ph.BorderColor != "" {
		border, err := parseHexColor(ph.BorderColor)
		if err != nil {
			return err
		}
		strokeRect(canvas, image.Rect(x, y, x+wPx, y+hPx), border, RasterScale)
	}
	return nil
}

// drawTextOp draws each wrapped line of one op. YMm is the top of the text
// box; the baseline sits one ascent below it.
func drawTextOp(canvas *image.NRGBA, c card.ComposedCard, op card.TextOp, m *Measurer, scale float64) error {
	face, err := m.face(op.FontFamily, op.FontSizePx*scale)
	if err != nil {
		// keep exporting when a font file is missing
		face = basicfont.Face7x13
	}
	ink, err := parseHexColor(op.Color)
	if err != nil {
		return fmt.Errorf("text op %s: %w", op.Field, err)
	}

	ascent := fixedToFloat(face.Metrics().Ascent)
	baseline := op.YMm*card.PxPerMm*scale + ascent
	step := op.LineStepMm * card.PxPerMm * scale

	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(ink), Face: face}
	for i, line := range op.Lines {
		width := fixedToFloat(font.MeasureString(face, line))
		x := op.XMm * card.PxPerMm * scale
		if op.CenterX {
			x = (float64(canvas.Bounds().Dx()) - width) / 2
		} else if op.Align == card.AlignCenter && op.MaxWidthMm > 0 {
			x += (op.MaxWidthMm*card.PxPerMm*scale - width) / 2
		} else if op.Align == card.AlignRight && op.MaxWidthMm > 0 {
			x += op.MaxWidthMm*card.PxPerMm*scale - width
		}
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(math.Round(x * 64)),
			Y: fixed.Int26_6(math.Round((baseline + float64(i)*step) * 64)),
		}
		d.DrawString(line)
	}
	return nil
}

// strokeRect draws a rectangle outline of the given thickness in pixels.
func strokeRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA, thickness int) {
	src := image.NewUniform(c)
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness)
	bottom := image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y)
	right := image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Over)
	}
}
