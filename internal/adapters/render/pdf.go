package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"idcard/internal/domain/card"
)

// RenderPDF draws a composed card into a single-page document sized exactly
// to the template's millimeter dimensions. It consumes the same ops as
// RenderPNG: text is placed at the composed coordinates, never re-wrapped.
func RenderPDF(c card.ComposedCard, assets *Assets) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: c.Template.WidthMm, Ht: c.Template.HeightMm},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	registered := map[string]bool{}
	for _, family := range opFamilies(c) {
		if path, ok := assets.FontPath(family); ok {
			pdf.AddUTF8Font(family, "", path)
			registered[family] = true
		}
	}
	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	if raw, format, ok := assets.BackgroundBytes(c.Template.Background); ok {
		opts := fpdf.ImageOptions{ImageType: format}
		pdf.RegisterImageOptionsReader("background", opts, bytes.NewReader(raw))
		pdf.ImageOptions("background", 0, 0, c.Template.WidthMm, c.Template.HeightMm, false, opts, 0, "")
	}

	if c.Photo != nil {
		if err := placePhoto(pdf, c); err != nil {
			return nil, err
		}
	}

	for _, op := range c.Ops {
		placeTextOp(pdf, c, op, registered, translator)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// placePhoto cover-crops the photo to the placement rectangle, embeds it as
// JPEG and strokes the border.
func placePhoto(pdf *fpdf.Fpdf, c card.ComposedCard) error {
	ph := c.Photo
	img, err := DecodePhoto(ph.DataURI)
	if err != nil {
		return err
	}

	wPx := int(math.Round(ph.WidthMm * card.PxPerMm * RasterScale))
	hPx := int(math.Round(ph.HeightMm * card.PxPerMm * RasterScale))
	fitted := imaging.Fill(img, wPx, hPx, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return fmt.Errorf("encode photo: %w", err)
	}

	x := ph.XMm
	if ph.CenterX {
		x = (c.Template.WidthMm - ph.WidthMm) / 2
	}
	opts := fpdf.ImageOptions{ImageType: "jpg"}
	pdf.RegisterImageOptionsReader("photo", opts, &buf)
	pdf.ImageOptions("photo", x, ph.YMm, ph.WidthMm, ph.HeightMm, false, opts, 0, "")

	if ph.BorderColor != "" {
		border, err := parseHexColor(ph.BorderColor)
		if err != nil {
			return err
		}
		pdf.SetDrawColor(int(border.R), int(border.G), int(border.B))
		pdf.SetLineWidth(RasterScale * card.MmPerPx)
		pdf.Rect(x, ph.YMm, ph.WidthMm, ph.HeightMm, "D")
	}
	return nil
}

// placeTextOp writes each wrapped line at its composed position. Families
// without a loaded file fall back to the built-in Helvetica, with text
// passed through the codepage translator.
func placeTextOp(pdf *fpdf.Fpdf, c card.ComposedCard, op card.TextOp, registered map[string]bool, translator func(string) string) {
	family := op.FontFamily
	utf8Font := registered[family]
	if !utf8Font {
		family = "Helvetica"
	}
	pdf.SetFont(family, "", op.FontSizePx*72.0/96.0)

	ink, err := parseHexColor(op.Color)
	if err != nil {
		ink.R, ink.G, ink.B = 0, 0, 0
	}
	pdf.SetTextColor(int(ink.R), int(ink.G), int(ink.B))

	ascentMm := op.FontSizePx * card.MmPerPx * 0.8
	for i, line := range op.Lines {
		text := line
		if !utf8Font {
			text = translator(line)
		}
		width := pdf.GetStringWidth(text)
		x := op.XMm
		if op.CenterX {
			x = (c.Template.WidthMm - width) / 2
		} else if op.Align == card.AlignCenter && op.MaxWidthMm > 0 {
			x += (op.MaxWidthMm - width) / 2
		} else if op.Align == card.AlignRight && op.MaxWidthMm > 0 {
			x += op.MaxWidthMm - width
		}
		pdf.Text(x, op.YMm+ascentMm+float64(i)*op.LineStepMm, text)
	}
}

// opFamilies collects the distinct font families a composed card uses.
func opFamilies(c card.ComposedCard) []string {
	seen := map[string]bool{}
	var families []string
	for _, op := range c.Ops {
		if !seen[op.FontFamily] {
			seen[op.FontFamily] = true
			families = append(families, op.FontFamily)
		}
	}
	return families
}
