package card

import (
	"strings"

	"idcard/internal/domain/profile"
)

// TextMeasurer reports rendered text widths so the composer can wrap lines.
// Implementations must be deterministic: the same text, family and size must
// always measure the same width, because the exporters rasterize exact
// positions from the wrapped lines.
type TextMeasurer interface {
	WidthMm(text, fontFamily string, fontSizePx float64) float64
}

// TextOp is one positioned text block of a composed card, with line wrapping
// already resolved.
type TextOp struct {
	Field      string
	Lines      []string
	XMm        float64
	YMm        float64
	CenterX    bool
	FontFamily string
	FontSizePx float64
	Color      string
	Align      Align
	MaxWidthMm float64
	LineStepMm float64 // vertical advance between wrapped lines
}

// PhotoOp is the photo rectangle of a composed card. Cover semantics: the
// photo is center-cropped to fill the rectangle, never stretched.
type PhotoOp struct {
	DataURI     string
	XMm         float64
	YMm         float64
	WidthMm     float64
	HeightMm    float64
	CenterX     bool
	BorderColor string
}

// ComposedCard is the fully laid-out, export-ready representation of a
// profile on a template. Both exporters consume the same ops, so the two
// outputs share every coordinate.
type ComposedCard struct {
	Template CardTemplate
	Level    string // level key the registry actually resolved
	Ops      []TextOp
	Photo    *PhotoOp // nil when the profile has no photo
}

// Compose lays a profile out on a template. Pure: it reads nothing but its
// arguments, never mutates the profile, and identical inputs produce
// identical output, including line breaks.
// POST: a profile without a photo still composes (photo region stays empty)
func Compose(p profile.Record, tpl CardTemplate, m TextMeasurer) ComposedCard {
	c := ComposedCard{Template: tpl, Level: tpl.Level}

	for _, fp := range tpl.Fields {
		value := bindField(p, fp.Field)
		if value == "" && fp.Field != "" {
			continue
		}
		text := fp.Label + value
		if text == "" {
			continue
		}
		op := TextOp{
			Field:      fp.Field,
			XMm:        fp.XMm,
			YMm:        fp.YMm,
			CenterX:    fp.CenterX,
			FontFamily: fp.FontFamily,
			FontSizePx: fp.FontSizePx,
			Color:      fp.Color,
			Align:      fp.Align,
			MaxWidthMm: fp.MaxWidthMm,
		}
		lineHeight := fp.LineHeight
		if lineHeight == 0 {
			lineHeight = 1.0
		}
		op.LineStepMm = fp.FontSizePx * MmPerPx * lineHeight
		op.Lines = wrapText(text, fp, m)
		c.Ops = append(c.Ops, op)
	}

	if p.Photo != "" {
		c.Photo = &PhotoOp{
			DataURI:     p.Photo,
			XMm:         tpl.Photo.XMm,
			YMm:         tpl.Photo.YMm,
			WidthMm:     tpl.Photo.WidthMm,
			HeightMm:    tpl.Photo.HeightMm,
			CenterX:     tpl.Photo.CenterX,
			BorderColor: tpl.Photo.BorderColor,
		}
	}

	return c
}

// bindField maps a placement field key to its display value. Missing values
// bind to the empty string, never to a "null"-style placeholder.
func bindField(p profile.Record, field string) string {
	switch field {
	case FieldName:
		return CapitalizeName(p.Name)
	case FieldDesignation:
		return p.Designation
	case FieldDeanery:
		return p.Deanery
	case FieldParish:
		return p.Parish
	case FieldDateOfBaptism:
		return FormatDMY(p.DateOfBaptism)
	case FieldDateOfBirth:
		return FormatDMY(p.DateOfBirth)
	case FieldPhone:
		return p.Phone
	case FieldFatherName:
		return p.FatherName
	case FieldMotherName:
		return p.MotherName
	case FieldPostalAddress:
		return p.PostalAddress
	case FieldFooter:
		if p.IssueDate.IsZero() {
			return ""
		}
		w := ComputeValidityAt(p.IssueDate, p.IssueDate) // footer shows only the two dates
		return "Issued: " + FormatDMY(w.IssueDate) + " • Valid till: " + FormatDMY(w.ExpiryDate)
	default:
		return ""
	}
}

// wrapText breaks text into lines. Explicit newlines are honored first; each
// paragraph is then greedily word-wrapped against MaxWidthMm using the
// measurer. Without a width limit or measurer the text stays on one line per
// paragraph. A single word wider than the limit gets its own line; words are
// never split.
func wrapText(text string, fp FieldPlacement, m TextMeasurer) []string {
	paragraphs := strings.Split(text, "\n")
	if fp.MaxWidthMm <= 0 || m == nil {
		return paragraphs
	}

	var lines []string
	for _, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if m.WidthMm(candidate, fp.FontFamily, fp.FontSizePx) <= fp.MaxWidthMm {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}
