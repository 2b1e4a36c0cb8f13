package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"idcard/internal/domain/card"
)

// Measurer measures text with the loaded fonts. Faces are created at DPI 72
// so one face unit equals one CSS pixel, then converted to millimeters.
// Safe for concurrent use; faces are cached per family and size.
//
// INVARIANT: identical (text, family, size) inputs always return the same
// width, including when the family falls back to approximate metrics.
type Measurer struct {
	assets *Assets

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	family string
	sizePx float64
}

// NewMeasurer builds a measurer over the loaded assets.
func NewMeasurer(assets *Assets) *Measurer {
	return &Measurer{assets: assets, faces: map[faceKey]font.Face{}}
}

// WidthMm implements the composer's measuring contract. An unknown family
// measures with fixed approximate metrics instead of failing, so a server
// started without font files still composes and exports cards.
func (m *Measurer) WidthMm(text, fontFamily string, fontSizePx float64) float64 {
	face, err := m.face(fontFamily, fontSizePx)
	if err != nil {
		return approxWidthPx(text, fontSizePx) * card.MmPerPx
	}
	widthPx := fixedToFloat(font.MeasureString(face, text))
	return widthPx * card.MmPerPx
}

// face returns a cached face for the family at the given pixel size.
func (m *Measurer) face(family string, sizePx float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{family: family, sizePx: sizePx}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	parsed, ok := m.assets.Font(family)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, family)
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face: %w", family, err)
	}
	m.faces[key] = f
	return f, nil
}

// approxWidthPx estimates width at roughly half an em per rune, which is
// close enough for wrapping when no font file is available.
func approxWidthPx(text string, sizePx float64) float64 {
	return float64(len([]rune(text))) * sizePx * 0.5
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
