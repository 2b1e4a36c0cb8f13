package render

import (
	"idcard/internal/domain/card"
)

// Renderer bundles the loaded assets with the export entry points. One
// instance is shared by all requests.
type Renderer struct {
	assets   *Assets
	measurer *Measurer
}

// NewRenderer builds a renderer over loaded assets.
func NewRenderer(assets *Assets) *Renderer {
	return &Renderer{assets: assets, measurer: NewMeasurer(assets)}
}

// Measurer returns the text measurer used for composition.
func (r *Renderer) Measurer() card.TextMeasurer {
	return r.measurer
}

// RenderPNG rasterizes a composed card.
func (r *Renderer) RenderPNG(c card.ComposedCard) ([]byte, error) {
	return RenderPNG(c, r.assets)
}

// RenderPDF writes a composed card as a document.
func (r *Renderer) RenderPDF(c card.ComposedCard) ([]byte, error) {
	return RenderPDF(c, r.assets)
}
