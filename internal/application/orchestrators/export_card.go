package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"idcard/internal/domain/card"
	"idcard/internal/domain/profile"
)

// ProfileStoreForExport defines the store interface needed by ExportCard.
type ProfileStoreForExport interface {
	GetByID(ctx context.Context, id string) (profile.Record, error)
}

// CardRenderer turns a composed card into output bytes.
type CardRenderer interface {
	Measurer() card.TextMeasurer
	RenderPNG(c card.ComposedCard) ([]byte, error)
	RenderPDF(c card.ComposedCard) ([]byte, error)
}

// ExportGuard rejects a second export for a profile while one is running.
// Rendering a supersampled card is expensive; double-clicking the download
// button must not double the work.
type ExportGuard struct {
	mu       sync.Mutex
	inflight map[string]bool
}

// NewExportGuard creates an empty guard.
func NewExportGuard() *ExportGuard {
	return &ExportGuard{inflight: make(map[string]bool)}
}

func (g *ExportGuard) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[key] {
		return false
	}
	g.inflight[key] = true
	return true
}

func (g *ExportGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, key)
}

// Export formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

var (
	ErrExportInFlight    = errors.New("an export for this profile is already in progress")
	ErrUnknownFormat     = errors.New("export format must be png or pdf")
	ErrCardNotRenderable = errors.New("profile cannot be rendered to a card")
)

// ExportCardInput carries input for the export orchestrator.
type ExportCardInput struct {
	ProfileID string
	Size      card.Size
	Format    string
}

// ExportCardResult carries the rendered card and its source profile.
type ExportCardResult struct {
	Data        []byte
	ContentType string
	Profile     profile.Record
}

// ExportCardDeps holds dependencies for ExportCard.
type ExportCardDeps struct {
	ProfileStore ProfileStoreForExport
	Renderer     CardRenderer
	Guard        *ExportGuard
}

// ExecuteExportCard composes and renders a profile's card.
// PRE: ProfileID refers to an existing profile with a photo and issue date
// POST: Returns the rendered bytes; concurrent exports of the same profile are rejected
// INVARIANT: At most one export per profile runs at a time
func ExecuteExportCard(ctx context.Context, input ExportCardInput, deps ExportCardDeps) (ExportCardResult, error) {
	if input.Format != FormatPNG && input.Format != FormatPDF {
		return ExportCardResult{}, ErrUnknownFormat
	}

	if deps.Guard != nil {
		if !deps.Guard.tryAcquire(input.ProfileID) {
			return ExportCardResult{}, ErrExportInFlight
		}
		defer deps.Guard.release(input.ProfileID)
	}

	p, err := deps.ProfileStore.GetByID(ctx, input.ProfileID)
	if err != nil {
		return ExportCardResult{}, ErrProfileNotFound
	}

	if err := p.CanGenerateCard(); err != nil {
		return ExportCardResult{}, errors.Join(ErrCardNotRenderable, err)
	}

	tpl := card.Resolve(input.Size, p.Level)
	if tpl.Level != p.Level && input.Size == card.SizeLarge {
		slog.Warn("card_level_fallback", "profile_id", p.ID, "level", p.Level, "used", tpl.Level)
	}

	composed := card.Compose(p, tpl, deps.Renderer.Measurer())

	var data []byte
	var contentType string
	switch input.Format {
	case FormatPNG:
		data, err = deps.Renderer.RenderPNG(composed)
		contentType = "image/png"
	case FormatPDF:
		data, err = deps.Renderer.RenderPDF(composed)
		contentType = "application/pdf"
	}
	if err != nil {
		return ExportCardResult{}, err
	}

	slog.Info("card_exported", "profile_id", p.ID, "size", string(input.Size), "format", input.Format, "bytes", len(data))
	return ExportCardResult{Data: data, ContentType: contentType, Profile: p}, nil
}
