package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"idcard/internal/adapters/http/perf"
	"idcard/internal/adapters/render"
	"idcard/internal/application/orchestrators"
	auditDomain "idcard/internal/domain/audit"
	"idcard/internal/domain/card"
)

// handleCardPNG handles GET /api/profiles/{id}/card.png?size=large|wallet
func handleCardPNG(w http.ResponseWriter, r *http.Request) {
	handleCardExport(w, r, orchestrators.FormatPNG)
}

// handleCardPDF handles GET /api/profiles/{id}/card.pdf?size=large|wallet
func handleCardPDF(w http.ResponseWriter, r *http.Request) {
	handleCardExport(w, r, orchestrators.FormatPDF)
}

func handleCardExport(w http.ResponseWriter, r *http.Request, format string) {
	if r.Method != "GET" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if cardRenderer == nil {
		respondError(w, http.StatusServiceUnavailable, "card rendering is not available")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "profile id is required")
		return
	}
	size := card.ParseSize(r.URL.Query().Get("size"))

	renderStart := time.Now()
	result, err := orchestrators.ExecuteExportCard(r.Context(), orchestrators.ExportCardInput{
		ProfileID: id,
		Size:      size,
		Format:    format,
	}, orchestrators.ExportCardDeps{
		ProfileStore: stores.ProfileStore,
		Renderer:     cardRenderer,
		Guard:        exportGuard,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrExportInFlight):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, orchestrators.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "profile not found")
		return
	case errors.Is(err, orchestrators.ErrCardNotRenderable):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		internalError(w, err)
		return
	}

	if perfCollector != nil {
		perfCollector.Record(perf.Entry{
			Kind:       perf.KindRender,
			Label:      fmt.Sprintf("%s/%s", size, format),
			DurationMs: float64(time.Since(renderStart).Microseconds()) / 1000.0,
			Timestamp:  renderStart,
		})
	}

	recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryCard, auditDomain.ActionExport).
		WithResource("profile", id).
		WithDescription(fmt.Sprintf("%s %s card", size, format)))

	filename := render.ExportFilename(result.Profile, format)
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(result.Data)))
	w.Write(result.Data)
}
