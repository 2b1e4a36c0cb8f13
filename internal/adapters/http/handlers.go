package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"idcard/internal/adapters/http/middleware"
	accountStore "idcard/internal/adapters/storage/account"
	"idcard/internal/application/orchestrators"
	accountDomain "idcard/internal/domain/account"
	auditDomain "idcard/internal/domain/audit"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondJSON writes a success envelope. The admin frontend unwraps
// {success, data} on every API call.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

// respondError writes an error envelope with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// requireAdmin checks for an authenticated admin session, writing the
// error response itself when the check fails.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return middleware.Session{}, false
	}
	if sess.Role != accountDomain.RoleAdmin {
		respondError(w, http.StatusForbidden, "admin access required")
		return middleware.Session{}, false
	}
	return sess, true
}

// requireSession checks for any authenticated session.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return middleware.Session{}, false
	}
	return sess, true
}

// recordAudit writes an audit event, logging rather than failing the
// request when the write itself fails.
func recordAudit(r *http.Request, event auditDomain.Event) {
	if stores == nil || stores.AuditStore == nil {
		return
	}
	event = event.WithIPAddress(clientIP(r))
	if err := stores.AuditStore.Save(r.Context(), event); err != nil {
		slog.Error("audit_write_failed", "error", err.Error(), "action", string(event.Action))
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		recordAudit(r, auditDomain.NewEvent("", input.Email, "", auditDomain.CategorySecurity, auditDomain.ActionLogin).
			WithSeverity(auditDomain.SeverityWarning).
			WithDescription("failed login attempt"))
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role, result.PasswordChangeRequired)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	recordAudit(r, auditDomain.NewEvent(result.AccountID, result.Email, result.Role, auditDomain.CategoryAccount, auditDomain.ActionLogin))

	respondJSON(w, http.StatusOK, map[string]any{
		"email":                    result.Email,
		"role":                     result.Role,
		"password_change_required": result.PasswordChangeRequired,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cookie, err := r.Cookie("idcard_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)

	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryAccount, auditDomain.ActionLogout))
	}
	respondJSON(w, http.StatusOK, nil)
}

// handleSession handles GET /api/session — the frontend's "who am I" check.
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"email":                    sess.Email,
		"role":                     sess.Role,
		"password_change_required": sess.PasswordChangeRequired,
	})
}

// handleChangePassword handles POST /api/change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := strictDecode(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, orchestrators.ChangePasswordDeps{
		AccountStore: stores.AccountStore,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrAccountNotFound):
		// Session outlived the account; treat as unauthenticated.
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	default:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Clear the forced-change flag on the live session
	if cookie, cerr := r.Cookie("idcard_session"); cerr == nil {
		sess.PasswordChangeRequired = false
		sessions.Update(cookie.Value, sess)
	}

	recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryAccount, auditDomain.ActionUpdate).
		WithDescription("password changed"))
	respondJSON(w, http.StatusOK, nil)
}

// handleAccounts handles GET (list) and POST (create) for /api/accounts
func handleAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		filter := accountStore.ListFilter{Limit: 1000}
		if role := r.URL.Query().Get("role"); role != "" {
			filter.Role = role
		}
		accounts, err := stores.AccountStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		// Strip password hashes from the response
		type safeAccount struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		safe := make([]safeAccount, 0, len(accounts))
		for _, a := range accounts {
			safe = append(safe, safeAccount{ID: a.ID, Email: a.Email, Role: a.Role})
		}
		respondJSON(w, http.StatusOK, safe)
		return
	}

	if r.Method == "POST" {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := strictDecode(r, &input); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		id, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Email:                  input.Email,
			Password:               input.Password,
			Role:                   input.Role,
			PasswordChangeRequired: true,
			SendInvite:             emailSender != nil,
		}, orchestrators.CreateAccountDeps{
			AccountStore:  stores.AccountStore,
			EmailSender:   emailSender,
			InviteFrom:    emailFromAddress,
			InviteReplyTo: emailReplyTo,
		})
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", input.Role)
		recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryAccount, auditDomain.ActionCreate).
			WithResource("account", id))
		respondJSON(w, http.StatusCreated, map[string]string{
			"id":    id,
			"email": input.Email,
			"role":  input.Role,
		})
		return
	}

	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handleChangeRole handles POST /api/accounts/role
func handleChangeRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var input struct {
		AccountID string `json:"account_id"`
		NewRole   string `json:"new_role"`
	}
	if err := strictDecode(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.AccountID == "" || input.NewRole == "" {
		respondError(w, http.StatusBadRequest, "account_id and new_role are required")
		return
	}
	acct, err := stores.AccountStore.GetByID(r.Context(), input.AccountID)
	if err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	acct.Role = input.NewRole
	if err := acct.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := stores.AccountStore.Save(r.Context(), acct); err != nil {
		internalError(w, err)
		return
	}
	recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryAccount, auditDomain.ActionUpdate).
		WithResource("account", acct.ID).
		WithDescription("role changed to "+acct.Role))
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    acct.ID,
		"email": acct.Email,
		"role":  acct.Role,
	})
}

const helpDir = "static"

// helpTemplate wraps the rendered guide in a minimal page. The stylesheet
// rules the CSP already allows.
var helpTemplate = template.Must(template.New("help").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Operator Guide</title>
<style>body{max-width:48rem;margin:2rem auto;font-family:sans-serif;line-height:1.5;padding:0 1rem}</style>
</head>
<body>{{.Content}}</body>
</html>`))

// handleHelp handles GET /help — the operator guide, rendered from markdown.
func handleHelp(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	md, err := os.ReadFile(filepath.Join(helpDir, "help.md"))
	if err != nil {
		http.Error(w, "guide not available", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	helpTemplate.Execute(w, map[string]any{"Content": template.HTML(buf.String())})
}
