package web

import (
	"net/http"

	"idcard/internal/adapters/http/middleware"
	accountDomain "idcard/internal/domain/account"
)

// registerRoutes maps URL patterns to handlers. Method checks live inside
// the handlers; path parameters use the stdlib mux wildcards.
func registerRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/change-password", handleChangePassword)

	// Account management (admin)
	mux.HandleFunc("/api/accounts", handleAccounts)
	mux.HandleFunc("/api/accounts/role", handleChangeRole)

	// Profiles
	mux.HandleFunc("/api/profiles", handleProfiles)
	mux.HandleFunc("/api/profiles/filter-options", handleFilterOptions)
	mux.HandleFunc("/api/profiles/{id}", handleProfileByID)

	// Card export
	mux.HandleFunc("/api/profiles/{id}/card.png", handleCardPNG)
	mux.HandleFunc("/api/profiles/{id}/card.pdf", handleCardPDF)

	// Audit trail (admin)
	mux.Handle("/api/audit", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handleAuditTrail)))

	// Operator guide
	mux.HandleFunc("/help", handleHelp)
}
