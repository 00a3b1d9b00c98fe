package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/makerburg/makerburg/internal/auth"
	"github.com/makerburg/makerburg/internal/service"
)

// AuthHandler manages email/password registration, login, and sessions.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, issue a session cookie
//   - HandleLogin    → verify credentials, issue a session cookie
//   - HandleLogout   → clear the session cookie
//   - HandleMe       → return the currently logged-in user's profile
//
// DEPENDENCY CHAIN:
//   - accounts *service.AuthService → registration/login rules
//   - tokens   *auth.TokenService   → issues JWT session tokens
type AuthHandler struct {
	accounts *service.AuthService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(accounts *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// credentialsRequest is the body for both register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is what auth endpoints return about an account.
// Never the password hash - model.User excludes it from JSON too, but an
// explicit response struct keeps the wire shape independent of the model.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// HandleRegister creates a new account and logs it in.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"email": "a@b.com", "password": "secret1"}
//
// The session cookie is issued immediately - registering is also logging
// in, so the client does not need a second round trip.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// HandleLogin verifies credentials and issues a session cookie.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// WHY POST AND NOT GET?
// Logout is a state-changing operation. GET would be vulnerable to CSRF
// and to browsers pre-fetching the URL.
//
// Since sessions are stateless JWTs, "logout" just means deleting the
// client-side cookie. The token remains technically valid until it
// expires, but without the cookie the client can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/auth/me
// Auth: Required (RequireAuth middleware sets userID in context)
//
// The client calls this on startup to resolve whether a previous session
// is still valid.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	user, err := h.accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

// issueSession generates a JWT and sets it as the session cookie.
// Returns false after writing an error response if generation fails.
//
// HttpOnly = JavaScript cannot read this cookie (XSS protection).
// SameSite=Lax = cookie is sent on top-level navigations but not
// cross-site POSTs. Secure should be true in production (HTTPS only).
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) bool {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		h.logger.Error("session token generation failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // Uncomment in production (requires HTTPS)
	})
	return true
}
