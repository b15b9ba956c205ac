// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/krishisevak/go-agronomist/internal/services/session"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	Sessions *session.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// Login validates user credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	token, err := h.Sessions.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			writeError(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		log.Printf("Login error: %v", err)
		writeError(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
