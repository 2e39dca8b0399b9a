package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/models"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/session"
)

const defaultOAuthProvider = "github"

type userResponse struct {
	User *models.SessionUser `json:"user"`
}

// HandleLoginStart begins the OAuth flow and returns the URL the browser
// should navigate to.
func (h *Handler) HandleLoginStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	var request struct {
		Provider string `json:"provider"`
	}
	// empty body means the default provider
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Provider == "" {
		request.Provider = defaultOAuthProvider
	}

	sess := session.FromRequest(r)
	authURL, err := h.sessions.BeginOAuth(r.Context(), sess, request.Provider, h.siteURL+"/auth/callback")
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if authURL == "" {
		h.writeError(w, "No OAuth URL generated", http.StatusBadRequest)
		return
	}

	h.saveSession(w, sess)
	h.writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
}

// HandleCallback completes the OAuth flow. Every outcome is a redirect.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectAuthError(w, r, "No code provided")
		return
	}

	sess := session.FromRequest(r)
	user, err := h.sessions.CompleteOAuth(r.Context(), sess, code)
	h.saveSession(w, sess)
	if err != nil {
		message := "Unknown error"
		var exErr *session.ExchangeError
		if errors.As(err, &exErr) {
			message = exErr.Message
		}
		slog.Error("OAuth code exchange failed", "err", err, "state", r.URL.Query().Get("state"))
		h.redirectAuthError(w, r, message)
		return
	}

	slog.Info("User signed in", "user_id", user.ID, "provider", user.AuthProvider)
	http.Redirect(w, r, "/dashboard?authenticated=true", http.StatusFound)
}

func (h *Handler) redirectAuthError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/auth/error?message="+url.QueryEscape(message), http.StatusFound)
}

// HandleMe reports the signed-in user. A missing or broken session is
// {"user": null}, never an error status.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	user := h.currentUser(w, r)
	h.writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	sess := session.FromRequest(r)
	if err := h.sessions.SignOut(r.Context(), sess); err != nil {
		slog.Warn("Sign out upstream failed", "err", err)
	}
	h.saveSession(w, sess)
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// currentUser resolves the session user and persists any refreshed tokens.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) *models.SessionUser {
	sess := session.FromRequest(r)
	user, err := h.sessions.CurrentUser(r.Context(), sess)
	h.saveSession(w, sess)
	if err != nil {
		slog.Warn("Unable to resolve session user", "err", err)
		return nil
	}
	return user
}
