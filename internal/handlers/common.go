package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/generation"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/session"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Handler struct {
	relay    *generation.Relay
	sessions session.Accessor
	content  *site.Content
	pages    *template.Template
	static   fs.FS

	siteURL       string
	siteName      string
	secureCookies bool
}

// Options carries the deployment settings the handlers need.
type Options struct {
	SiteURL       string
	SiteName      string
	SecureCookies bool
}

func New(relay *generation.Relay, sessions session.Accessor, content *site.Content, opts Options) (*Handler, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Handler{
		relay:         relay,
		sessions:      sessions,
		content:       content,
		pages:         pages,
		static:        static,
		siteURL:       opts.SiteURL,
		siteName:      opts.SiteName,
		secureCookies: opts.SecureCookies,
	}, nil
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorDetails(w, message, "", code)
}

func (h *Handler) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	slog.Error(message, "status", code)
	h.writeJSON(w, code, errorResponse{Error: message, Details: details})
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// Session helpers
func (h *Handler) saveSession(w http.ResponseWriter, sess *session.Session) {
	if sess.Dirty() {
		sess.Write(w, h.secureCookies)
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Unable to render page", "page", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write page", "page", name, "err", err)
	}
}
