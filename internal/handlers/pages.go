package handlers

import (
	"net/http"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/generation"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/models"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/site"
)

type pageData struct {
	SiteName string
	User     *models.SessionUser
	Content  *site.Content

	// landing page
	MaxImageBytes int

	// dashboard
	Welcome bool
	Model   string

	// auth error page
	Message string
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) pageData {
	return pageData{
		SiteName: h.siteName,
		User:     h.currentUser(w, r),
		Content:  h.content,
	}
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, "GET, HEAD")
		return
	}

	data := h.page(w, r)
	data.MaxImageBytes = generation.MaxImageBytes
	h.render(w, "index.html", data)
}

// HandleDashboard shows the account page, sending anonymous visitors home.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, "GET, HEAD")
		return
	}

	data := h.page(w, r)
	if data.User == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	data.Welcome = r.URL.Query().Get("authenticated") == "true"
	data.Model = h.relay.Provider().Model()
	h.render(w, "dashboard.html", data)
}

func (h *Handler) HandleAuthError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, "GET, HEAD")
		return
	}

	message := r.URL.Query().Get("message")
	if message == "" {
		message = "An authentication error occurred"
	}
	h.render(w, "auth_error.html", pageData{SiteName: h.siteName, Message: message})
}

// HandleStatic serves the embedded stylesheet and scripts under /static/.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.StripPrefix("/static/", http.FileServerFS(h.static)).ServeHTTP(w, r)
}
