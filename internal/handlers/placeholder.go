package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	defaultPlaceholderSize = 400
	maxPlaceholderSize     = 4096
)

const placeholderSVG = `<svg width="%[1]d" height="%[2]d" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#fbbf24;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:#f59e0b;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="%[1]d" height="%[2]d" fill="url(#grad)"/>
  <text x="50%%" y="50%%" font-size="24" fill="white" text-anchor="middle" dominant-baseline="middle" font-family="Arial">🍌 Nano Banana</text>
</svg>
`

func (h *Handler) HandlePlaceholder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, "GET, HEAD")
		return
	}

	width := placeholderDimension(r.URL.Query().Get("width"))
	height := placeholderDimension(r.URL.Query().Get("height"))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := fmt.Fprintf(w, placeholderSVG, width, height); err != nil {
		slog.Error("Unable to write placeholder", "err", err)
	}
}

// placeholderDimension parses a size, falling back to the default when the
// value is missing or not a number and clamping it to 1..4096.
func placeholderDimension(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultPlaceholderSize
	}
	return max(1, min(n, maxPlaceholderSize))
}
