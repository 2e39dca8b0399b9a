package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/generation"
)

// maxGenerateBody bounds the JSON body; a 10 MiB image grows by a third
// once base64 encoded.
const maxGenerateBody = 16 << 20

type generateRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// imageUrl carries the payload for both kinds; text repeats it for text results.
type generateResponse struct {
	Success  bool   `json:"success"`
	Kind     string `json:"kind"`
	ImageURL string `json:"imageUrl"`
	Text     string `json:"text,omitempty"`
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBody)
	var request generateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeErrorDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.relay.Generate(r.Context(), request.ImageURL, request.Prompt)
	if err != nil {
		var genErr *generation.Error
		if !errors.As(err, &genErr) {
			h.writeErrorDetails(w, "Failed to generate image", err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Error("Generation failed", "kind", genErr.Kind, "upstream_status", genErr.StatusCode, "err", genErr.Err)
		h.writeErrorDetails(w, genErr.Message, genErr.Body, genErr.HTTPStatus())
		return
	}

	response := generateResponse{Success: true, Kind: result.Kind.String(), ImageURL: result.Payload}
	if text, ok := result.Text(); ok {
		response.Text = text
	}
	h.writeJSON(w, http.StatusOK, response)
}
