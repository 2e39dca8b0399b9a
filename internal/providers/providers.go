package providers

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when the
	// provider has no API key configured.
	ErrMissingCredential = errors.New("api credential not configured")
	// ErrMalformedResponse means the upstream answered but the body was not
	// the expected chat-completion envelope.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrUnsupportedImage means the provider cannot send the input image in
	// the form it was given.
	ErrUnsupportedImage = errors.New("unsupported input image")
)

// StatusError is returned when the upstream answers with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-success status code: %d - %s", e.StatusCode, e.Body)
}

// Image is an input image forwarded to the upstream model.
// Either Data (with MIMEType) or URL is set.
type Image struct {
	MIMEType string
	Data     []byte
	URL      string
}

// Request represents a single generation call
type Request struct {
	Prompt     string
	Image      *Image
	Modalities []string
}

// Message is the upstream reply before normalization.
type Message struct {
	Images  []string
	Content string
}

// Provider defines the interface for an image generation backend
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (*Message, error)
}
