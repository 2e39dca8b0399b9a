package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
)

const (
	// MaxPromptLength is counted in runes.
	MaxPromptLength = 4000
	// MaxImageBytes bounds the decoded upload, matching the browser-side check.
	MaxImageBytes = 10 << 20

	DefaultTimeout = 120 * time.Second
)

// Options tune a Relay.
type Options struct {
	// Timeout bounds the single upstream call. Zero means DefaultTimeout.
	Timeout time.Duration
	// ForwardImage sends the uploaded image alongside the prompt.
	ForwardImage bool
}

// Relay validates a generation request, forwards it to the configured
// provider and normalizes the reply into a Result.
type Relay struct {
	provider providers.Provider
	opts     Options
}

func New(provider providers.Provider, opts Options) *Relay {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Relay{provider: provider, opts: opts}
}

// Provider returns the upstream the relay talks to.
func (r *Relay) Provider() providers.Provider {
	return r.provider
}

// Generate returns a Result or a *Error. No network call is made unless
// both inputs pass validation.
func (r *Relay) Generate(ctx context.Context, imageData, prompt string) (Result, error) {
	if imageData == "" || prompt == "" {
		return Result{}, invalidInput("missing image or prompt")
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return Result{}, invalidInput(fmt.Sprintf("prompt exceeds %d characters", MaxPromptLength))
	}
	img, err := parseImage(imageData)
	if err != nil {
		return Result{}, err
	}

	req := providers.Request{
		Prompt:     prompt,
		Modalities: []string{"image", "text"},
	}
	if r.opts.ForwardImage {
		req.Image = img
	} else {
		slog.WarnContext(ctx, "Uploaded image not forwarded upstream, sending prompt only", "provider", r.provider.Name())
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	slog.InfoContext(ctx, "Calling generation API", "provider", r.provider.Name(), "model", r.provider.Model(), "prompt_length", utf8.RuneCountInString(prompt))
	start := time.Now()
	msg, err := r.provider.Generate(ctx, req)
	if err != nil {
		genErr := classify(err)
		slog.ErrorContext(ctx, "Generation failed",
			"kind", genErr.Kind.String(),
			"status", genErr.StatusCode,
			"body", genErr.Body,
			"err", err,
			"elapsed", time.Since(start))
		return Result{}, genErr
	}

	result, genErr := normalize(msg)
	if genErr != nil {
		slog.ErrorContext(ctx, "Message had neither image nor text content", "provider", r.provider.Name())
		return Result{}, genErr
	}

	slog.InfoContext(ctx, "Generation succeeded",
		"kind", result.Kind.String(),
		"length", len(result.Payload),
		"images", len(msg.Images),
		"elapsed", time.Since(start))
	return result, nil
}

// normalize keeps the first image, else the full text.
func normalize(msg *providers.Message) (Result, *Error) {
	if msg == nil {
		return Result{}, &Error{Kind: KindUpstreamProtocol, Message: "API returned no content"}
	}
	if len(msg.Images) > 0 && msg.Images[0] != "" {
		return ImageResult(msg.Images[0]), nil
	}
	if msg.Content != "" {
		return TextResult(msg.Content), nil
	}
	return Result{}, &Error{Kind: KindUpstreamEmpty, Message: "API returned neither image nor text content"}
}

func classify(err error) *Error {
	var statusErr *providers.StatusError
	var netErr net.Error
	switch {
	case errors.Is(err, providers.ErrMissingCredential):
		return &Error{Kind: KindConfiguration, Message: "API key is not configured", Err: err}
	case errors.Is(err, providers.ErrUnsupportedImage):
		return &Error{Kind: KindInvalidInput, Message: "image URLs are not supported by the configured provider", Err: err}
	case errors.As(err, &statusErr):
		return &Error{
			Kind:       KindUpstream,
			Message:    fmt.Sprintf("API returned error: %d", statusErr.StatusCode),
			StatusCode: statusErr.StatusCode,
			Body:       statusErr.Body,
			Err:        err,
		}
	case errors.Is(err, providers.ErrMalformedResponse):
		return &Error{Kind: KindUpstreamProtocol, Message: "API returned no content", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindUpstreamTimeout, Message: "API request timed out", Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: "API request failed", Err: err}
	}
}

// parseImage accepts base64 image data URIs and http(s) URLs.
func parseImage(imageData string) (*providers.Image, error) {
	switch {
	case strings.HasPrefix(imageData, "data:"):
		if providers.DecodedLen(imageData) > MaxImageBytes {
			return nil, invalidInput("image exceeds 10MB")
		}
		img, err := providers.ParseDataURI(imageData)
		if err != nil {
			return nil, &Error{Kind: KindInvalidInput, Message: "image is not a valid data URI", Err: err}
		}
		if len(img.Data) > MaxImageBytes {
			return nil, invalidInput("image exceeds 10MB")
		}
		if !strings.HasPrefix(img.MIMEType, "image/") {
			return nil, invalidInput("uploaded file is not an image")
		}
		logImageDimensions(img)
		return img, nil
	case strings.HasPrefix(imageData, "https://"), strings.HasPrefix(imageData, "http://"):
		return &providers.Image{URL: imageData}, nil
	default:
		return nil, invalidInput("image must be a data URI or an http(s) URL")
	}
}
