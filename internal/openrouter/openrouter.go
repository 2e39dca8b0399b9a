package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "black-forest-labs/flux.2-pro"
)

// OpenRouter is a provider for the OpenRouter chat completions API
type OpenRouter struct {
	apiKey     string
	model      string
	baseURL    string
	siteURL    string
	siteName   string
	httpClient *http.Client
}

// Option configures an OpenRouter provider
type Option func(*OpenRouter)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(o *OpenRouter) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(o *OpenRouter) {
		o.httpClient = client
	}
}

// WithSiteURL sets the HTTP-Referer attribution header
func WithSiteURL(siteURL string) Option {
	return func(o *OpenRouter) {
		o.siteURL = siteURL
	}
}

// WithSiteName sets the X-Title attribution header
func WithSiteName(siteName string) Option {
	return func(o *OpenRouter) {
		o.siteName = siteName
	}
}

// New returns a new OpenRouter provider
func New(apiKey, model string, opts ...Option) *OpenRouter {
	if model == "" {
		model = DefaultModel
	}
	o := &OpenRouter{
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OpenRouter) Name() string {
	return "openrouter"
}

func (o *OpenRouter) Model() string {
	return o.model
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Modalities []string      `json:"modalities,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
			Images  []struct {
				Type     string   `json:"type"`
				ImageURL imageURL `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt to the chat completions endpoint
func (o *OpenRouter) Generate(ctx context.Context, req providers.Request) (*providers.Message, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY: %w", providers.ErrMissingCredential)
	}

	var content any = req.Prompt
	if req.Image != nil {
		content = []contentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: imageReference(req.Image)}},
		}
	}

	requestBody, err := json.Marshal(chatRequest{
		Model:      o.model,
		Messages:   []chatMessage{{Role: "user", Content: content}},
		Modalities: req.Modalities,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.siteURL != "" {
		httpReq.Header.Set("HTTP-Referer", o.siteURL)
	}
	if o.siteName != "" {
		httpReq.Header.Set("X-Title", o.siteName)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	slog.DebugContext(ctx, "OpenRouter response received", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &providers.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w: %v", providers.ErrMalformedResponse, err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message == nil {
		return nil, fmt.Errorf("no message returned from OpenRouter: %w", providers.ErrMalformedResponse)
	}

	message := response.Choices[0].Message
	out := &providers.Message{Content: message.Content}
	for _, img := range message.Images {
		if img.ImageURL.URL != "" {
			out.Images = append(out.Images, img.ImageURL.URL)
		}
	}
	return out, nil
}

func imageReference(img *providers.Image) string {
	if img.URL != "" {
		return img.URL
	}
	return providers.DataURI(img.MIMEType, img.Data)
}
