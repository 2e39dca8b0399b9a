package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image"

// Gemini is a provider for Google Gemini image models
type Gemini struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// New returns a new Gemini provider. httpClient may be nil.
func New(apiKey, model string, httpClient *http.Client) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model, httpClient: httpClient}
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Model() string {
	return g.model
}

// Generate calls GenerateContent with text and image response modalities
func (g *Gemini) Generate(ctx context.Context, req providers.Request) (*providers.Message, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY: %w", providers.ErrMissingCredential)
	}

	if req.Image != nil && len(req.Image.Data) == 0 {
		return nil, fmt.Errorf("URL images are not supported by gemini: %w", providers.ErrUnsupportedImage)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     g.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}

	resp, err := client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: responseModalities(req.Modalities)},
	)
	if err != nil {
		return nil, translateError(err)
	}

	return messageFromResponse(resp)
}

func responseModalities(modalities []string) []string {
	out := make([]string, 0, len(modalities))
	for _, m := range modalities {
		out = append(out, strings.ToUpper(m))
	}
	return out
}

func translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &providers.StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &providers.StatusError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}

// messageFromResponse reads the first candidate. Inline images become data
// URIs; text parts are joined.
func messageFromResponse(resp *genai.GenerateContentResponse) (*providers.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini: %w", providers.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		switch candidate.FinishReason {
		case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		default:
			return nil, fmt.Errorf("generation stopped (FinishReason: %s): %w", candidate.FinishReason, providers.ErrMalformedResponse)
		}
		return &providers.Message{}, nil
	}

	msg := &providers.Message{}
	var texts []string
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			msg.Images = append(msg.Images, providers.DataURI(part.InlineData.MIMEType, part.InlineData.Data))
			continue
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	msg.Content = strings.Join(texts, "\n")
	return msg, nil
}
