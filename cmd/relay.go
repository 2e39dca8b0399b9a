package cmd

import (
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/config"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/gemini"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/generation"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/openrouter"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
)

// newRelay wires the configured provider into a generation relay.
func newRelay(cfg *config.Config) *generation.Relay {
	var provider providers.Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		provider = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, nil)
	default:
		provider = openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel,
			openrouter.WithBaseURL(cfg.OpenRouterBaseURL),
			openrouter.WithSiteURL(cfg.SiteURL),
			openrouter.WithSiteName(cfg.SiteName),
		)
	}

	return generation.New(provider, generation.Options{
		Timeout:      cfg.GenerationTimeout,
		ForwardImage: cfg.ForwardImage,
	})
}
