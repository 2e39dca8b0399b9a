package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/gemini"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/generation"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"

	DefaultSiteURL  = "http://localhost:8888"
	DefaultSiteName = "Nano Banana"
)

// Config is read from the environment once at startup.
type Config struct {
	Provider string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	GeminiAPIKey string
	GeminiModel  string

	GenerationTimeout time.Duration
	ForwardImage      bool

	SiteURL  string
	SiteName string

	SupabaseURL     string
	SupabaseAnonKey string

	CookieSecure bool
}

// Load reads the configuration. A missing upstream credential is not an
// error here; it is reported when a generation is attempted.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:          strings.ToLower(getenv("GENERATION_PROVIDER", ProviderOpenRouter)),
		OpenRouterAPIKey:  getenv("OPENROUTER_API_KEY", os.Getenv("NEXT_PUBLIC_OPENROUTER_API_KEY")),
		OpenRouterBaseURL: getenv("OPENROUTER_BASE_URL", openrouter.DefaultBaseURL),
		OpenRouterModel:   getenv("OPENROUTER_MODEL", openrouter.DefaultModel),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", gemini.DefaultModel),
		SiteURL:           strings.TrimRight(getenv("SITE_URL", getenv("NEXT_PUBLIC_SITE_URL", DefaultSiteURL)), "/"),
		SiteName:          getenv("SITE_NAME", getenv("NEXT_PUBLIC_SITE_NAME", DefaultSiteName)),
		SupabaseURL:       getenv("SUPABASE_URL", os.Getenv("NEXT_PUBLIC_SUPABASE_URL")),
		SupabaseAnonKey:   getenv("SUPABASE_ANON_KEY", os.Getenv("NEXT_PUBLIC_SUPABASE_ANON_KEY")),
	}

	switch cfg.Provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported GENERATION_PROVIDER %q (want %s or %s)", cfg.Provider, ProviderOpenRouter, ProviderGemini)
	}

	var err error
	if cfg.GenerationTimeout, err = durationEnv("GENERATION_TIMEOUT", generation.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT must be positive, got %s", cfg.GenerationTimeout)
	}
	if cfg.ForwardImage, err = boolEnv("FORWARD_IMAGE", false); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE", strings.HasPrefix(cfg.SiteURL, "https://")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}

// LogWarnings reports settings that will make requests fail later.
func (c *Config) LogWarnings() {
	if c.APIKey() == "" {
		slog.Warn("Generation API key not set; /api/generate will return a configuration error", "provider", c.Provider)
	}
	if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
		slog.Warn("SUPABASE_URL or SUPABASE_ANON_KEY not set; sign-in is disabled")
	}
	if c.ForwardImage {
		slog.Info("Uploaded images will be forwarded to the generation model")
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
