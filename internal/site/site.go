package site

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the marketing copy rendered on the landing page
type Content struct {
	Hero      Hero       `yaml:"hero"`
	Generator Generator  `yaml:"generator"`
	Features  []Feature  `yaml:"features"`
	Showcase  []Showcase `yaml:"showcase"`
	Reviews   []Review   `yaml:"reviews"`
	FAQ       []FAQ      `yaml:"faq"`
}

type Hero struct {
	Badge        string `yaml:"badge"`
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	PrimaryCTA   string `yaml:"primary_cta"`
	SecondaryCTA string `yaml:"secondary_cta"`
}

type Generator struct {
	Title             string `yaml:"title"`
	Subtitle          string `yaml:"subtitle"`
	PromptPlaceholder string `yaml:"prompt_placeholder"`
}

type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Showcase items render through the placeholder endpoint
type Showcase struct {
	Title string `yaml:"title"`
	Speed string `yaml:"speed"`
	Query string `yaml:"query"`
}

type Review struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Quote string `yaml:"quote"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return parse(defaultContent)
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site content: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Content, error) {
	var content Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if content.Hero.Title == "" {
		return nil, fmt.Errorf("site content is missing hero.title")
	}
	return &content, nil
}
