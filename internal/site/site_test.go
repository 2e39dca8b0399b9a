package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	content, err := Default()

	require.NoError(t, err)
	assert.Equal(t, "Nano Banana", content.Hero.Title)
	assert.Len(t, content.Features, 6)
	assert.Len(t, content.Showcase, 4)
	assert.Len(t, content.Reviews, 3)
	assert.NotEmpty(t, content.FAQ)
	for _, item := range content.Showcase {
		assert.NotEmpty(t, item.Query, item.Title)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	custom := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("hero:\n  title: Banana Lab\nfaq:\n  - question: Why?\n    answer: Because.\n"), 0o644))

	content, err := Load(custom)
	require.NoError(t, err)
	assert.Equal(t, "Banana Lab", content.Hero.Title)
	require.Len(t, content.FAQ, 1)
	assert.Equal(t, "Because.", content.FAQ[0].Answer)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read site content")

	untitled := filepath.Join(dir, "untitled.yaml")
	require.NoError(t, os.WriteFile(untitled, []byte("features: []\n"), 0o644))
	_, err = Load(untitled)
	assert.ErrorContains(t, err, "hero.title")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("hero: [unterminated"), 0o644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "failed to parse site content")

	content, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "Nano Banana", content.Hero.Title)
}
