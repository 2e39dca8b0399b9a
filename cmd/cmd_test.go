package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func fakeOpenRouter(t *testing.T, response string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("GENERATION_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_BASE_URL", srv.URL)
	t.Setenv("GENERATION_TIMEOUT", "")
	t.Setenv("FORWARD_IMAGE", "")
	t.Setenv("COOKIE_SECURE", "")
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pngBase64)
	require.NoError(t, err)
	path := filepath.Join(dir, "input.png")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommandWritesInlineImage(t *testing.T) {
	fakeOpenRouter(t, `{"choices":[{"message":{"content":"","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,`+pngBase64+`"}}]}}]}`)
	dir := t.TempDir()
	output := filepath.Join(dir, "result.png")

	_, err := runRoot(t, "generate", "--image", writePNG(t, dir), "--prompt", "make it snow", "--output", output)

	require.NoError(t, err)
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	want, _ := base64.StdEncoding.DecodeString(pngBase64)
	assert.Equal(t, want, written)
}

func TestGenerateCommandPrintsText(t *testing.T) {
	fakeOpenRouter(t, `{"choices":[{"message":{"content":"I can only describe this image."}}]}`)

	out, err := runRoot(t, "generate", "--image", writePNG(t, t.TempDir()), "--prompt", "describe it")

	require.NoError(t, err)
	assert.Equal(t, "I can only describe this image.\n", out)
}

func TestGenerateCommandReportsUpstreamFailure(t *testing.T) {
	fakeOpenRouter(t, `{"choices":[]}`)

	_, err := runRoot(t, "generate", "--image", writePNG(t, t.TempDir()), "--prompt", "make it snow")

	assert.ErrorContains(t, err, "API returned no content")
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	uri, err := loadImage(writePNG(t, dir))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	uri, err = loadImage("https://example.com/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.png", uri)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = loadImage(empty)
	assert.Error(t, err)

	_, err = loadImage(filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "failed to read image")
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".bin", extensionFor("application/x-unknown-banana"))
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug", "json"))
	assert.NoError(t, setupLogging("WARN", "TEXT"))
	assert.ErrorContains(t, setupLogging("loud", "text"), "--log-level")
	assert.ErrorContains(t, setupLogging("info", "xml"), "--log-format")
	assert.NoError(t, setupLogging("info", "text"))
}
