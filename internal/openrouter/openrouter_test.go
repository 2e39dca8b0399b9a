package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, inspect func(r *http.Request, payload map[string]any)) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload map[string]any
		assert.NoError(t, json.Unmarshal(raw, &payload))
		if inspect != nil {
			inspect(r, payload)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGenerateSendsChatCompletion(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}},{"type":"image_url","image_url":{"url":"data:image/png;base64,BBBB"}}]}}]}`,
		func(r *http.Request, payload map[string]any) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "https://banana.example", r.Header.Get("HTTP-Referer"))
			assert.Equal(t, "Nano Banana", r.Header.Get("X-Title"))

			assert.Equal(t, DefaultModel, payload["model"])
			assert.Equal(t, []any{"image", "text"}, payload["modalities"])
			messages := payload["messages"].([]any)
			if !assert.Len(t, messages, 1) {
				return
			}
			msg := messages[0].(map[string]any)
			assert.Equal(t, "user", msg["role"])
			assert.Equal(t, "a banana on the moon", msg["content"])
		})

	client := New("sk-test", "", WithBaseURL(srv.URL+"/"), WithSiteURL("https://banana.example"), WithSiteName("Nano Banana"))
	msg, err := client.Generate(context.Background(), providers.Request{
		Prompt:     "a banana on the moon",
		Modalities: []string{"image", "text"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"}, msg.Images)
}

func TestGenerateForwardsImageAsContentParts(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`,
		func(r *http.Request, payload map[string]any) {
			msg := payload["messages"].([]any)[0].(map[string]any)
			parts := msg["content"].([]any)
			if !assert.Len(t, parts, 2) {
				return
			}
			assert.Equal(t, map[string]any{"type": "text", "text": "make it yellow"}, parts[0])
			assert.Equal(t, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": "data:image/png;base64,aGk="},
			}, parts[1])
		})

	client := New("sk-test", "some/model", WithBaseURL(srv.URL))
	msg, err := client.Generate(context.Background(), providers.Request{
		Prompt: "make it yellow",
		Image:  &providers.Image{MIMEType: "image/png", Data: []byte("hi")},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
	assert.Empty(t, msg.Images)
}

func TestGenerateMissingKeyMakesNoRequest(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`, nil)

	_, err := New("", "", WithBaseURL(srv.URL)).Generate(context.Background(), providers.Request{Prompt: "x"})

	assert.ErrorIs(t, err, providers.ErrMissingCredential)
	assert.Zero(t, *calls)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantIs   error
		wantCode int
		wantBody string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, wantCode: 429, wantBody: `{"error":"slow down"}`},
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantCode: 502, wantBody: "upstream down"},
		{name: "not json", status: http.StatusOK, body: "<html>", wantIs: providers.ErrMalformedResponse},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantIs: providers.ErrMalformedResponse},
		{name: "no message", status: http.StatusOK, body: `{"choices":[{"finish_reason":"stop"}]}`, wantIs: providers.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body, nil)

			_, err := New("sk-test", "", WithBaseURL(srv.URL)).Generate(context.Background(), providers.Request{Prompt: "x"})

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
				return
			}
			var statusErr *providers.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.wantCode, statusErr.StatusCode)
			assert.Equal(t, tt.wantBody, statusErr.Body)
		})
	}
}

func TestGenerateNullContent(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":null,"images":[]}}]}`, nil)

	msg, err := New("sk-test", "", WithBaseURL(srv.URL)).Generate(context.Background(), providers.Request{Prompt: "x"})

	require.NoError(t, err)
	assert.Empty(t, msg.Content)
	assert.Empty(t, msg.Images)
}
