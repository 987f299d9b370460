package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/categorize"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o, err := NewOllama(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	return o
}

func TestParseHost(t *testing.T) {
	u, err := parseHost("localhost:11434")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", u.String())

	u, err = parseHost("https://ollama.internal:443")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)

	_, err = parseHost("")
	assert.Error(t, err)
}

func TestOllamaPing(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte("Ollama is running"))
	})

	assert.NoError(t, o.Ping(context.Background()))
}

func TestOllamaPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	o, err := NewOllama(url, nil, nil)
	require.NoError(t, err)

	assert.Error(t, o.Ping(context.Background()))
}

func TestOllamaModels(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"phi3.5:latest","model":"phi3.5:latest"},{"name":"","model":"llama3:8b"}]}`))
	})

	names, err := o.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"phi3.5:latest", "llama3:8b"}, names)
}

func TestOllamaGenerate(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var body struct {
			Model    string `json:"model"`
			Stream   *bool  `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Options map[string]any `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "phi3.5", body.Model)
		require.NotNil(t, body.Stream)
		assert.False(t, *body.Stream)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "classify this", body.Messages[0].Content)
		assert.InDelta(t, 0.1, body.Options["temperature"], 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"phi3.5","message":{"role":"assistant","content":"{\"bucket_number\": 1}"},"done":true}`))
	})

	text, err := o.Generate(context.Background(), categorize.Request{
		Model:       "phi3.5",
		Prompt:      "classify this",
		Temperature: 0.1,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"bucket_number": 1}`, text)
}

func TestOllamaGenerateServerError(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model crashed"}`))
	})

	_, err := o.Generate(context.Background(), categorize.Request{Model: "phi3.5", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
}
