// Package llm provides the generation backends used by the categorizer.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/categorize"
)

var _ categorize.Backend = (*Ollama)(nil)

// Ollama talks to a local Ollama server over its HTTP API.
type Ollama struct {
	client *api.Client
	host   string
	logger *zap.Logger
}

// NewOllama creates a backend for the server at host. A host without a
// scheme is treated as http.
func NewOllama(host string, httpClient *http.Client, logger *zap.Logger) (*Ollama, error) {
	base, err := parseHost(host)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ollama{
		client: api.NewClient(base, httpClient),
		host:   base.String(),
		logger: logger,
	}, nil
}

func parseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("parsing ollama host: empty host")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host %q: %w", host, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parsing ollama host %q: missing host", host)
	}
	return u, nil
}

// Host returns the normalized server URL.
func (o *Ollama) Host() string {
	return o.host
}

// Ping checks that the server is reachable.
func (o *Ollama) Ping(ctx context.Context) error {
	if err := o.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("pinging ollama at %s: %w", o.host, err)
	}
	return nil
}

// Models lists installed model names, including their tag suffix.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	resp, err := o.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ollama models: %w", err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names, nil
}

// Generate sends the prompt as a single non-streaming chat message and
// returns the reply text.
func (o *Ollama) Generate(ctx context.Context, req categorize.Request) (string, error) {
	stream := false
	chat := &api.ChatRequest{
		Model: req.Model,
		Messages: []api.Message{
			{Role: "user", Content: req.Prompt},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, chat, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chatting with %s: %w", req.Model, err)
	}

	o.logger.Debug("received model reply",
		zap.String("model", req.Model),
		zap.Int("length", sb.Len()),
	)

	return sb.String(), nil
}
