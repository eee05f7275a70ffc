package caption

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/pkg/errors"
)

const defaultCohereModel = "command-r-plus"

// Cohere generates captions with the Cohere chat API
type Cohere struct {
	client *cohereclient.Client
	model  string
}

func NewCohere(apiKey, model string) *Cohere {
	if model == "" {
		model = defaultCohereModel
	}
	// Force HTTP/1.1 to avoid HTTP/2 protocol errors
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Cohere{client: client, model: model}
}

func (c *Cohere) Generate(ctx context.Context, categories []string) (string, error) {
	if err := checkCategories(categories); err != nil {
		return "", err
	}

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  BuildPrompt(categories),
		Model:    cohere.String(c.model),
		Preamble: cohere.String(systemPrompt),
	})
	if err != nil {
		return "", errors.Wrap(err, "cohere chat error")
	}
	if resp == nil || clean(resp.Text) == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return clean(resp.Text), nil
}
