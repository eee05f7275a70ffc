package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultGroqModel    = "llama-3.3-70b-versatile"
	defaultGroqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
)

// Groq generates captions through Groq's OpenAI-compatible chat completions endpoint.
// Request: {"model": "...", "messages": [{"role": "system", ...}, {"role": "user", ...}]}
// Response: {"choices": [{"message": {"content": "..."}}]}
type Groq struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewGroq(apiKey, model string) *Groq {
	if model == "" {
		model = defaultGroqModel
	}
	return &Groq{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultGroqEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (g *Groq) Generate(ctx context.Context, categories []string) (string, error) {
	if err := checkCategories(categories); err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(categories)},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "groq request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return "", errors.Errorf("groq chat error: status %d: %v", resp.StatusCode, body)
	}

	var parsed struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode groq response")
	}
	if len(parsed.Choices) == 0 || clean(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("groq chat returned no choices")
	}
	return clean(parsed.Choices[0].Message.Content), nil
}
