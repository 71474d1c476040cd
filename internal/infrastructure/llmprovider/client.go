package llmprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"chat-api/internal/domain/llm"
	"chat-api/internal/infrastructure/metrics"
)

// Client implements the llm.Generator interface against a Gemini-style
// generateContent endpoint.
type Client struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a Resty-backed client. The API key travels in the
// x-goog-api-key header, never in the URL.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("x-goog-api-key", apiKey).
			SetTimeout(timeout),
		model: model,
	}
}

// Generate calls models/{model}:generateContent and returns the text of the
// first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var completion llm.GenerateContentResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(llm.NewGenerateContentRequest(prompt)).
		SetResult(&completion).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	if resp.IsError() {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("generation api error: %s", resp.String())
	}

	text, err := completion.FirstCandidateText()
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("empty").Inc()
		return "", err
	}

	metrics.GenerationsTotal.WithLabelValues("success").Inc()
	return text, nil
}

// Ensure interface compliance.
var _ llm.Generator = (*Client)(nil)
