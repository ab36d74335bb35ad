// Package llm implements domain.Explainer against an OpenAI-compatible
// chat-completions endpoint. The default target is the x.ai API; any
// provider speaking the same wire format works via LLM_BASE_URL.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

const (
	systemPrompt = "You are a precise, neutral agronomy assistant."

	// Short, bounded completions: the explanation is one reasoning line.
	temperature = 0.2
	maxTokens   = 180
)

// Client calls a chat-completions API to produce one explanation per
// recommendation. It is a best-effort collaborator; callers absorb every
// error.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an explanation client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Explain implements domain.Explainer.
func (c *Client) Explain(ctx context.Context, req domain.ExplainRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completion API error: status %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// buildPrompt renders the recommendation facts into the user prompt.
func buildPrompt(req domain.ExplainRequest) string {
	return fmt.Sprintf(`You are an agronomy assistant. Explain concisely (in 2-4 sentences) why the crop %q is recommended for %s given:
- Soil: %s
- Climate: %s
- Weather: %d°C, %d%% humidity, rainfall %dmm, %s
- Typical local market price (modal): ₹%d
Focus on agronomic suitability and market context.`,
		req.CropName, req.Location,
		req.SoilMatch,
		req.ClimateMatch,
		req.Weather.Temperature, req.Weather.Humidity, req.Weather.Rainfall, req.Weather.Description,
		req.MarketPrice,
	)
}

// Chat-completions wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
