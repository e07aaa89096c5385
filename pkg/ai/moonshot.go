package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	moonshotBaseURL = "https://api.moonshot.ai/v1"
	moonshotModel   = "kimi-k2.5"
)

// MoonshotClient generates digests through the Moonshot chat-completions
// endpoint (OpenAI-compatible wire format).
type MoonshotClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

var _ Generator = (*MoonshotClient)(nil)

// NewMoonshotClient creates a Moonshot client with the default model.
func NewMoonshotClient(apiKey string) *MoonshotClient {
	return &MoonshotClient{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		model:      moonshotModel,
		baseURL:    moonshotBaseURL,
	}
}

// Chat-completions wire format, reduced to the fields a single-turn
// digest exchange needs.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GenerateText sends the prompt as a single user turn and returns the
// first choice's content.
func (c *MoonshotClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("moonshot request marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("moonshot request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("moonshot request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("moonshot response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("moonshot status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result chatResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("moonshot response parse: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("moonshot: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("moonshot returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// Close is a no-op; the client holds no persistent connection.
func (c *MoonshotClient) Close() error {
	return nil
}
