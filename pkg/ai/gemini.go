package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces free-form text from a prompt. The digest endpoint
// is its only consumer; review note rendering never goes through it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const geminiModel = "gemini-1.5-flash"

// GeminiClient generates digests through the Gemini API.
type GeminiClient struct {
	genaiClient *genai.Client
	model       *genai.GenerativeModel
}

var _ Generator = (*GeminiClient)(nil)

// NewGeminiClient connects to the Gemini API with the given key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini connect: %w", err)
	}

	return &GeminiClient{
		genaiClient: client,
		model:       client.GenerativeModel(geminiModel),
	}, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.genaiClient.Close()
}

// GenerateText runs the prompt and concatenates the text parts of the
// first candidate.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini candidate carried no text parts")
	}
	return sb.String(), nil
}
