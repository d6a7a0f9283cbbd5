package optimizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// TextGenerator is the contract the optimizer and cover-letter generator
// need from a generative text service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a TextGenerator backed by the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, model string) (TextGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not provided: set GEMINI_API_KEY or pass --api-key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiClient{client: client, model: model}, nil
}

func (g *geminiClient) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from model")
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}
