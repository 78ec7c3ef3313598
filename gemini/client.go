package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// TextModel handles prompt-only calls (recommendation, matching,
	// extraction, keywords, summaries).
	TextModel = "gemini-2.0-flash"
	// VisionModel handles the clothing-image analysis call.
	VisionModel = "gemini-2.5-pro-exp-03-25"
)

// Generator is the model surface the handlers depend on. The concrete
// Client talks to Gemini; tests substitute a stub.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateVision(ctx context.Context, prompt string, mimeType string, imageData []byte) (string, error)
}

// Client wraps the Gemini SDK client. It is constructed once at startup
// and injected into the handlers; Close releases the underlying connection.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini client with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateText sends a single text prompt and returns the reply text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(TextModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini text call failed: %w", err)
	}
	return responseText(resp)
}

// GenerateVision sends a prompt plus one inline image to the vision model.
func (c *Client) GenerateVision(ctx context.Context, prompt string, mimeType string, imageData []byte) (string, error) {
	model := c.client.GenerativeModel(VisionModel)
	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.ImageData(imageFormat(mimeType), imageData),
	)
	if err != nil {
		return "", fmt.Errorf("gemini vision call failed: %w", err)
	}
	return responseText(resp)
}

// responseText pulls the text parts out of a generate-content response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}

// imageFormat converts a MIME type like "image/png" into the bare format
// string the SDK expects.
func imageFormat(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return strings.TrimPrefix(mimeType, "image/")
	}
	if mimeType == "" {
		return "png"
	}
	return mimeType
}
