package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"resume-tailor/internal/optimizer"
)

const defaultModel = "gemini-2.5-flash"

// Client implements optimizer.Client using the Google GenAI SDK.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// Optimize makes a single generation call in JSON mode and validates
// the output against the resume text.
func (c *Client) Optimize(ctx context.Context, input optimizer.Input) (*optimizer.Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: optimizer.SystemPrompt()}},
		},
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(optimizer.UserPrompt(input)), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests) {
			return nil, fmt.Errorf("%w: gemini status %d: %v", optimizer.ErrUnavailable, apiErr.Code, err)
		}
		return nil, fmt.Errorf("%w: %v", optimizer.ErrUnavailable, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	return optimizer.DecodeResult(output, input.ResumeText)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

var _ optimizer.Client = (*Client)(nil)
