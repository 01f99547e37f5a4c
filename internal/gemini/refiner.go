package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/maraval/veogallery/internal/httpclient"
	"google.golang.org/api/option"
)

const systemInstruction = `You rewrite short video descriptions into rich, cinematic
prompts for a video generation model. Keep the subject and intent of the
original description. Add concrete visual detail: camera movement, lighting,
mood, setting. Respond with the rewritten prompt only, no preamble and no
quotation marks.`

// Refiner turns a user's remix description into a richer generation prompt.
// Interface for mocking and dependency injection.
type Refiner interface {
	Refine(ctx context.Context, prompt string) (string, error)
}

// Client handles communication with the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ Refiner = (*Client)(nil)

// NewClient creates a new Gemini client. The key is injected; nothing is
// read from process globals.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// option.WithHTTPClient interferes with the genai library's internal
	// header injection for API keys, so timeouts are enforced via context
	// in Refine instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Refine sends the prompt to Gemini and returns the rewritten version. On
// failure the original prompt should be used as-is by the caller; refinement
// is best effort.
func (c *Client) Refine(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return "", err
	}
	refined := strings.TrimSpace(text)
	if refined == "" {
		return "", fmt.Errorf("gemini returned an empty refinement")
	}
	return refined, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
