package llm

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

// GeminiClient is the alternate backend, selected by llm.provider: gemini.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient picks up its key from $GEMINI_API_KEY when apiKey is empty
// (the genai client resolves it from the environment).
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		},
	)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &Unavailable{Kind: FailureService, Err: errors.New("empty candidate set")}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
