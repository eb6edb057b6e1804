package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client is the process-wide factory for Gemini sessions. It holds no
// per-connection state and is safe for concurrent session opening.
type Client struct {
	genai              *genai.Client
	liveModel          string
	transcriptionModel string
}

// NewClient initializes the underlying GenAI client once at startup
func NewClient(ctx context.Context, apiKey, liveModel, transcriptionModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		genai:              client,
		liveModel:          liveModel,
		transcriptionModel: transcriptionModel,
	}, nil
}

// NewTranscriber returns a transcriber bound to the lighter-weight
// transcription model, carrying the session's safety settings
func (c *Client) NewTranscriber(setup SetupConfig) *Transcriber {
	return &Transcriber{
		genai: c.genai,
		model: c.transcriptionModel,
		setup: setup,
	}
}
