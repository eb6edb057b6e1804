package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"

	"google.golang.org/genai"
)

// Live is one open Live API session. Opened once per client connection
// and closed exactly once on teardown.
type Live struct {
	session *genai.Session

	mu     sync.RWMutex
	closed bool
}

// ConnectLive opens a Live session with the merged setup configuration.
// Failure is fatal for the calling connection; there is no retry because
// the cause is typically a configuration or quota error, not transient.
func (c *Client) ConnectLive(ctx context.Context, setup SetupConfig) (*Live, error) {
	modalities := make([]genai.Modality, 0, len(setup.GenerationConfig.ResponseModalities))
	for _, m := range setup.GenerationConfig.ResponseModalities {
		modalities = append(modalities, genai.Modality(m))
	}

	config := &genai.LiveConnectConfig{
		ResponseModalities: modalities,
		Temperature:        genai.Ptr(setup.GenerationConfig.Temperature),
	}
	if setup.GenerationConfig.Language != "" {
		config.SpeechConfig = &genai.SpeechConfig{
			LanguageCode: setup.GenerationConfig.Language,
		}
	}

	session, err := c.genai.Live.Connect(ctx, c.liveModel, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Live API: %w", err)
	}

	log.Printf("✅ Connected to Gemini Live (%s)", c.liveModel)
	return &Live{session: session}, nil
}

// SendMediaChunk forwards one client media chunk. Data arrives base64
// encoded; the SDK re-encodes on the wire, so the payload reaches
// Gemini byte-identical to what the client sent.
func (l *Live) SendMediaChunk(mimeType, data string) error {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("invalid base64 chunk data: %w", err)
	}

	l.mu.RLock()
	session := l.session
	closed := l.closed
	l.mu.RUnlock()

	if closed || session == nil {
		return fmt.Errorf("live session is closed")
	}

	err = session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			MIMEType: mimeType,
			Data:     decoded,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send media chunk: %w", err)
	}

	return nil
}

// Receive blocks until the next server event arrives or the session
// ends. Events are decoded into tagged variants before they reach the
// relay core.
func (l *Live) Receive() (*ServerEvent, error) {
	l.mu.RLock()
	session := l.session
	closed := l.closed
	l.mu.RUnlock()

	if closed || session == nil {
		return nil, fmt.Errorf("live session is closed")
	}

	msg, err := session.Receive()
	if err != nil {
		return nil, err
	}

	return decodeServerMessage(msg), nil
}

// Close terminates the Live session. Safe to call more than once.
func (l *Live) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.session != nil {
		return l.session.Close()
	}
	return nil
}
