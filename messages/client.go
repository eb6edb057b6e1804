package messages

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Recognized media chunk MIME types. Chunks carrying any other tag are
// dropped before they reach Gemini.
const (
	MimeAudioPCM  = "audio/pcm"
	MimeImageJPEG = "image/jpeg"
)

// ClientEnvelope represents a message from the frontend client.
// The first message of a connection may carry "setup"; every later
// message carries "realtime_input".
type ClientEnvelope struct {
	Setup         map[string]json.RawMessage `json:"setup,omitempty"`
	RealtimeInput *RealtimeInput             `json:"realtime_input,omitempty"`
}

// RealtimeInput contains an ordered batch of media chunks
type RealtimeInput struct {
	MediaChunks []MediaChunk `json:"media_chunks"`
}

// MediaChunk is a single tagged unit of client media. Data is
// base64-encoded and passed through verbatim; decoding happens at the
// Gemini transport boundary.
type MediaChunk struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ParseClientEnvelope decodes a raw client message
func ParseClientEnvelope(raw []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Recognized reports whether the chunk's MIME tag is one the relay forwards
func (c MediaChunk) Recognized() bool {
	return c.MimeType == MimeAudioPCM || c.MimeType == MimeImageJPEG
}
