package messages

import "github.com/bytedance/sonic"

// Outbound messages carry exactly one key each: either "text" or
// "audio". No batching, one model part per frame.

// TextMessage carries a text fragment or a turn transcript
type TextMessage struct {
	Text string `json:"text"`
}

// AudioMessage carries base64-encoded PCM audio from the model
type AudioMessage struct {
	Audio string `json:"audio"`
}

// NewTextMessage creates a text response message
func NewTextMessage(text string) *TextMessage {
	return &TextMessage{Text: text}
}

// NewAudioMessage creates an audio response message from base64 data
func NewAudioMessage(base64Data string) *AudioMessage {
	return &AudioMessage{Audio: base64Data}
}

// Encode serializes an outbound message for the wire
func Encode(msg any) ([]byte, error) {
	return sonic.Marshal(msg)
}
