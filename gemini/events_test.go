package gemini

import (
	"bytes"
	"testing"

	"google.golang.org/genai"
)

func TestDecodeServerMessageNoContent(t *testing.T) {
	ev := decodeServerMessage(&genai.LiveServerMessage{})
	if ev.HasContent {
		t.Error("expected HasContent=false for message without server content")
	}
	if ev.TurnComplete || len(ev.Parts) != 0 {
		t.Error("empty message must not carry parts or turn-complete")
	}
}

func TestDecodeServerMessageModelTurn(t *testing.T) {
	msg := &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{
				Parts: []*genai.Part{
					{Text: "hello"},
					{InlineData: &genai.Blob{MIMEType: "audio/pcm", Data: []byte{1, 2}}},
					{}, // neither text nor inline data
				},
			},
		},
	}

	ev := decodeServerMessage(msg)
	if !ev.HasContent {
		t.Fatal("expected HasContent")
	}
	if ev.TurnComplete {
		t.Error("turn must not be complete")
	}
	if len(ev.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(ev.Parts))
	}
	if ev.Parts[0].Kind != PartText || ev.Parts[0].Text != "hello" {
		t.Errorf("unexpected text part: %+v", ev.Parts[0])
	}
	if ev.Parts[1].Kind != PartInlineData || !bytes.Equal(ev.Parts[1].Data, []byte{1, 2}) {
		t.Errorf("unexpected inline data part: %+v", ev.Parts[1])
	}
	if ev.Parts[2].Kind != PartOther {
		t.Errorf("expected PartOther for empty part, got %v", ev.Parts[2].Kind)
	}
}

func TestDecodeServerMessageTurnCompleteWithParts(t *testing.T) {
	// Turn-complete and model-turn may arrive in the same event;
	// both must be surfaced independently.
	msg := &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{
				Parts: []*genai.Part{{Text: "bye"}},
			},
			TurnComplete: true,
		},
	}

	ev := decodeServerMessage(msg)
	if !ev.TurnComplete {
		t.Error("expected TurnComplete")
	}
	if len(ev.Parts) != 1 {
		t.Errorf("expected 1 part alongside turn-complete, got %d", len(ev.Parts))
	}
}

func TestDecodeServerMessageEmptyInlineData(t *testing.T) {
	msg := &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{
				Parts: []*genai.Part{
					{InlineData: &genai.Blob{MIMEType: "audio/pcm"}},
				},
			},
		},
	}

	ev := decodeServerMessage(msg)
	if ev.Parts[0].Kind != PartOther {
		t.Errorf("inline data without bytes must decode as PartOther, got %v", ev.Parts[0].Kind)
	}
}
