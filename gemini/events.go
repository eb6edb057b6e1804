package gemini

import "google.golang.org/genai"

// PartKind tags a model-turn part by shape
type PartKind int

const (
	PartOther PartKind = iota
	PartText
	PartInlineData
)

// Part is one element of a model turn: a text fragment, inline binary
// data with a MIME tag, or something the relay does not handle
type Part struct {
	Kind     PartKind
	Text     string
	MIMEType string
	Data     []byte
}

// ServerEvent is one message from the Live session, decoded into
// tagged variants at this transport boundary. An event may carry
// model-turn parts and a turn-complete marker together or separately.
type ServerEvent struct {
	// HasContent is false for messages without a server-content
	// wrapper (logged upstream, otherwise ignored)
	HasContent   bool
	Parts        []Part
	TurnComplete bool
}

func decodeServerMessage(msg *genai.LiveServerMessage) *ServerEvent {
	if msg.ServerContent == nil {
		return &ServerEvent{}
	}

	ev := &ServerEvent{
		HasContent:   true,
		TurnComplete: msg.ServerContent.TurnComplete,
	}

	if msg.ServerContent.ModelTurn != nil {
		for _, part := range msg.ServerContent.ModelTurn.Parts {
			switch {
			case part.Text != "":
				ev.Parts = append(ev.Parts, Part{Kind: PartText, Text: part.Text})
			case part.InlineData != nil && len(part.InlineData.Data) > 0:
				ev.Parts = append(ev.Parts, Part{
					Kind:     PartInlineData,
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				})
			default:
				ev.Parts = append(ev.Parts, Part{Kind: PartOther})
			}
		}
	}

	return ev
}
