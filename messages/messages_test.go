package messages

import (
	"strings"
	"testing"
)

func TestParseClientEnvelopeRealtimeInput(t *testing.T) {
	raw := []byte(`{"realtime_input":{"media_chunks":[{"mime_type":"audio/pcm","data":"AAA="},{"mime_type":"image/jpeg","data":"QkJC"}]}}`)

	env, err := ParseClientEnvelope(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if env.RealtimeInput == nil {
		t.Fatal("expected realtime_input")
	}
	chunks := env.RealtimeInput.MediaChunks
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].MimeType != MimeAudioPCM || chunks[0].Data != "AAA=" {
		t.Errorf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].MimeType != MimeImageJPEG {
		t.Errorf("unexpected second chunk: %+v", chunks[1])
	}
}

func TestParseClientEnvelopeSetup(t *testing.T) {
	raw := []byte(`{"setup":{"generation_config":{"temperature":0.2}}}`)

	env, err := ParseClientEnvelope(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if env.Setup == nil {
		t.Fatal("expected setup map")
	}
	if _, ok := env.Setup["generation_config"]; !ok {
		t.Error("expected generation_config key in setup")
	}
	if env.RealtimeInput != nil {
		t.Error("did not expect realtime_input")
	}
}

func TestParseClientEnvelopeInvalidJSON(t *testing.T) {
	if _, err := ParseClientEnvelope([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestChunkRecognized(t *testing.T) {
	cases := []struct {
		mime string
		want bool
	}{
		{MimeAudioPCM, true},
		{MimeImageJPEG, true},
		{"video/mp4", false},
		{"", false},
	}
	for _, c := range cases {
		got := MediaChunk{MimeType: c.mime}.Recognized()
		if got != c.want {
			t.Errorf("Recognized(%q) = %v, want %v", c.mime, got, c.want)
		}
	}
}

func TestEncodeSingleKey(t *testing.T) {
	data, err := Encode(NewTextMessage("hello"))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if string(data) != `{"text":"hello"}` {
		t.Errorf("unexpected text encoding: %s", data)
	}

	data, err = Encode(NewAudioMessage("AQI="))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if string(data) != `{"audio":"AQI="}` {
		t.Errorf("unexpected audio encoding: %s", data)
	}
	if strings.Contains(string(data), "text") {
		t.Error("audio message must not carry a text key")
	}
}
