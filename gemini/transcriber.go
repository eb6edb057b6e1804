package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"voicebridge/audio"
)

const transcriptPrompt = `Generate a transcript of the speech.
Please do not include any other text in the response.
If you cannot hear the speech, please only say '<Not recognizable>'.`

// Transcriber produces a text transcript of one turn's accumulated
// audio using a lighter-weight model than the live session.
type Transcriber struct {
	genai *genai.Client
	model string
	setup SetupConfig
}

// Transcribe converts the turn's raw PCM to MP3 and requests a
// transcript. Best-effort: every failure surfaces as an error the
// caller logs and drops, never as a relay fault.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if len(pcm) == 0 {
		return "", fmt.Errorf("no audio data to transcribe")
	}

	mp3Data, err := audio.ConvertPCMToMP3(pcm)
	if err != nil {
		return "", fmt.Errorf("audio conversion failed: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcriptPrompt),
		genai.NewPartFromBytes(mp3Data, "audio/mp3"),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		CandidateCount: t.setup.GenerationConfig.CandidateCount,
		SafetySettings: t.setup.safetySettings(),
	}

	resp, err := t.genai.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	return resp.Text(), nil
}
