package audio

import (
	"bytes"
	"fmt"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

// ConvertPCMToMP3 converts raw mono 16-bit LE PCM at SampleRate into an
// MP3 byte buffer. The PCM is framed as WAV first so the encoder input
// carries its own channel/rate description, then fed through the shine
// fixed-point encoder.
func ConvertPCMToMP3(pcm []byte) ([]byte, error) {
	wav, err := EncodeWAV(pcm, SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to frame PCM as WAV: %w", err)
	}

	samples, rate, err := DecodeWAV(wav)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WAV frame: %w", err)
	}

	encoder := mp3.NewEncoder(rate, 1)

	var out bytes.Buffer
	if err := encoder.Write(&out, samples); err != nil {
		return nil, fmt.Errorf("mp3 encoding failed: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("mp3 encoder produced no output")
	}

	return out.Bytes(), nil
}
