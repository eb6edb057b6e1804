package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func pcmFromSamples(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := pcmFromSamples([]int16{0, 100, -100, 32767})

	wav, err := EncodeWAV(pcm, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV error: %v", err)
	}
	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) {
		t.Errorf("missing RIFF marker: %q", wav[0:4])
	}
	if !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Errorf("missing WAVE marker: %q", wav[8:12])
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("payload does not match input PCM")
	}
}

func TestEncodeWAVRejectsBadInput(t *testing.T) {
	if _, err := EncodeWAV(nil, 24000); err == nil {
		t.Error("expected error for empty PCM")
	}
	if _, err := EncodeWAV([]byte{1}, 24000); err == nil {
		t.Error("expected error for odd-length PCM")
	}
	if _, err := EncodeWAV([]byte{1, 2}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 1000, -1000, 32767, -32768}
	pcm := pcmFromSamples(samples)

	wav, err := EncodeWAV(pcm, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV error: %v", err)
	}

	got, rate, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("DecodeWAV error: %v", err)
	}
	if rate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d: expected %d, got %d", i, samples[i], got[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("short")); err == nil {
		t.Error("expected error for truncated data")
	}

	junk := make([]byte, 64)
	if _, _, err := DecodeWAV(junk); err == nil {
		t.Error("expected error for non-RIFF data")
	}
}
