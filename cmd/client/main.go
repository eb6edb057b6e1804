package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"voicebridge/messages"
)

// serverMessage covers both single-key response shapes; exactly one
// field is set per message
type serverMessage struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// AudioPlayer streams raw 24kHz PCM to the speakers via sox
type AudioPlayer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	mu     sync.Mutex
	closed bool
}

func NewAudioPlayer() *AudioPlayer {
	cmd := exec.Command("sox",
		"-t", "raw",
		"-r", "24000",
		"-b", "16",
		"-c", "1",
		"-e", "signed-integer",
		"-",
		"-d",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Println("sox stdin error:", err)
		return nil
	}

	if err := cmd.Start(); err != nil {
		log.Println("sox start error:", err)
		return nil
	}

	return &AudioPlayer{cmd: cmd, stdin: stdin}
}

func (p *AudioPlayer) Play(audioData []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.stdin == nil {
		return
	}
	p.stdin.Write(audioData)
}

func (p *AudioPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.stdin != nil {
		p.stdin.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Wait()
	}
}

func main() {
	serverURL := flag.String("server", "ws://localhost:9083/ws", "WebSocket server URL")
	audioFile := flag.String("file", "examples/user.pcm", "Audio file to send (PCM or WAV)")
	noPlayback := flag.Bool("no-playback", false, "Print audio sizes instead of playing through sox")
	flag.Parse()

	log.Printf("🔌 Connecting to %s...", *serverURL)

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	log.Println("✅ Connected!")

	var player *AudioPlayer
	if !*noPlayback {
		player = NewAudioPlayer()
		if player == nil {
			log.Fatal("Failed to create audio player (is sox installed?)")
		}
		defer player.Close()
	}

	// The first message carries the session setup; an empty object
	// accepts the server defaults
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"setup":{}}`)); err != nil {
		log.Fatalf("Failed to send setup: %v", err)
	}
	log.Println("🤝 Setup sent")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// Read responses from the server
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}

			var msg serverMessage
			if err := sonic.Unmarshal(message, &msg); err != nil {
				log.Println("Parse error:", err)
				continue
			}

			switch {
			case msg.Audio != "":
				audioBytes, err := base64.StdEncoding.DecodeString(msg.Audio)
				if err != nil {
					log.Println("Audio decode error:", err)
					continue
				}
				if player != nil {
					log.Printf("🔊 Playing audio: %d bytes", len(audioBytes))
					player.Play(audioBytes)
				} else {
					log.Printf("🔊 Received audio: %d bytes", len(audioBytes))
				}

			case msg.Text != "":
				fmt.Printf("📝 %s\n", msg.Text)
			}
		}
	}()

	log.Printf("📤 Sending audio file: %s", *audioFile)

	audioData, err := loadAudioFile(*audioFile)
	if err != nil {
		log.Fatalf("Failed to load audio: %v", err)
	}

	// Send in 100ms chunks to simulate real-time capture
	chunkSize := 3200
	total := (len(audioData) + chunkSize - 1) / chunkSize
	for i := 0; i < len(audioData); i += chunkSize {
		end := i + chunkSize
		if end > len(audioData) {
			end = len(audioData)
		}

		payload, err := sonic.Marshal(map[string]any{
			"realtime_input": map[string]any{
				"media_chunks": []messages.MediaChunk{{
					MimeType: messages.MimeAudioPCM,
					Data:     base64.StdEncoding.EncodeToString(audioData[i:end]),
				}},
			},
		})
		if err != nil {
			log.Fatalf("Encode error: %v", err)
		}

		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Send error: %v", err)
			break
		}

		log.Printf("📤 Sent chunk %d/%d (%d bytes)", i/chunkSize+1, total, end-i)
		time.Sleep(100 * time.Millisecond)
	}

	log.Println("✅ Audio sent, waiting for response...")

	select {
	case <-done:
		log.Println("Connection closed")
	case <-interrupt:
		log.Println("\n👋 Interrupted, closing...")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	case <-time.After(60 * time.Second):
		log.Println("⏰ Timeout waiting for response")
	}
}

// loadAudioFile loads a PCM or WAV file and returns raw PCM bytes
func loadAudioFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) > 44 && string(data[0:4]) == "RIFF" {
		log.Println("📁 Detected WAV file, skipping header")
		return data[44:], nil
	}

	log.Println("📁 Detected raw PCM file")
	return data, nil
}
