package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"voicebridge/gemini"
	"voicebridge/messages"
	"voicebridge/metrics"
)

// LiveSession is the duplex connection to the Gemini Live API
type LiveSession interface {
	SendMediaChunk(mimeType, data string) error
	Receive() (*gemini.ServerEvent, error)
	Close() error
}

// Transcriber produces a transcript from one turn's accumulated PCM
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}

// OpenLiveFunc opens one Live session with the merged setup. The
// underlying factory is stateless and safe for concurrent opens.
type OpenLiveFunc func(ctx context.Context, setup gemini.SetupConfig) (LiveSession, error)

// NewTranscriberFunc builds the turn transcriber for a session's setup
type NewTranscriberFunc func(setup gemini.SetupConfig) Transcriber

// Session relays one client connection to one Gemini Live session:
// two forwarding loops over shared state, plus the turn-boundary
// transcription side path.
type Session struct {
	ID        string
	CreatedAt time.Time
	CloseChan chan struct{}

	client         ClientChannel
	openLive       OpenLiveFunc
	newTranscriber NewTranscriberFunc
	m              *metrics.Metrics

	// Set once after the handshake, before the loops start
	live        LiveSession
	transcriber Transcriber

	// turn is touched only by the Gemini-to-client loop
	turn *TurnBuffer

	mu           sync.RWMutex
	closed       bool
	lastActivity time.Time
}

// NewSession creates a session; the Live connection is not opened
// until Run performs the handshake
func NewSession(id string, client ClientChannel, openLive OpenLiveFunc, newTranscriber NewTranscriberFunc, m *metrics.Metrics, maxTurnBytes int) *Session {
	return &Session{
		ID:             id,
		CreatedAt:      time.Now(),
		CloseChan:      make(chan struct{}),
		client:         client,
		openLive:       openLive,
		newTranscriber: newTranscriber,
		m:              m,
		turn:           NewTurnBuffer(maxTurnBytes),
		lastActivity:   time.Now(),
	}
}

// Run drives the session to completion: handshake, Live connect, both
// forwarding loops, teardown. It returns once both loops have finished
// and every resource is released.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	setup, err := s.handshake()
	if err != nil {
		return fmt.Errorf("handshake failed: %w", err)
	}

	live, err := s.openLive(ctx, *setup)
	if err != nil {
		return fmt.Errorf("failed to open live session: %w", err)
	}

	s.mu.Lock()
	s.live = live
	s.transcriber = s.newTranscriber(*setup)
	s.mu.Unlock()

	// Both loops must finish before teardown: each owns one direction
	// of the duplex pipe. The first loop to exit closes the session,
	// which unblocks the other at its read suspension point.
	g := new(errgroup.Group)
	g.Go(func() error {
		defer s.Close()
		s.clientToGeminiLoop()
		return nil
	})
	g.Go(func() error {
		defer s.Close()
		s.geminiToClientLoop(ctx)
		return nil
	})
	return g.Wait()
}

// handshake reads exactly one initial message and merges its optional
// setup over the defaults. This read may block indefinitely; no
// timeout is imposed (known limitation). A parse failure aborts the
// connection with no retry.
func (s *Session) handshake() (*gemini.SetupConfig, error) {
	raw, err := s.client.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read initial message: %w", err)
	}

	env, err := messages.ParseClientEnvelope(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration received: %w", err)
	}

	setup, err := gemini.MergeSetup(env.Setup)
	if err != nil {
		return nil, err
	}

	log.Printf("🤝 [%s] Handshake complete", s.shortID())
	return &setup, nil
}

// clientToGeminiLoop forwards client media chunks to the Live session.
// Malformed messages are dropped without ending the loop; only channel
// errors terminate it.
func (s *Session) clientToGeminiLoop() {
	defer log.Printf("🔌 [%s] Client-to-Gemini loop terminated", s.shortID())

	for {
		raw, err := s.client.ReadMessage()
		if err != nil {
			if isNormalClose(err) || s.IsClosed() {
				log.Printf("[%s] Client connection closed", s.shortID())
			} else {
				log.Printf("❌ [%s] Error in client-to-Gemini loop: %v", s.shortID(), err)
			}
			return
		}

		s.touch()
		s.handleClientMessage(raw)
	}
}

// handleClientMessage processes a single client message. Per-message
// failures are contained here.
func (s *Session) handleClientMessage(raw []byte) {
	env, err := messages.ParseClientEnvelope(raw)
	if err != nil {
		log.Printf("⚠️ [%s] Invalid JSON in client message", s.shortID())
		s.m.InvalidMessages.Inc()
		return
	}
	if env.RealtimeInput == nil {
		return
	}

	for _, chunk := range env.RealtimeInput.MediaChunks {
		// Unrecognized tags are dropped without a per-chunk log line
		if !chunk.Recognized() {
			s.m.ChunksDropped.Inc()
			continue
		}
		if err := s.live.SendMediaChunk(chunk.MimeType, chunk.Data); err != nil {
			log.Printf("❌ [%s] Failed to forward %s chunk: %v", s.shortID(), chunk.MimeType, err)
			continue
		}
		s.m.ChunksForwarded.Inc()
	}
}

// geminiToClientLoop forwards server events to the client and feeds
// the turn-boundary transcription path
func (s *Session) geminiToClientLoop(ctx context.Context) {
	defer log.Printf("🔌 [%s] Gemini-to-client loop terminated", s.shortID())

	for {
		ev, err := s.live.Receive()
		if err != nil {
			if isNormalClose(err) || s.IsClosed() {
				log.Printf("[%s] Gemini session closed", s.shortID())
			} else {
				log.Printf("❌ [%s] Error in Gemini-to-client loop: %v", s.shortID(), err)
			}
			return
		}

		s.touch()
		s.m.EventsReceived.Inc()

		if !ev.HasContent {
			log.Printf("⚠️ [%s] Unhandled server event", s.shortID())
			continue
		}

		for _, part := range ev.Parts {
			s.handleModelPart(part)
		}

		// A model turn and a turn-complete marker may share one event;
		// the checks are independent
		if ev.TurnComplete {
			s.handleTurnComplete(ctx)
		}
	}
}

func (s *Session) handleModelPart(part gemini.Part) {
	switch part.Kind {
	case gemini.PartText:
		s.client.Send(messages.NewTextMessage(part.Text))
		s.m.TextParts.Inc()

	case gemini.PartInlineData:
		encoded := base64.StdEncoding.EncodeToString(part.Data)
		s.client.Send(messages.NewAudioMessage(encoded))

		if err := s.turn.Append(part.Data); err != nil {
			log.Printf("⚠️ [%s] Turn buffer full, %d audio bytes excluded from transcription", s.shortID(), len(part.Data))
		}
		s.m.AudioParts.Inc()
		s.m.AudioBytes.Add(float64(len(part.Data)))
	}
}

// handleTurnComplete transcribes the turn's accumulated audio. The
// loop suspends while transcription runs so the next turn's audio
// cannot interleave with this turn's transcript. The buffer is reset
// whether or not transcription produced a result.
func (s *Session) handleTurnComplete(ctx context.Context) {
	if s.turn.IsEmpty() {
		return
	}
	pcm := s.turn.Flush()

	s.m.TranscriptionRequests.Inc()
	text, err := s.transcriber.Transcribe(ctx, pcm)
	if err != nil {
		s.m.TranscriptionFailures.Inc()
		log.Printf("❌ [%s] Transcription failed: %v", s.shortID(), err)
		return
	}

	s.m.TranscriptionSuccesses.Inc()
	if text != "" {
		s.client.Send(messages.NewTextMessage(text))
	}
}

// Close tears the session down: Live session and client connection
// are each closed exactly once. Safe to call from any goroutine,
// repeatedly.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	live := s.live
	s.mu.Unlock()

	close(s.CloseChan)

	if live != nil {
		live.Close()
	}
	s.client.Close()

	s.m.SessionsClosed.Inc()
	log.Printf("🔌 [%s] Session closed", s.shortID())
	return nil
}

// IsClosed returns whether the session has been torn down
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// LastActivity returns the time of the last message in either direction
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) shortID() string {
	if len(s.ID) > 8 {
		return s.ID[:8]
	}
	return s.ID
}

// isNormalClose reports whether an error is expected teardown control
// flow rather than a fault worth an error-level log
func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
	)
}
