package session

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voicebridge/messages"
)

const (
	writeBufferSize = 256
	writeTimeout    = 10 * time.Second
)

// ClientChannel is the duplex connection to the frontend client
type ClientChannel interface {
	// ReadMessage blocks until the next client message arrives or the
	// channel closes
	ReadMessage() ([]byte, error)
	// Send delivers an outbound message best-effort. Transport errors
	// are logged and swallowed so a downstream delivery problem never
	// unwinds an upstream loop.
	Send(msg any)
	Close() error
}

// wsClient adapts a gorilla WebSocket connection to ClientChannel.
// All writes go through a single pump goroutine.
type wsClient struct {
	conn      *websocket.Conn
	writeChan chan any
	done      chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newWSClient(conn *websocket.Conn) *wsClient {
	conn.SetReadLimit(512 * 1024) // 512KB max message
	conn.EnableWriteCompression(true)
	conn.SetCompressionLevel(6)

	c := &wsClient{
		conn:      conn,
		writeChan: make(chan any, writeBufferSize),
		done:      make(chan struct{}),
	}
	go c.writePump()
	return c
}

// writePump handles all outgoing messages in a single goroutine
func (c *wsClient) writePump() {
	defer func() {
		// Send close message before exiting
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.writeChan:
			if !c.writeOne(msg) {
				return
			}

			// Drain whatever queued up behind the first message
			n := len(c.writeChan)
			for i := 0; i < n; i++ {
				select {
				case msg := <-c.writeChan:
					if !c.writeOne(msg) {
						return
					}
				default:
				}
			}
		}
	}
}

func (c *wsClient) writeOne(msg any) bool {
	data, err := messages.Encode(msg)
	if err != nil {
		log.Printf("❌ Failed to encode outbound message: %v", err)
		return true
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false
	}
	return true
}

// Send queues a message without blocking. A full queue drops the
// message; a closed channel ignores it.
func (c *wsClient) Send(msg any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.writeChan <- msg:
	default:
		log.Printf("⚠️ Client write queue full, dropping message")
	}
}

func (c *wsClient) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	return c.conn.Close()
}
