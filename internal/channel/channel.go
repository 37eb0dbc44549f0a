// Package channel implements the persistent realtime connection to the
// transcription backend.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

// Dialer opens websocket channels against the configured socket endpoint.
type Dialer struct {
	socketURL string
}

func NewDialer(socketURL string) *Dialer {
	return &Dialer{socketURL: socketURL}
}

// Dial connects and starts the read/write loops. The returned channel is
// exclusively owned by one session and must be closed on every exit path.
func (d *Dialer) Dial(ctx context.Context) (ports.Channel, error) {
	wsURL, err := socketEndpoint(d.socketURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to realtime endpoint: %w", err)
	}

	session := &wsChannel{
		conn:      conn,
		events:    make(chan domain.ChannelEvent, 64),
		outbound:  make(chan []byte, 32),
		done:      make(chan struct{}),
		writeDone: make(chan struct{}),
	}

	session.wg.Add(2)
	go session.readLoop()
	go session.writeLoop()
	go func() {
		session.wg.Wait()
		close(session.events)
		close(session.done)
		_ = conn.Close()
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = session.Close()
		case <-session.done:
		}
	}()

	return session, nil
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type wsChannel struct {
	conn *websocket.Conn

	events    chan domain.ChannelEvent
	outbound  chan []byte
	done      chan struct{}
	writeDone chan struct{}

	wg sync.WaitGroup

	errMu   sync.Mutex
	err     error
	closing bool

	closeOnce sync.Once
	sendMu    sync.RWMutex
	sendDone  bool
}

// Emit marshals payload into the wire envelope and queues it for sending.
func (c *wsChannel) Emit(event string, payload any) error {
	env := envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", event, err)
		}
		env.Data = data
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.sendDone {
		return errors.New("channel is closed")
	}

	select {
	case c.outbound <- frame:
		return nil
	case <-c.done:
		if err := c.lastErr(); err != nil {
			return err
		}
		return errors.New("channel is closed")
	}
}

func (c *wsChannel) Events() <-chan domain.ChannelEvent {
	return c.events
}

// Close tears the connection down deliberately: the write loop flushes
// and sends the close frame first, then the conn is closed to unblock
// the reader. Errors caused by our own teardown are not reported.
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		c.sendMu.Lock()
		c.sendDone = true
		close(c.outbound)
		c.sendMu.Unlock()

		select {
		case <-c.writeDone:
		case <-time.After(time.Second):
		}

		c.errMu.Lock()
		c.closing = true
		c.errMu.Unlock()
		_ = c.conn.Close()
	})
	<-c.done
	return c.lastErr()
}

func (c *wsChannel) lastErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *wsChannel) setErr(err error) {
	if err == nil {
		return
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure,
			websocket.CloseGoingAway,
			websocket.CloseNoStatusReceived:
			return
		}
	}
	if errors.Is(err, net.ErrClosed) {
		return
	}

	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.closing || c.err != nil {
		return
	}
	c.err = err
}

func (c *wsChannel) writeLoop() {
	defer c.wg.Done()
	defer close(c.writeDone)

	for frame := range c.outbound {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.setErr(fmt.Errorf("failed to send event: %w", err))
			return
		}
	}

	closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteMessage(websocket.CloseMessage, closeFrame)
}

func (c *wsChannel) readLoop() {
	defer c.wg.Done()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.setErr(fmt.Errorf("failed to read realtime event: %w", err))
			return
		}

		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil || env.Event == "" {
			continue
		}

		select {
		case c.events <- domain.ChannelEvent{Event: env.Event, Data: env.Data}:
		case <-c.done:
			return
		}
	}
}

func socketEndpoint(raw string) (string, error) {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "", errors.New("socket URL is not configured")
	}

	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	if !strings.HasPrefix(base, "ws://") && !strings.HasPrefix(base, "wss://") {
		return "", fmt.Errorf("invalid socket URL: %s", raw)
	}
	return strings.TrimRight(base, "/"), nil
}
