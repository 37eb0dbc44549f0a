package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
)

func TestSocketEndpoint(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://backend.example.com":  "wss://backend.example.com",
		"http://localhost:8080/":       "ws://localhost:8080",
		"wss://backend.example.com/ws": "wss://backend.example.com/ws",
	}
	for in, want := range cases {
		in := in
		want := want
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			got, err := socketEndpoint(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}

	if _, err := socketEndpoint(""); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if _, err := socketEndpoint("ftp://nope"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestChannelRoundTrip(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	received := make(chan envelope, 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Errorf("bad envelope: %v", err)
			return
		}
		received <- env

		reply := `{"event":"new-transcript","data":{"id":1,"original_text":"Hello","language":"en","created_at":"2025-01-02T10:00:00Z"}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			return
		}

		// Hold the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	dialer := NewDialer("http://" + strings.TrimPrefix(server.URL, "http://"))
	ch, err := dialer.Dial(context.Background())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer ch.Close()

	join := domain.JoinRoomPayload{RoomCode: "ABCD1234", Language: "es"}
	if err := ch.Emit(domain.EventJoinRoom, join); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	select {
	case env := <-received:
		if env.Event != domain.EventJoinRoom {
			t.Fatalf("unexpected event: %q", env.Event)
		}
		var got domain.JoinRoomPayload
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("bad join payload: %v", err)
		}
		if got != join {
			t.Fatalf("unexpected payload: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never saw the join event")
	}

	select {
	case event := <-ch.Events():
		if event.Event != domain.EventNewTranscript {
			t.Fatalf("unexpected inbound event: %q", event.Event)
		}
		var entry domain.TranscriptEntry
		if err := json.Unmarshal(event.Data, &entry); err != nil {
			t.Fatalf("bad transcript payload: %v", err)
		}
		if entry.OriginalText != "Hello" {
			t.Fatalf("unexpected transcript: %+v", entry)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("client never received the transcript event")
	}
}

func TestChannelCleanCloseReturnsNoError(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ch, err := NewDialer(server.URL).Dial(context.Background())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	if err := ch.Emit(domain.EventLeaveRoom, domain.RoomPayload{RoomCode: "ABCD1234"}); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if err := ch.Close(); err != nil {
		t.Fatalf("clean close must not report an error, got: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("repeated close must stay clean, got: %v", err)
	}
}

func TestDialWatchdogExitsAfterClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		ch, err := NewDialer(server.URL).Dial(context.Background())
		if err != nil {
			t.Fatalf("dial failed: %v", err)
		}
		if err := ch.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("goroutines leaked across sessions: %d before, %d after", before, runtime.NumGoroutine())
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ch, err := NewDialer(server.URL).Dial(context.Background())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	_ = ch.Close()
	_ = ch.Close()

	if err := ch.Emit(domain.EventLeaveRoom, domain.RoomPayload{RoomCode: "ABCD1234"}); err == nil {
		t.Fatalf("expected emit on closed channel to fail")
	}

	if _, ok := <-ch.Events(); ok {
		t.Fatalf("expected events channel to be drained and closed")
	}
}

func TestChannelEventsCloseWhenServerDrops(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer server.Close()

	ch, err := NewDialer(server.URL).Dial(context.Background())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer ch.Close()

	select {
	case _, ok := <-ch.Events():
		if ok {
			t.Fatalf("expected closed events channel, got an event")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("events channel never closed after server drop")
	}
}
