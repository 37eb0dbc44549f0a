package ports

import (
	"context"
	"io"
	"time"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
)

// RoomDirectory is the HTTP room management API.
type RoomDirectory interface {
	CreateRoom(ctx context.Context) (domain.Room, error)
	RoomInfo(ctx context.Context, roomCode string) (domain.RoomInfo, error)
	EndRoom(ctx context.Context, roomCode string) error
}

// Channel is an open bidirectional realtime connection. Events delivers
// inbound events in arrival order and is closed when the connection drops
// or Close is called.
type Channel interface {
	Emit(event string, payload any) error
	Events() <-chan domain.ChannelEvent
	Close() error
}

// ChannelDialer opens realtime channels.
type ChannelDialer interface {
	Dial(ctx context.Context) (Channel, error)
}

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live microphone capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// CaptureConfig describes one capture invocation.
type CaptureConfig struct {
	Audio         AudioConfig
	ChunkDuration time.Duration
	Language      string
}

// CaptureResult is one unit of capture output: finalized recognizer text,
// a raw audio slice, or a non-fatal capture error. Exactly one field is set.
type CaptureResult struct {
	Text  string
	Audio []byte
	Err   error
}

// CaptureSession is an active capture. Results is closed on natural end
// and after Stop; Stop releases the underlying device.
type CaptureSession interface {
	Results() <-chan CaptureResult
	Stop() error
}

// CaptureStrategy is one way of turning speech into outgoing events.
type CaptureStrategy interface {
	Name() string
	Available() bool
	Start(ctx context.Context, cfg CaptureConfig) (CaptureSession, error)
}

// CaptureSelector probes capabilities and picks the strategy to use for
// one capture invocation.
type CaptureSelector interface {
	Select() (CaptureStrategy, error)
}

// EventSink emits session state and events to the UI.
type EventSink interface {
	PresenceChanged(presence domain.RoomPresence)
	ConnectionChanged(connected bool)
	RecordingChanged(recording bool)
	TranscriptReceived(entry domain.TranscriptEntry)
	RoomEnded()
	SessionError(code domain.ErrorCode, detail string)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}
