// Package session implements the live room client: it verifies the room,
// holds the realtime channel open, drives preacher capture, accumulates
// the transcript and produces exports.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
	"github.com/Mide6x/wilberforceDemoFE/internal/export"
	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

var (
	// ErrAlreadyRecording rejects a second capture start while one is
	// active. Restarting silently would hide a UI logic bug.
	ErrAlreadyRecording = errors.New("a capture session is already active")

	ErrNotConnected = errors.New("not connected to the room")
	ErrSessionEnded = errors.New("this session has ended")
	ErrPreacherOnly = errors.New("only the preacher can do this")
)

// Config describes one session: which room, as whom, in what language.
type Config struct {
	RoomCode string
	Role     domain.Role
	Language string
	Capture  ports.CaptureConfig
}

// Client manages one connection to one room. All backend state is
// authoritative; the client only mirrors what it receives.
type Client struct {
	directory ports.RoomDirectory
	dialer    ports.ChannelDialer
	selector  ports.CaptureSelector
	events    ports.EventSink
	cfg       Config

	mu          sync.Mutex
	presence    domain.RoomPresence
	connected   bool
	recording   bool
	roomEnded   bool
	closed      bool
	transcripts []domain.TranscriptEntry
	channel     ports.Channel
	capture     ports.CaptureSession

	captureDone  chan struct{}
	dispatchDone chan struct{}
}

func NewClient(
	directory ports.RoomDirectory,
	dialer ports.ChannelDialer,
	selector ports.CaptureSelector,
	events ports.EventSink,
	cfg Config,
) *Client {
	if cfg.Role == "" {
		cfg.Role = domain.RoleListener
	}
	return &Client{
		directory: directory,
		dialer:    dialer,
		selector:  selector,
		events:    events,
		cfg:       cfg,
		presence:  domain.RoomPresenceUnknown,
	}
}

// Connect verifies the room and, only on confirmation, opens the realtime
// channel and joins. A not-found room is terminal: no channel is ever
// opened for it.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.directory.RoomInfo(ctx, c.cfg.RoomCode); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			c.setPresence(domain.RoomPresenceNotFound)
			c.events.SessionError(domain.ErrorCodeRoomLookup, "Room not found. Please check the room code.")
			return err
		}
		c.events.SessionError(domain.ErrorCodeRoomLookup, "Failed to connect to room.")
		return err
	}
	c.setPresence(domain.RoomPresenceConfirmed)

	ch, err := c.dialer.Dial(ctx)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeConnection, err.Error())
		return err
	}

	if err := ch.Emit(domain.EventJoinRoom, domain.JoinRoomPayload{
		RoomCode: c.cfg.RoomCode,
		Language: c.cfg.Language,
	}); err != nil {
		_ = ch.Close()
		c.events.SessionError(domain.ErrorCodeConnection, err.Error())
		return err
	}

	dispatchDone := make(chan struct{})
	c.mu.Lock()
	c.channel = ch
	c.connected = true
	c.dispatchDone = dispatchDone
	c.mu.Unlock()

	c.events.ConnectionChanged(true)
	go c.dispatch(ch, dispatchDone)
	return nil
}

// dispatch applies inbound events in arrival order. It is the only
// goroutine that mutates the transcript sequence.
func (c *Client) dispatch(ch ports.Channel, done chan struct{}) {
	defer close(done)

	for event := range ch.Events() {
		switch event.Event {
		case domain.EventRoomJoined:
			var joined domain.RoomJoinedPayload
			if err := json.Unmarshal(event.Data, &joined); err != nil {
				continue
			}
			if !joined.Success {
				message := joined.Message
				if message == "" {
					message = "Failed to join room"
				}
				c.events.SessionError(domain.ErrorCodeJoin, message)
			}

		case domain.EventNewTranscript:
			var entry domain.TranscriptEntry
			if err := json.Unmarshal(event.Data, &entry); err != nil {
				continue
			}
			c.mu.Lock()
			c.transcripts = append(c.transcripts, entry)
			c.mu.Unlock()
			c.events.TranscriptReceived(entry)

		case domain.EventError:
			var failure domain.ErrorPayload
			if err := json.Unmarshal(event.Data, &failure); err != nil {
				continue
			}
			c.events.SessionError(domain.ErrorCodeChannel, failure.Message)

		case domain.EventRoomEnded:
			c.markRoomEnded()
		}
	}

	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()
	if wasConnected {
		c.events.ConnectionChanged(false)
	}
}

// markRoomEnded is idempotent: the ended event fires once and the
// recording flag drops exactly once, however often the backend repeats it.
func (c *Client) markRoomEnded() {
	c.mu.Lock()
	first := !c.roomEnded
	c.roomEnded = true
	wasRecording := c.recording
	c.recording = false
	capture := c.capture
	c.capture = nil
	done := c.captureDone
	c.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
		if done != nil {
			<-done
		}
	}
	if wasRecording {
		c.events.RecordingChanged(false)
	}
	if first {
		c.events.RoomEnded()
	}
}

// StartCapture begins streaming speech. The strategy is chosen once per
// invocation by capability probing; only one capture session may be
// active at a time.
func (c *Client) StartCapture(ctx context.Context) error {
	if c.cfg.Role != domain.RolePreacher {
		return ErrPreacherOnly
	}

	c.mu.Lock()
	switch {
	case c.roomEnded:
		c.mu.Unlock()
		return ErrSessionEnded
	case c.recording:
		c.mu.Unlock()
		return ErrAlreadyRecording
	case c.channel == nil:
		c.mu.Unlock()
		return ErrNotConnected
	}
	ch := c.channel
	c.mu.Unlock()

	strategy, err := c.selector.Select()
	if err != nil {
		c.events.SessionError(domain.ErrorCodeCapture, err.Error())
		return err
	}

	capture, err := strategy.Start(ctx, c.cfg.Capture)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeCapture, "Failed to access microphone. Please check permissions and try again.")
		return err
	}

	done := make(chan struct{})
	c.mu.Lock()
	if c.roomEnded || c.closed {
		c.mu.Unlock()
		_ = capture.Stop()
		return ErrSessionEnded
	}
	if c.recording {
		c.mu.Unlock()
		_ = capture.Stop()
		return ErrAlreadyRecording
	}
	c.capture = capture
	c.captureDone = done
	c.recording = true
	c.mu.Unlock()

	_ = ch.Emit(domain.EventStartTranscription, domain.RoomPayload{RoomCode: c.cfg.RoomCode})
	c.events.RecordingChanged(true)

	go c.consumeCapture(capture, ch, done)
	return nil
}

func (c *Client) consumeCapture(capture ports.CaptureSession, ch ports.Channel, done chan struct{}) {
	defer close(done)

	for result := range capture.Results() {
		switch {
		case result.Err != nil:
			// Recognition errors are surfaced but do not stop capture.
			c.events.SessionError(domain.ErrorCodeRecognition, result.Err.Error())
		case result.Text != "":
			_ = ch.Emit(domain.EventTranscriptText, domain.TranscriptTextPayload{
				RoomCode: c.cfg.RoomCode,
				Text:     result.Text,
			})
		case len(result.Audio) > 0:
			_ = ch.Emit(domain.EventAudioChunk, domain.AudioChunkPayload{
				RoomCode:  c.cfg.RoomCode,
				AudioData: result.Audio,
			})
		}
	}

	// Natural end of recognition: clear the flag without a stop event,
	// unless StopCapture already took ownership.
	c.mu.Lock()
	if c.capture != capture {
		c.mu.Unlock()
		return
	}
	c.capture = nil
	wasRecording := c.recording
	c.recording = false
	c.mu.Unlock()
	if wasRecording {
		c.events.RecordingChanged(false)
	}
}

// StopCapture terminates the active strategy, releases the device and
// emits the stop control event. Calling it while idle is a no-op.
func (c *Client) StopCapture() error {
	c.mu.Lock()
	capture := c.capture
	c.capture = nil
	wasRecording := c.recording
	c.recording = false
	ch := c.channel
	done := c.captureDone
	c.mu.Unlock()

	if capture == nil {
		return nil
	}

	_ = capture.Stop()
	if done != nil {
		<-done
	}
	if ch != nil {
		_ = ch.Emit(domain.EventStopTranscription, domain.RoomPayload{RoomCode: c.cfg.RoomCode})
	}
	if wasRecording {
		c.events.RecordingChanged(false)
	}
	return nil
}

// EndRoom marks the room inactive. The backend is authoritative: a
// failed request never sets the local ended flag.
func (c *Client) EndRoom(ctx context.Context) error {
	if c.cfg.Role != domain.RolePreacher {
		return ErrPreacherOnly
	}

	if err := c.directory.EndRoom(ctx, c.cfg.RoomCode); err != nil {
		c.events.SessionError(domain.ErrorCodeEndRoom, "Failed to end room")
		return err
	}

	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch != nil {
		_ = ch.Emit(domain.EventRoomEnded, domain.RoomPayload{RoomCode: c.cfg.RoomCode})
	}

	c.markRoomEnded()
	return nil
}

// Export renders the current in-memory transcript sequence.
func (c *Client) Export(format domain.ExportFormat) (export.Artifact, error) {
	exporter := export.Exporter{
		RoomCode: c.cfg.RoomCode,
		Role:     c.cfg.Role,
		Language: c.cfg.Language,
	}
	return exporter.Export(format, c.Transcripts())
}

// Transcripts returns a snapshot of the sequence in receipt order.
func (c *Client) Transcripts() []domain.TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.TranscriptEntry, len(c.transcripts))
	copy(out, c.transcripts)
	return out
}

// Status reports the current view state.
func (c *Client) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{
		RoomCode:    c.cfg.RoomCode,
		Role:        c.cfg.Role,
		Language:    c.cfg.Language,
		Presence:    c.presence,
		Connected:   c.connected,
		Recording:   c.recording,
		RoomEnded:   c.roomEnded,
		Transcripts: len(c.transcripts),
	}
}

// Close tears the session down: capture stopped, device released,
// leave-room sent best effort, channel closed. It runs on every exit
// path and is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	capture := c.capture
	c.capture = nil
	wasRecording := c.recording
	c.recording = false
	ch := c.channel
	c.channel = nil
	captureDone := c.captureDone
	dispatchDone := c.dispatchDone
	c.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
		if captureDone != nil {
			<-captureDone
		}
	}
	if wasRecording {
		c.events.RecordingChanged(false)
	}

	if ch != nil {
		_ = ch.Emit(domain.EventLeaveRoom, domain.RoomPayload{RoomCode: c.cfg.RoomCode})
		err := ch.Close()
		if dispatchDone != nil {
			<-dispatchDone
		}
		return err
	}
	return nil
}

func (c *Client) setPresence(presence domain.RoomPresence) {
	c.mu.Lock()
	c.presence = presence
	c.mu.Unlock()
	c.events.PresenceChanged(presence)
}
