package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Mide6x/wilberforceDemoFE/internal/bootstrap"
	"github.com/Mide6x/wilberforceDemoFE/internal/domain"
	"github.com/Mide6x/wilberforceDemoFE/internal/languages"
	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
	"github.com/Mide6x/wilberforceDemoFE/internal/session"
)

const (
	eventPresence   = "room:presence"
	eventConnection = "room:connection"
	eventRecording  = "room:recording"
	eventTranscript = "room:transcript"
	eventRoomEnded  = "room:ended"
	eventError      = "room:error"
)

// App is the Wails application root. It owns at most one live room
// session at a time and relays its events to the frontend.
type App struct {
	ctx context.Context

	services bootstrap.Services
	bootErr  error

	clipboard ports.Clipboard

	mu      sync.Mutex
	session *session.Client
}

func NewApp() *App {
	return &App{clipboard: &wailsClipboard{}}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build()
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}
	a.services = services
}

func (a *App) shutdown(_ context.Context) {
	_ = a.LeaveRoom()
}

// CreateRoom asks the backend for a new room and returns it. The caller
// still has to enter it as preacher.
func (a *App) CreateRoom() (domain.Room, error) {
	if err := a.requireReady(); err != nil {
		return domain.Room{}, err
	}
	room, err := a.services.Directory.CreateRoom(a.ctx)
	if err != nil {
		a.SessionError(domain.ErrorCodeRoomLookup, err.Error())
		return domain.Room{}, err
	}
	return room, nil
}

// EnterRoom verifies the room and joins it in the given role. Entering a
// room tears down any previous session first.
func (a *App) EnterRoom(roomCode string, role string, language string) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}

	roomCode = strings.ToUpper(strings.TrimSpace(roomCode))
	if roomCode == "" {
		return domain.Status{}, errors.New("room code is required")
	}

	sessionRole := domain.RoleListener
	if role == string(domain.RolePreacher) {
		sessionRole = domain.RolePreacher
	}

	capture := a.services.Capture
	capture.Language = languages.Normalize(language)

	client := session.NewClient(
		a.services.Directory,
		a.services.Dialer,
		a.services.Selector,
		a,
		session.Config{
			RoomCode: roomCode,
			Role:     sessionRole,
			Language: capture.Language,
			Capture:  capture,
		},
	)

	a.mu.Lock()
	previous := a.session
	a.session = client
	a.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}

	if err := client.Connect(a.ctx); err != nil {
		a.mu.Lock()
		if a.session == client {
			a.session = nil
		}
		a.mu.Unlock()
		_ = client.Close()
		return domain.Status{}, err
	}
	return client.Status(), nil
}

// LeaveRoom tears down the active session. Leaving when no session is
// active is a no-op.
func (a *App) LeaveRoom() error {
	a.mu.Lock()
	client := a.session
	a.session = nil
	a.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// StartRecording begins speech capture in the active session.
func (a *App) StartRecording() (domain.Status, error) {
	client, err := a.activeSession()
	if err != nil {
		return domain.Status{}, err
	}
	if err := client.StartCapture(a.ctx); err != nil {
		return domain.Status{}, err
	}
	return client.Status(), nil
}

// StopRecording stops speech capture in the active session.
func (a *App) StopRecording() (domain.Status, error) {
	client, err := a.activeSession()
	if err != nil {
		return domain.Status{}, err
	}
	if err := client.StopCapture(); err != nil {
		return domain.Status{}, err
	}
	return client.Status(), nil
}

// EndRoom ends the active room for everyone in it.
func (a *App) EndRoom() error {
	client, err := a.activeSession()
	if err != nil {
		return err
	}
	return client.EndRoom(a.ctx)
}

// GetTranscripts returns the accumulated transcript in receipt order.
func (a *App) GetTranscripts() []domain.TranscriptEntry {
	a.mu.Lock()
	client := a.session
	a.mu.Unlock()

	if client == nil {
		return []domain.TranscriptEntry{}
	}
	return client.Transcripts()
}

// ExportTranscript renders the transcript in the requested format,
// writes it to the downloads directory and returns the file path.
func (a *App) ExportTranscript(format string) (string, error) {
	client, err := a.activeSession()
	if err != nil {
		return "", err
	}

	artifact, err := client.Export(domain.ExportFormat(format))
	if err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, "Downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare downloads directory: %w", err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// CopyRoomCode puts the active room code on the system clipboard.
func (a *App) CopyRoomCode() error {
	client, err := a.activeSession()
	if err != nil {
		return err
	}
	return a.clipboard.SetText(a.ctx, client.Status().RoomCode)
}

// Languages lists the supported translation languages sorted by name.
func (a *App) Languages() []languages.Option {
	return languages.Options()
}

// SearchLanguages filters the language list by name or code.
func (a *App) SearchLanguages(query string) []languages.Option {
	return languages.Search(query)
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	a.mu.Lock()
	client := a.session
	a.mu.Unlock()

	if client == nil {
		return domain.Status{Presence: domain.RoomPresenceUnknown}
	}
	return client.Status()
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.services.Directory == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) activeSession() (*session.Client, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	client := a.session
	a.mu.Unlock()
	if client == nil {
		return nil, errors.New("not in a room")
	}
	return client, nil
}

// PresenceChanged emits room verification updates to the frontend.
func (a *App) PresenceChanged(presence domain.RoomPresence) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPresence, map[string]string{"presence": string(presence)})
}

// ConnectionChanged emits realtime connectivity updates.
func (a *App) ConnectionChanged(connected bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventConnection, map[string]bool{"connected": connected})
}

// RecordingChanged emits capture state updates.
func (a *App) RecordingChanged(recording bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventRecording, map[string]bool{"recording": recording})
}

// TranscriptReceived emits each new transcript entry as it arrives.
func (a *App) TranscriptReceived(entry domain.TranscriptEntry) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, entry)
}

// RoomEnded tells the frontend the room is over.
func (a *App) RoomEnded() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventRoomEnded, nil)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeRoomLookup:
		return "Room lookup failed"
	case domain.ErrorCodeConnection:
		return "Connection failed"
	case domain.ErrorCodeJoin:
		return "Could not join the room"
	case domain.ErrorCodeCapture:
		return "Microphone capture failed"
	case domain.ErrorCodeRecognition:
		return "Speech recognition issue"
	case domain.ErrorCodeChannel:
		return "Live updates interrupted"
	case domain.ErrorCodeEndRoom:
		return "Failed to end room"
	case domain.ErrorCodeExport:
		return "Export failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
