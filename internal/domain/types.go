package domain

import (
	"errors"
	"time"
)

// ErrRoomNotFound reports that a room code does not correspond to an
// active room. This is terminal for a session.
var ErrRoomNotFound = errors.New("room not found")

// Role identifies which side of a room the session represents.
type Role string

const (
	RolePreacher Role = "preacher"
	RoleListener Role = "listener"
)

// RoomPresence tracks whether the backend has confirmed the room.
// Transitions: unknown -> confirmed or unknown -> not-found. Never back.
type RoomPresence string

const (
	RoomPresenceUnknown   RoomPresence = "unknown"
	RoomPresenceConfirmed RoomPresence = "confirmed"
	RoomPresenceNotFound  RoomPresence = "not-found"
)

// Room is a single preacher-led transcription session.
type Room struct {
	ID        int       `json:"id"`
	RoomCode  string    `json:"room_code"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// TranscriptEntry is one unit of transcribed speech. Entries are
// append-only and keep the order in which they arrived.
type TranscriptEntry struct {
	ID             int       `json:"id"`
	RoomID         int       `json:"room_id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text,omitempty"`
	Language       string    `json:"language"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisplayText picks the text a viewer should see: listeners get the
// translation when one exists, preachers always get the original.
func (t TranscriptEntry) DisplayText(role Role) string {
	if role == RoleListener && t.TranslatedText != "" {
		return t.TranslatedText
	}
	return t.OriginalText
}

// Listener is a room membership record kept by the backend.
type Listener struct {
	ID                int       `json:"id"`
	RoomID            int       `json:"room_id"`
	PreferredLanguage string    `json:"preferred_language"`
	JoinedAt          time.Time `json:"joined_at"`
}

// RoomInfo is the room lookup response.
type RoomInfo struct {
	Room      Room       `json:"room"`
	Listeners []Listener `json:"listeners"`
}

// ErrorCode identifies non-fatal and fatal session errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeRoomLookup  ErrorCode = "room_lookup"
	ErrorCodeConnection  ErrorCode = "connection"
	ErrorCodeJoin        ErrorCode = "join"
	ErrorCodeCapture     ErrorCode = "capture"
	ErrorCodeRecognition ErrorCode = "recognition"
	ErrorCodeChannel     ErrorCode = "channel"
	ErrorCodeEndRoom     ErrorCode = "end_room"
	ErrorCodeExport      ErrorCode = "export"
)

// ExportFormat selects a transcript export artifact type.
type ExportFormat string

const (
	ExportText ExportFormat = "text"
	ExportJSON ExportFormat = "json"
	ExportPDF  ExportFormat = "pdf"
)

// Status summarizes the current session for the UI.
type Status struct {
	RoomCode    string       `json:"roomCode"`
	Role        Role         `json:"role"`
	Language    string       `json:"language"`
	Presence    RoomPresence `json:"presence"`
	Connected   bool         `json:"connected"`
	Recording   bool         `json:"recording"`
	RoomEnded   bool         `json:"roomEnded"`
	Transcripts int          `json:"transcripts"`
}
