package domain

import "encoding/json"

// Channel event names. These are the realtime wire contract with the
// backend; both directions use the same envelope shape.
const (
	EventJoinRoom           = "join-room"
	EventLeaveRoom          = "leave-room"
	EventStartTranscription = "start-transcription"
	EventStopTranscription  = "stop-transcription"
	EventTranscriptText     = "transcript-text"
	EventAudioChunk         = "audio-chunk"
	EventRoomEnded          = "room-ended"

	EventRoomJoined    = "room-joined"
	EventNewTranscript = "new-transcript"
	EventError         = "error"
)

// ChannelEvent is one inbound realtime event with its undecoded payload.
type ChannelEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoomPayload is sent immediately after the channel opens.
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Language string `json:"language"`
}

// RoomPayload carries events scoped to a room code only.
type RoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// TranscriptTextPayload carries finalized recognizer text to the backend.
type TranscriptTextPayload struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

// AudioChunkPayload carries one captured audio slice. AudioData is
// base64-encoded on the wire by encoding/json.
type AudioChunkPayload struct {
	RoomCode  string `json:"roomCode"`
	AudioData []byte `json:"audioData"`
}

// RoomJoinedPayload is the backend's answer to a join request.
type RoomJoinedPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorPayload is a backend-reported error, surfaced verbatim.
type ErrorPayload struct {
	Message string `json:"message"`
}
