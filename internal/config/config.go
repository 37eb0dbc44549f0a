package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the client.
type Config struct {
	Backend    BackendConfig
	Audio      AudioConfig
	Capture    CaptureConfig
	Recognizer RecognizerConfig
}

type BackendConfig struct {
	APIURL    string
	SocketURL string
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type CaptureConfig struct {
	ChunkDuration time.Duration
}

type RecognizerConfig struct {
	Command string
}

// Load resolves configuration from environment variables and sensible defaults.
func Load() (Config, error) {
	apiURL := envOrDefault("WILBERFORCE_API_URL", "https://wilberforcedemobe.onrender.com")

	cfg := Config{
		Backend: BackendConfig{
			APIURL:    apiURL,
			SocketURL: envOrDefault("WILBERFORCE_SOCKET_URL", apiURL),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("WILBERFORCE_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("WILBERFORCE_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("WILBERFORCE_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("WILBERFORCE_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("WILBERFORCE_CHANNELS", 1),
		},
		Capture: CaptureConfig{
			ChunkDuration: time.Duration(envOrDefaultInt("WILBERFORCE_CHUNK_DURATION_MS", 1000)) * time.Millisecond,
		},
		Recognizer: RecognizerConfig{
			Command: envOrDefault("WILBERFORCE_RECOGNIZER_COMMAND", "speech-recognizer"),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Capture.ChunkDuration <= 0 {
		cfg.Capture.ChunkDuration = time.Second
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
