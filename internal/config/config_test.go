package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WILBERFORCE_API_URL", "")
	t.Setenv("WILBERFORCE_SOCKET_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.APIURL != "https://wilberforcedemobe.onrender.com" {
		t.Fatalf("unexpected api url: %q", cfg.Backend.APIURL)
	}
	if cfg.Backend.SocketURL != cfg.Backend.APIURL {
		t.Fatalf("socket url must default to the api url, got %q", cfg.Backend.SocketURL)
	}
	if cfg.Audio.RecorderCommand != "ffmpeg" || cfg.Audio.InputFormat != "pulse" || cfg.Audio.InputDevice != "default" {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected sample/channels: %+v", cfg.Audio)
	}
	if cfg.Capture.ChunkDuration != time.Second {
		t.Fatalf("unexpected chunk duration: %s", cfg.Capture.ChunkDuration)
	}
	if cfg.Recognizer.Command != "speech-recognizer" {
		t.Fatalf("unexpected recognizer command: %q", cfg.Recognizer.Command)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	t.Setenv("WILBERFORCE_API_URL", "https://example.com")
	t.Setenv("WILBERFORCE_SOCKET_URL", "wss://sockets.example.com")
	t.Setenv("WILBERFORCE_FFMPEG_COMMAND", "my-ffmpeg")
	t.Setenv("WILBERFORCE_AUDIO_INPUT_FORMAT", "alsa")
	t.Setenv("WILBERFORCE_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("WILBERFORCE_SAMPLE_RATE", "22050")
	t.Setenv("WILBERFORCE_CHANNELS", "2")
	t.Setenv("WILBERFORCE_CHUNK_DURATION_MS", "250")
	t.Setenv("WILBERFORCE_RECOGNIZER_COMMAND", "my-recognizer")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.APIURL != "https://example.com" || cfg.Backend.SocketURL != "wss://sockets.example.com" {
		t.Fatalf("unexpected backend config: %+v", cfg.Backend)
	}
	if cfg.Audio.RecorderCommand != "my-ffmpeg" || cfg.Audio.InputFormat != "alsa" || cfg.Audio.InputDevice != "mic0" {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Audio.SampleRate != 22050 || cfg.Audio.Channels != 2 {
		t.Fatalf("unexpected sample/channels: %+v", cfg.Audio)
	}
	if cfg.Capture.ChunkDuration != 250*time.Millisecond {
		t.Fatalf("unexpected chunk duration: %s", cfg.Capture.ChunkDuration)
	}
	if cfg.Recognizer.Command != "my-recognizer" {
		t.Fatalf("unexpected recognizer command: %q", cfg.Recognizer.Command)
	}
}

func TestLoadInvalidNumericValuesFallback(t *testing.T) {
	t.Setenv("WILBERFORCE_SAMPLE_RATE", "bad")
	t.Setenv("WILBERFORCE_CHANNELS", "-1")
	t.Setenv("WILBERFORCE_CHUNK_DURATION_MS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Fatalf("expected default channels, got %d", cfg.Audio.Channels)
	}
	if cfg.Capture.ChunkDuration != time.Second {
		t.Fatalf("expected default chunk duration, got %s", cfg.Capture.ChunkDuration)
	}
}
