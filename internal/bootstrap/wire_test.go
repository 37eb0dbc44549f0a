package bootstrap

import (
	"testing"
	"time"
)

func TestBuildSuccess(t *testing.T) {
	t.Setenv("WILBERFORCE_API_URL", "https://example.com")

	services, err := Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Directory == nil || services.Dialer == nil || services.Selector == nil {
		t.Fatalf("incomplete graph: %+v", services)
	}
	if services.Capture.Audio.SampleRate != 16000 || services.Capture.Audio.Channels != 1 {
		t.Fatalf("unexpected capture audio config: %+v", services.Capture.Audio)
	}
	if services.Capture.ChunkDuration != time.Second {
		t.Fatalf("unexpected chunk duration: %s", services.Capture.ChunkDuration)
	}
}
