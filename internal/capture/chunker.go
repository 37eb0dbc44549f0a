package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

// AudioChunker is the fallback strategy: it acquires the microphone and
// emits fixed-duration PCM slices as they fill, a streaming contract
// rather than a single shot.
type AudioChunker struct {
	mic ports.AudioCapture
}

func NewAudioChunker(mic ports.AudioCapture) *AudioChunker {
	return &AudioChunker{mic: mic}
}

func (c *AudioChunker) Name() string { return "audio-chunks" }

// Available always reports true; microphone problems surface as a start
// error instead.
func (c *AudioChunker) Available() bool { return true }

func (c *AudioChunker) Start(ctx context.Context, cfg ports.CaptureConfig) (ports.CaptureSession, error) {
	audioCfg := cfg.Audio
	if audioCfg.SampleRate <= 0 {
		audioCfg.SampleRate = 16000
	}
	if audioCfg.Channels <= 0 {
		audioCfg.Channels = 1
	}
	chunkDuration := cfg.ChunkDuration
	if chunkDuration <= 0 {
		chunkDuration = time.Second
	}

	mic, err := c.mic.Start(ctx, audioCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to access microphone: %w", err)
	}

	// s16le bytes per chunk at the configured rate.
	chunkBytes := int(float64(audioCfg.SampleRate*audioCfg.Channels*2) * chunkDuration.Seconds())
	if chunkBytes <= 0 {
		chunkBytes = 32000
	}

	session := &chunkerSession{
		mic:     mic,
		results: make(chan ports.CaptureResult, 16),
		done:    make(chan struct{}),
	}

	go session.pump(chunkBytes)

	return session, nil
}

type chunkerSession struct {
	mic     ports.AudioSession
	results chan ports.CaptureResult
	done    chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func (s *chunkerSession) Results() <-chan ports.CaptureResult {
	return s.results
}

// Stop releases the audio device and waits for the pump to drain.
func (s *chunkerSession) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.mic.Stop()
		<-s.done
	})
	return s.stopErr
}

func (s *chunkerSession) pump(chunkBytes int) {
	defer close(s.done)
	defer close(s.results)

	buf := make([]byte, chunkBytes)
	filled := 0
	for {
		n, err := s.mic.Read(buf[filled:])
		filled += n
		if filled == chunkBytes {
			s.results <- ports.CaptureResult{Audio: append([]byte(nil), buf[:filled]...)}
			filled = 0
		}
		if err != nil {
			if filled > 0 {
				s.results <- ports.CaptureResult{Audio: append([]byte(nil), buf[:filled]...)}
			}
			if !errors.Is(err, io.EOF) {
				s.results <- ports.CaptureResult{Err: fmt.Errorf("audio capture error: %w", err)}
			}
			return
		}
	}
}
