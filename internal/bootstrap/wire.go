package bootstrap

import (
	"net/http"

	"github.com/Mide6x/wilberforceDemoFE/internal/api"
	"github.com/Mide6x/wilberforceDemoFE/internal/audio"
	"github.com/Mide6x/wilberforceDemoFE/internal/capture"
	"github.com/Mide6x/wilberforceDemoFE/internal/channel"
	"github.com/Mide6x/wilberforceDemoFE/internal/config"
	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

// Services is the assembled runtime graph.
type Services struct {
	Directory ports.RoomDirectory
	Dialer    ports.ChannelDialer
	Selector  ports.CaptureSelector
	Capture   ports.CaptureConfig
	Config    config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build() (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	selector := capture.NewSelector(
		capture.NewRecognizer(cfg.Recognizer.Command),
		capture.NewAudioChunker(audio.NewMicrophone(cfg.Audio.RecorderCommand)),
	)

	return Services{
		Directory: api.NewClient(cfg.Backend.APIURL, http.DefaultClient),
		Dialer:    channel.NewDialer(cfg.Backend.SocketURL),
		Selector:  selector,
		Capture: ports.CaptureConfig{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			ChunkDuration: cfg.Capture.ChunkDuration,
		},
		Config: cfg,
	}, nil
}
