package playback

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"
)

// Speaker renders mono 16-bit PCM on the default output device. The
// device is acquired per clip and released when the clip ends, so the
// output is free between turns.
type Speaker struct {
	sampleRate int
	frameSize  int
	logger     zerolog.Logger
}

// NewSpeaker creates a sink for the default output device.
func NewSpeaker(sampleRate, frameSize int, logger zerolog.Logger) *Speaker {
	return &Speaker{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		logger:     logger,
	}
}

// Play writes pcm to the output device frame by frame, returning when
// the clip has drained or ctx is cancelled.
func (s *Speaker) Play(ctx context.Context, pcm []int16) error {
	if len(pcm) == 0 {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}
	defer portaudio.Terminate()

	device, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return fmt.Errorf("failed to get default output device: %w", err)
	}

	params := portaudio.LowLatencyParameters(nil, device)
	params.Output.Channels = 1
	params.SampleRate = float64(s.sampleRate)
	params.FramesPerBuffer = s.frameSize

	buffer := make([]int16, s.frameSize)
	stream, err := portaudio.OpenStream(params, buffer)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(pcm); off += s.frameSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := off + s.frameSize
		if end > len(pcm) {
			end = len(pcm)
		}
		n := copy(buffer, pcm[off:end])
		for i := n; i < len(buffer); i++ {
			buffer[i] = 0
		}

		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write output frame: %w", err)
		}
	}
	return nil
}
