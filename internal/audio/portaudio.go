package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"
)

// DeviceCapture implements CaptureStage over the default system
// microphone. The device delivers floating-point samples; each frame
// is converted to mono 16-bit PCM before handoff.
type DeviceCapture struct {
	sampleRate int
	frameSize  int
	logger     zerolog.Logger

	mu        sync.Mutex
	stream    *portaudio.Stream
	buffer    []float32
	capturing bool
	done      chan struct{}

	meter *LevelMeter
}

// NewDeviceCapture creates a capture stage for the default input device
func NewDeviceCapture(sampleRate, frameSize int, logger zerolog.Logger) *DeviceCapture {
	return &DeviceCapture{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		logger:     logger,
		meter:      NewLevelMeter(),
	}
}

// Start acquires the microphone and begins delivering frames
func (c *DeviceCapture) Start(onFrame FrameFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing {
		return fmt.Errorf("capture already running")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to get default input device: %w", err)
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(c.sampleRate)
	params.FramesPerBuffer = c.frameSize

	c.buffer = make([]float32, c.frameSize)
	stream, err := portaudio.OpenStream(params, c.buffer)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	c.stream = stream
	c.capturing = true
	c.done = make(chan struct{})

	go c.readLoop(onFrame, c.done)

	c.logger.Info().
		Int("sample_rate", c.sampleRate).
		Int("frame_size", c.frameSize).
		Msg("Microphone capture started")
	return nil
}

func (c *DeviceCapture) readLoop(onFrame FrameFunc, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		c.mu.Lock()
		stream := c.stream
		c.mu.Unlock()
		if stream == nil {
			return
		}

		if err := stream.Read(); err != nil {
			select {
			case <-done:
				// Read failures during teardown are expected
			default:
				c.logger.Warn().Err(err).Msg("Microphone read error")
			}
			return
		}

		frame := Float32ToInt16(c.buffer)
		c.meter.Observe(frame)
		onFrame(frame)
	}
}

// Stop releases the device. Safe to call repeatedly.
func (c *DeviceCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing {
		return
	}

	close(c.done)
	if c.stream != nil {
		if err := c.stream.Stop(); err != nil {
			c.logger.Warn().Err(err).Msg("Error stopping input stream")
		}
		if err := c.stream.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("Error closing input stream")
		}
		c.stream = nil
	}
	portaudio.Terminate()

	c.capturing = false
	c.meter.Reset()
	c.logger.Info().Msg("Microphone capture stopped")
}

// Capturing reports whether the device is currently held
func (c *DeviceCapture) Capturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capturing
}

// Level returns the normalized amplitude of the last captured frame
func (c *DeviceCapture) Level() float64 {
	return c.meter.Level()
}
