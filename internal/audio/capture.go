package audio

// FrameFunc receives one fixed-size frame of 16-bit mono PCM
type FrameFunc func(pcm []int16)

// CaptureStage acquires the microphone and delivers fixed-size PCM frames.
// Start acquires the OS device (which may prompt for permission and fail);
// Stop releases it. Stop must be idempotent: calling it when already
// stopped is a no-op and never panics.
type CaptureStage interface {
	// Start begins capture, invoking onFrame for every frame until Stop
	Start(onFrame FrameFunc) error

	// Stop releases the device and all processing resources
	Stop()

	// Capturing reports whether the device is currently held
	Capturing() bool

	// Level returns the normalized amplitude of the last captured frame
	Level() float64
}
