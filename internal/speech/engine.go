// Package speech holds the voice I/O capability interface and the
// platform-independent recognition and synthesis logic built on it.
package speech

import (
	"context"
	"errors"
)

// ErrCaptureUnsupported is returned by engines without microphone capture.
var ErrCaptureUnsupported = errors.New("speech: capture not supported by this engine")

// Transcript is one recognition result. Final segments are committed to
// the compose text; interim ones are shown transiently.
type Transcript struct {
	Text  string
	Final bool
}

// Engine is the platform voice capability. Speak blocks until the chunk's
// playback completes or ctx is cancelled; CancelSpeech interrupts any
// playing utterance immediately.
type Engine interface {
	StartCapture(ctx context.Context) (<-chan Transcript, error)
	StopCapture()
	Speak(ctx context.Context, text string) error
	CancelSpeech()
}
