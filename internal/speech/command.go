package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// CommandEngine synthesizes speech by shelling out to a TTS command
// (espeak, say, ...). Capture is not supported; the recognizer degrades to
// a forced-off toggle on such platforms.
type CommandEngine struct {
	argv   []string
	logger *logrus.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandEngine parses command as an argv prefix; the text to speak is
// appended as the final argument. An empty command picks a platform
// default.
func NewCommandEngine(command string, logger *logrus.Logger) *CommandEngine {
	if command == "" {
		if runtime.GOOS == "darwin" {
			command = "say"
		} else {
			command = "espeak"
		}
	}
	return &CommandEngine{argv: strings.Fields(command), logger: logger}
}

func (e *CommandEngine) StartCapture(context.Context) (<-chan Transcript, error) {
	return nil, ErrCaptureUnsupported
}

func (e *CommandEngine) StopCapture() {}

// Speak runs the TTS command and blocks until playback completes or ctx is
// cancelled.
func (e *CommandEngine) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), e.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, e.argv[0], args...)

	e.mu.Lock()
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Run()

	e.mu.Lock()
	if e.cmd == cmd {
		e.cmd = nil
	}
	e.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run %s: %w", e.argv[0], err)
	}
	return nil
}

// CancelSpeech kills any playing utterance.
func (e *CommandEngine) CancelSpeech() {
	e.mu.Lock()
	cmd := e.cmd
	e.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			e.logger.Debugf("Cancel speech: %v", err)
		}
	}
}
