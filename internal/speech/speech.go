// Package speech speaks words through an external text-to-speech program.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

const DefaultCommand = "espeak-ng"

var ErrNotInstalled = errors.New("speech: synthesizer not installed")

// Synthesizer speaks text without blocking. With interrupt set, anything
// still being spoken is cut off first.
type Synthesizer interface {
	Speak(text string, interrupt bool) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Speak(string, bool) error { return nil }

// Command runs one process per utterance with the text as the last
// argument.
type Command struct {
	path string
	args []string
	log  *slog.Logger

	mu      sync.Mutex
	running map[*exec.Cmd]context.CancelFunc
}

// NewCommand parses a command line such as "espeak-ng -s 140" and resolves
// the program on PATH.
func NewCommand(line string, log *slog.Logger) (*Command, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, fields[0])
	}
	return &Command{
		path:    path,
		args:    fields[1:],
		log:     log,
		running: make(map[*exec.Cmd]context.CancelFunc),
	}, nil
}

func (c *Command) Speak(text string, interrupt bool) error {
	if interrupt {
		c.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	args := append(append([]string(nil), c.args...), text)
	cmd := exec.CommandContext(ctx, c.path, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("speech: start: %w", err)
	}

	c.mu.Lock()
	c.running[cmd] = cancel
	c.mu.Unlock()

	go func() {
		err := cmd.Wait()
		c.mu.Lock()
		delete(c.running, cmd)
		c.mu.Unlock()
		cancel()
		if err != nil && ctx.Err() == nil {
			c.log.Warn("speech process failed", "text", text, "err", err)
		}
	}()
	return nil
}

// Stop kills every utterance in flight.
func (c *Command) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cancel := range c.running {
		cancel()
	}
}

// Speaking reports how many utterances are still running.
func (c *Command) Speaking() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.running)
}
