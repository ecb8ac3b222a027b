package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Terminal color codes.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// Spinner shows activity while a backend call is in flight.
type Spinner struct {
	frames   []string
	current  int
	prefix   string
	mu       sync.Mutex
	writer   io.Writer
	active   bool
	colorize bool
	done     chan struct{}
}

// NewSpinner returns a spinner with the given prefix text.
func NewSpinner(prefix string) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		prefix:   prefix,
		writer:   os.Stdout,
		colorize: isTerminal(),
		done:     make(chan struct{}),
	}
}

// Start begins animating. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				if !s.active {
					s.mu.Unlock()
					return
				}
				s.render()
				s.current = (s.current + 1) % len(s.frames)
				s.mu.Unlock()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", 80)+"\r")
}

// Succeed stops the spinner and prints a success line.
func (s *Spinner) Succeed(message string) {
	s.Stop()
	Success(message)
}

func (s *Spinner) render() {
	frame := s.frames[s.current]
	if s.colorize {
		frame = ColorCyan + frame + ColorReset
	}
	fmt.Fprintf(s.writer, "\r%s %s", frame, s.prefix)
}

// Colorize wraps text in a color code when stdout is a terminal.
func Colorize(text, color string) string {
	if !isTerminal() {
		return text
	}
	return color + text + ColorReset
}

// Success prints a checked status line.
func Success(message string) {
	if isTerminal() {
		fmt.Printf("%s✓%s %s\n", ColorGreen, ColorReset, message)
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// Warning prints a warning status line.
func Warning(message string) {
	if isTerminal() {
		fmt.Printf("%s⚠%s %s\n", ColorYellow, ColorReset, message)
	} else {
		fmt.Printf("⚠ %s\n", message)
	}
}

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
