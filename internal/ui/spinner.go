package ui

import (
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	pointsFrames = []string{"∙∙∙", "●∙∙", "∙●∙", "∙∙●"}
	pointsFPS    = time.Second / 7
)

// Spinner is an animated indicator drawn on its own line while the model is
// thinking. It is drawn from a goroutine until Stop is called.
type Spinner struct {
	out     io.Writer
	message string
	frames  []string
	fps     time.Duration
	color   color.Color
	done    chan struct{}
	exited  chan struct{}
	once    sync.Once
}

// NewSpinner returns a spinner writing to out with the theme's primary color.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		frames:  pointsFrames,
		fps:     pointsFPS,
		color:   GetTheme().Primary,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go s.run()
}

// Stop halts the animation and waits until the line is cleared. It is safe
// to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.exited
	})
}

func (s *Spinner) run() {
	defer close(s.exited)

	spinnerStyle := lipgloss.NewStyle().Foreground(s.color).Bold(true)
	messageStyle := StyleMuted(GetTheme())

	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-s.done:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			f := s.frames[frame%len(s.frames)]
			fmt.Fprintf(s.out, "\r %s %s", spinnerStyle.Render(f), messageStyle.Render(s.message))
			frame++
		}
	}
}
