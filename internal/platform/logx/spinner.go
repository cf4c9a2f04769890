package logx

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// SpinnerFrames son los frames de la animación
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner gestiona un indicador de progreso animado en el stream de diagnóstico.
// Fuera de un TTY, o en modo silencioso, no escribe nada.
type Spinner struct {
	mu          sync.Mutex
	frames      []string
	frameIndex  int
	active      bool
	stopCh      chan struct{}
	stoppedCh   chan struct{}
	writer      io.Writer
	formatter   *LogFormatter
	prefix      string
	enabled     bool
	refreshRate time.Duration
}

// NewSpinner crea un spinner ligado al logger
func (l *Logger) NewSpinner(prefix string) *Spinner {
	return &Spinner{
		frames:      SpinnerFrames,
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
		writer:      l.w,
		formatter:   l.formatter,
		prefix:      prefix,
		enabled:     l.Output().IsTTY && !l.Silent(),
		refreshRate: 100 * time.Millisecond,
	}
}

// Start inicia la animación del spinner
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	if !s.enabled {
		close(s.stoppedCh)
		return
	}

	go func() {
		defer close(s.stoppedCh)

		ticker := time.NewTicker(s.refreshRate)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.formatter.colored(colorBlue, s.frames[s.frameIndex])
				fmt.Fprintf(s.writer, "\r%s %s", frame, s.prefix)
				s.frameIndex = (s.frameIndex + 1) % len(s.frames)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop detiene el spinner y limpia la línea
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	close(s.stopCh)
	<-s.stoppedCh

	if s.enabled {
		s.mu.Lock()
		fmt.Fprint(s.writer, "\r\033[K")
		s.mu.Unlock()
	}
}
