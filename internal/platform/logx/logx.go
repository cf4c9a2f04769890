package logx

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level representa el nivel de logging
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Fields representa pares clave-valor para structured logging
type Fields map[string]any

// Options configura un Logger al crearlo
type Options struct {
	Verbosity int
	Silent    bool
	NoColor   bool
}

// Logger escribe diagnósticos en el stream de diagnóstico (stderr por defecto).
// Nunca escribe en stdout: stdout queda reservado para los resultados.
type Logger struct {
	mu        sync.RWMutex
	logger    zerolog.Logger
	w         io.Writer
	formatter *LogFormatter
	level     Level
	silent    bool
	outputCfg OutputConfig
}

// New crea un logger sobre w. En modo silencioso solo se emiten errores.
func New(w io.Writer, opts Options) *Logger {
	if w == nil {
		w = os.Stderr
	}
	out := DetectOutput(w)
	if opts.NoColor {
		out.NoColor = true
	}

	l := &Logger{
		w:         w,
		formatter: NewLogFormatter(!out.NoColor),
		silent:    opts.Silent,
		outputCfg: out,
	}
	l.logger = newZerolog(w, out.NoColor)

	if opts.Silent {
		l.SetLevel(LevelError)
	} else {
		l.SetVerbosity(opts.Verbosity)
	}
	return l
}

func newZerolog(w io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}).With().Timestamp().Logger()
}

// VerbosityLevel traduce la verbosidad numérica: 0=info, 1=info, 2=debug, 3=trace
func VerbosityLevel(v int) Level {
	switch {
	case v <= 1:
		return LevelInfo
	case v == 2:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// SetVerbosity configura el nivel a partir de la verbosidad numérica
func (l *Logger) SetVerbosity(v int) {
	l.SetLevel(VerbosityLevel(v))
}

// SetLevel cambia el nivel mínimo de logging
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
	l.logger = l.logger.Level(zerologLevel(lvl))
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Level retorna el nivel actual de logging
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Silent indica si el logger suprime todo salvo los errores
func (l *Logger) Silent() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.silent
}

// Writer retorna el stream de diagnóstico
func (l *Logger) Writer() io.Writer {
	return l.w
}

// Formatter retorna el formatter del logger
func (l *Logger) Formatter() *LogFormatter {
	return l.formatter
}

// Output retorna las características detectadas del stream
func (l *Logger) Output() OutputConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.outputCfg
}

func (l *Logger) zl() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *Logger) Warnf(format string, a ...interface{}) {
	zl := l.zl()
	zl.Warn().Msgf(format, a...)
}

func (l *Logger) Infof(format string, a ...interface{}) {
	zl := l.zl()
	zl.Info().Msgf(format, a...)
}

// Funciones con fields estructurados
func (l *Logger) Error(msg string, fields Fields) {
	zl := l.zl()
	withFields(zl.Error(), fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields Fields) {
	zl := l.zl()
	withFields(zl.Warn(), fields).Msg(msg)
}

func (l *Logger) Debug(msg string, fields Fields) {
	zl := l.zl()
	withFields(zl.Debug(), fields).Msg(msg)
}

func (l *Logger) Trace(msg string, fields Fields) {
	zl := l.zl()
	withFields(zl.Trace(), fields).Msg(msg)
}

func withFields(event *zerolog.Event, fields Fields) *zerolog.Event {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

// Banner escribe la cabecera de la herramienta salvo en modo silencioso
func (l *Logger) Banner(version string) {
	if l.Silent() {
		return
	}
	fmt.Fprintln(l.w, l.formatter.Banner(version))
}
