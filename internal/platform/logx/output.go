package logx

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputConfig describe el stream de diagnóstico
type OutputConfig struct {
	IsTTY   bool
	NoColor bool
}

// DetectOutput detecta características del terminal
func DetectOutput(w io.Writer) OutputConfig {
	isTTY := IsTerminal(w)
	return OutputConfig{
		IsTTY:   isTTY,
		NoColor: !isTTY || os.Getenv("NO_COLOR") != "",
	}
}

// IsTerminal verifica si el writer está conectado a un terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
