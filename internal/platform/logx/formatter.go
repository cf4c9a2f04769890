package logx

import (
	"fmt"
	"sort"
	"strings"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[37m"
)

const bannerArt = `
            _       _                       _
   ___ _ __| |_ ___| |__        ___ _   _| |__  ___
  / __| '__| __/ __| '_ \ _____/ __| | | | '_ \/ __|
 | (__| |  | |_\__ \ | | |_____\__ \ |_| | |_) \__ \
  \___|_|   \__|___/_| |_|     |___/\__,_|_.__/|___/`

// LogFormatter gestiona el formato de las piezas que no pasan por zerolog
type LogFormatter struct {
	colorEnabled bool
}

// NewLogFormatter crea un nuevo formatter
func NewLogFormatter(colorEnabled bool) *LogFormatter {
	return &LogFormatter{colorEnabled: colorEnabled}
}

// Banner devuelve el arte de cabecera con la versión
func (f *LogFormatter) Banner(version string) string {
	art := f.colored(colorBold+colorCyan, bannerArt)
	tag := f.colored(colorDim+colorGray, fmt.Sprintf("  certificate transparency subdomain search %s", version))
	return art + "\n" + tag + "\n"
}

// FormatSummary formatea un resumen de ejecución con claves ordenadas
func (f *LogFormatter) FormatSummary(title string, stats map[string]interface{}) string {
	sep := f.colored(colorGreen, "─")
	line := strings.Repeat(sep, 40)

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "  %s\n", f.colored(colorBold+colorGreen, title))
	fmt.Fprintf(&b, "%s\n", line)
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", f.colored(colorCyan, key), stats[key])
	}
	return b.String()
}

// colored aplica color a un string si está habilitado
func (f *LogFormatter) colored(codes, text string) string {
	if !f.colorEnabled {
		return text
	}
	return codes + text + colorReset
}
