// Package errors proporciona los tipos de error de crtsh-subs, con contexto y
// sugerencias para el usuario.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorWithSuggestion es un error que incluye una sugerencia para el usuario.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
	Context    map[string]string
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Suggestion != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Suggestion)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n\nContext:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  • %s: %s", k, e.Context[k])
		}
	}
	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WithSuggestion envuelve un error con una sugerencia para el usuario.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
		Context:    make(map[string]string),
	}
}

// WithContext añade contexto adicional a un error.
func WithContext(err error, key, value string) error {
	if err == nil {
		return nil
	}

	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		if suggErr.Context == nil {
			suggErr.Context = make(map[string]string)
		}
		suggErr.Context[key] = value
		return err
	}

	return &ErrorWithSuggestion{
		Err:     err,
		Context: map[string]string{key: value},
	}
}

// ArgumentError representa un problema en la línea de comandos: valor ausente,
// modos de búsqueda en conflicto o ausentes, o un flag desconocido.
type ArgumentError struct {
	Flag   string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Flag == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Flag)
}

// NewArgumentError crea un error de argumentos.
func NewArgumentError(flag, reason string) error {
	return &ArgumentError{Flag: flag, Reason: reason}
}

// NewMissingArgumentError se usa cuando un flag que requiere valor no lo
// recibe, o recibe algo que parece otro flag.
func NewMissingArgumentError(flag string) error {
	return &ArgumentError{Flag: flag, Reason: "missing argument"}
}

// NetworkError representa un fallo de la petición a crt.sh. Nunca llega al
// usuario como error: la búsqueda se resuelve como un resultado vacío.
type NetworkError struct {
	Operation string
	URL       string
	Status    int
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error during %s: status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError crea un error de red con la URL truncada como contexto.
func NewNetworkError(operation, url string, status int, err error) error {
	baseErr := &NetworkError{
		Operation: operation,
		URL:       url,
		Status:    status,
		Err:       err,
	}

	wrapped := WithSuggestion(baseErr, "Check your connection to crt.sh or configure --proxy=http://...")
	wrapped = WithContext(wrapped, "operation", operation)
	if url != "" {
		wrapped = WithContext(wrapped, "url", truncate(url, 100))
	}
	if status != 0 {
		wrapped = WithContext(wrapped, "status", fmt.Sprintf("%d", status))
	}
	return wrapped
}

// EmptyResultError indica que tras el filtrado no quedó ningún hostname.
type EmptyResultError struct {
	Target string
}

func (e *EmptyResultError) Error() string {
	if e.Target == "" {
		return "no results found"
	}
	return fmt.Sprintf("no results found for %s", e.Target)
}

// NewEmptyResultError crea un error de resultado vacío.
func NewEmptyResultError(target string) error {
	return &EmptyResultError{Target: target}
}

// FilesystemError representa un fallo al preparar o escribir el fichero de salida.
type FilesystemError struct {
	Path string
	Op   string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// NewFilesystemError crea un error de sistema de ficheros.
func NewFilesystemError(op, path string, err error) error {
	return WithContext(&FilesystemError{Path: path, Op: op, Err: err}, "path", path)
}

// ConfigurationError representa un error de configuración.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for '%s': %s", e.Field, e.Reason)
}

// NewConfigurationError crea un error mejorado para problemas de configuración.
func NewConfigurationError(field, value, reason, suggestion string) error {
	baseErr := &ConfigurationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "field", field)
	if value != "" {
		err = WithContext(err, "value", value)
	}

	return err
}

// truncate limita una cadena a n caracteres, añadiendo "..." si es necesario.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// GetSuggestion extrae la sugerencia de un error si existe.
func GetSuggestion(err error) string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Suggestion
	}
	return ""
}

// GetContext extrae el contexto de un error si existe.
func GetContext(err error) map[string]string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Context
	}
	return nil
}

// IsArgument verifica si un error proviene de la línea de comandos.
func IsArgument(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

// IsNetwork verifica si un error es de red.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsEmptyResult verifica si un error es por ausencia de resultados.
func IsEmptyResult(err error) bool {
	var emptyErr *EmptyResultError
	return errors.As(err, &emptyErr)
}

// IsFilesystem verifica si un error es de sistema de ficheros.
func IsFilesystem(err error) bool {
	var fsErr *FilesystemError
	return errors.As(err, &fsErr)
}

// IsConfiguration verifica si un error es de configuración.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
