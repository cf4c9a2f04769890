package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"crtsh-subs/internal/app"
	"crtsh-subs/internal/platform/config"
	apperrors "crtsh-subs/internal/platform/errors"
	"crtsh-subs/internal/platform/logx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run devuelve el código de salida. stdout solo recibe hostnames; ayuda,
// errores y diagnósticos van a stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.ParseArgs(args)
	if errors.Is(err, config.ErrHelp) {
		config.Usage(stderr)
		return 0
	}
	if err != nil {
		reportError(logx.New(stderr, logx.Options{}), err)
		if apperrors.IsArgument(err) {
			config.Usage(stderr)
		}
		return 1
	}

	log := logx.New(stderr, logx.Options{
		Verbosity: cfg.Verbosity,
		Silent:    cfg.Silent,
		NoColor:   cfg.NoColor,
	})

	if err := app.Run(ctx, cfg, stdout, log); err != nil {
		// El diagnóstico de "sin resultados" ya lo emitió app.Run (o se
		// suprimió por --silent).
		if !apperrors.IsEmptyResult(err) {
			reportError(log, err)
		}
		return 1
	}
	return 0
}

// reportError escribe el error como una línea estructurada: el mensaje base
// y, como campos, su tipo, su contexto y la sugerencia si la hay.
func reportError(log *logx.Logger, err error) {
	msg := err.Error()
	var withHint *apperrors.ErrorWithSuggestion
	if errors.As(err, &withHint) {
		msg = withHint.Err.Error()
	}

	fields := logx.Fields{}
	if kind := errorKind(err); kind != "" {
		fields["kind"] = kind
	}
	for k, v := range apperrors.GetContext(err) {
		fields[k] = v
	}
	if hint := apperrors.GetSuggestion(err); hint != "" {
		fields["hint"] = hint
	}
	log.Error(msg, fields)
}

func errorKind(err error) string {
	switch {
	case apperrors.IsArgument(err):
		return "argument"
	case apperrors.IsConfiguration(err):
		return "configuration"
	case apperrors.IsFilesystem(err):
		return "filesystem"
	case apperrors.IsNetwork(err):
		return "network"
	default:
		return ""
	}
}
