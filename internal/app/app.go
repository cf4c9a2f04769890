package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"crtsh-subs/internal/certs"
	"crtsh-subs/internal/out"
	"crtsh-subs/internal/pipeline"
	"crtsh-subs/internal/platform/config"
	apperrors "crtsh-subs/internal/platform/errors"
	"crtsh-subs/internal/platform/logx"
	"crtsh-subs/internal/platform/netutil"
	"crtsh-subs/internal/sources"
)

// Version se muestra en el banner
const Version = "v1.0.0"

// searcher es la parte de sources.CRTSHClient que usa Run
type searcher interface {
	Search(ctx context.Context, q config.Query) []certs.Record
}

// Run ejecuta una búsqueda completa: banner, petición a crt.sh, normalización
// y salida. stdout solo recibe hostnames; todo lo demás va al logger.
// Sin resultados devuelve un EmptyResultError tras emitir el diagnóstico.
func Run(ctx context.Context, cfg *config.Config, stdout io.Writer, log *logx.Logger) error {
	client, err := sources.NewCRTSH(cfg, log)
	if err != nil {
		return err
	}
	return run(ctx, cfg, client, stdout, log)
}

func run(ctx context.Context, cfg *config.Config, client searcher, stdout io.Writer, log *logx.Logger) error {
	start := time.Now()
	log.Banner(Version)

	if cfg.Query.Mode == config.ModeDomain && netutil.IsPublicSuffix(cfg.Query.Value) {
		log.Warn("domain is a public suffix, crt.sh will likely time out", logx.Fields{"domain": cfg.Query.Value})
	}

	records := search(ctx, client, cfg.Query, log)
	report := pipeline.Run(certs.AllCandidates(records), pipeline.DefaultSteps())

	if len(report.Hostnames) == 0 {
		log.Warnf("No results found for %s", cfg.Query)
		return apperrors.NewEmptyResultError(cfg.Query.String())
	}

	w, err := out.Open(cfg.Output, stdout)
	if err != nil {
		return err
	}
	if err := w.WriteAll(report.Hostnames); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if w.Path() != "" {
		log.Infof("Found %d results", w.Count())
		log.Infof("Results saved to %s", w.Path())
	}

	if log.Level() >= logx.LevelDebug {
		fmt.Fprint(log.Writer(), summary(log, cfg.Query, len(records), report, time.Since(start)))
	}
	return nil
}

// search lanza la petición y, en paralelo, el spinner de progreso. Ambos
// comparten el contexto: si se cancela la ejecución, los dos terminan.
func search(ctx context.Context, client searcher, q config.Query, log *logx.Logger) []certs.Record {
	spinner := log.NewSpinner(fmt.Sprintf("querying crt.sh for %s", q))
	done := make(chan struct{})

	var records []certs.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		records = client.Search(gctx, q)
		return nil
	})
	g.Go(func() error {
		spinner.Start()
		defer spinner.Stop()
		select {
		case <-done:
		case <-gctx.Done():
		}
		return nil
	})
	_ = g.Wait()
	return records
}

func summary(log *logx.Logger, q config.Query, certificates int, report pipeline.Report, elapsed time.Duration) string {
	stats := map[string]interface{}{
		"query":        q.String(),
		"certificates": certificates,
		"candidates":   report.Input,
		"hostnames":    len(report.Hostnames),
		"duplicates":   report.Duplicates,
		"registrables": len(netutil.RegistrableDomains(report.Hostnames)),
		"duration":     logx.FormatDuration(elapsed),
	}
	for _, step := range report.Steps {
		if step.Dropped > 0 {
			stats["dropped "+step.Name] = step.Dropped
		}
	}
	return log.Formatter().FormatSummary("crt.sh search", stats)
}
