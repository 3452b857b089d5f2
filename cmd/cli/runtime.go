package cli

import (
	"context"
	"io"

	appservice "github.com/turtacn/claimctl/internal/application/service"
	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/internal/infrastructure/credentials"
	"github.com/turtacn/claimctl/internal/infrastructure/firebase"
	"github.com/turtacn/claimctl/internal/infrastructure/monitoring"
	"github.com/turtacn/claimctl/pkg/logger"
)

// serviceFactory builds the claim service for one invocation.
type serviceFactory func(ctx context.Context, rt *runtime) (appservice.ClaimAppService, error)

// runtime is everything a command needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	logger  logger.Logger
	tracing *monitoring.TracingManager
	metrics *monitoring.Metrics
	printer *Printer
}

// newRuntime builds the per-run components. Logs go to logOut, never to the printer's stdout.
func newRuntime(ctx context.Context, cfg *config.Config, printer *Printer, logOut io.Writer) (*runtime, error) {
	log, err := monitoring.NewZapLogger(&cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize tracing", err)
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		logger:  log,
		tracing: tracing,
		metrics: monitoring.NewMetrics(),
		printer: printer,
	}, nil
}

// close flushes metrics and spans and syncs the logger. Failures are logged, never returned:
// the command's own result decides the exit code.
func (rt *runtime) close(ctx context.Context) {
	if path := rt.cfg.Metrics.TextfilePath; path != "" {
		if err := rt.metrics.WriteTextfile(path); err != nil {
			rt.logger.Warn(ctx, "Failed to write metrics textfile", logger.String("path", path), logger.String("error", err.Error()))
		}
	}
	_ = rt.tracing.Shutdown(ctx)
	_ = rt.logger.Sync()
}

// defaultServiceFactory wires the configured credential loader and the Firebase connector.
func defaultServiceFactory(ctx context.Context, rt *runtime) (appservice.ClaimAppService, error) {
	loader, err := credentials.NewLoader(&rt.cfg.Credential, rt.logger)
	if err != nil {
		return nil, err
	}
	connector := firebase.NewConnector(rt.cfg.Firebase, rt.logger)

	return appservice.NewClaimAppService(loader, connector, rt.metrics, rt.tracing, rt.logger), nil
}
