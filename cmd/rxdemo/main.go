// Command rxdemo runs a set of deferred producers through the full gorx
// stack: configuration, logging, tracing, metrics and retry.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/gorx/config"
	"github.com/kbukum/gorx/logger"
	"github.com/kbukum/gorx/observability"
)

const serviceName = "rxdemo"

func main() {
	configFile := flag.String("config", "", "path to config.yml (searched for when empty)")
	envFile := flag.String("env", "", "path to a .env file (searched for when empty)")
	only := flag.String("scenario", "", "run a single scenario by name")
	flag.Parse()

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.Load(serviceName, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rxdemo: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)
	logger.RegisterDefaults(logger.DefaultComponent, serviceName)
	log := logger.Get(serviceName)

	ctx := context.Background()
	shutdown := initTelemetry(ctx, cfg, log)
	defer shutdown()

	metrics, err := observability.NewMetrics(observability.Meter("github.com/kbukum/gorx/cmd/rxdemo"))
	if err != nil {
		log.Error("metrics unavailable", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}

	runner := &runner{log: log, metrics: metrics, retry: cfg.Retry}
	failed := 0
	for _, sc := range scenarios() {
		if *only != "" && sc.name != *only {
			continue
		}
		if !runner.run(ctx, sc) {
			failed++
		}
	}
	if failed > 0 {
		log.Error("scenarios failed", logger.Fields("count", failed))
		shutdown()
		os.Exit(1)
	}
}

// initTelemetry installs the exporters enabled in cfg and returns a
// function flushing them. Exporter failures are logged, not fatal.
func initTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) func() {
	var stops []func(context.Context) error

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, &cfg.Tracing)
		if err != nil {
			log.Warn("tracing disabled", logger.Fields(logger.FieldError, err.Error()))
		} else {
			stops = append(stops, tp.Shutdown)
		}
	}
	if cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, &cfg.Metrics)
		if err != nil {
			log.Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		} else {
			stops = append(stops, mp.Shutdown)
		}
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for _, stop := range stops {
			if err := stop(context.Background()); err != nil {
				log.Warn("telemetry shutdown", logger.Fields(logger.FieldError, err.Error()))
			}
		}
	}
}
