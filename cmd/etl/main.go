// Command etl runs the full warehouse pipeline: extract the ball-by-ball
// CSV, derive the analytical metrics, and load dimensions, facts, and marts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"ipldw/internal/config"
	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
	"ipldw/internal/extract"
	"ipldw/internal/facts"
	"ipldw/internal/metrics"
	"ipldw/internal/metrics/prompush"
	"ipldw/internal/pipeline"
	"ipldw/internal/transform"
	"ipldw/internal/warehouse"
)

const jobName = "ipl_warehouse"

func main() {
	var (
		csvPath          string
		skipDimensions   bool
		skipFacts        bool
		skipMarts        bool
		failOnUnresolved bool
		metricsBackend   string
		pushgatewayURL   string
		validate         bool
	)

	flag.StringVar(&csvPath, "csv", "data/raw/ipl.csv", "path to the ball-by-ball CSV export")
	flag.BoolVar(&skipDimensions, "skip-dimensions", false, "skip loading dimension tables")
	flag.BoolVar(&skipFacts, "skip-facts", false, "skip loading fact tables")
	flag.BoolVar(&skipMarts, "skip-marts", false, "skip refreshing analytical marts")
	flag.BoolVar(&failOnUnresolved, "fail-on-unresolved", false, "treat unresolved dimension references as fatal")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend to use (pushgateway, none; falls back to METRICS_BACKEND)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	log := newLogger(*verbose)
	cfg := config.Load()

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if config.HasError(issues) {
		log.Error("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Info("configuration is valid")
		return
	}

	setupMetrics(log, metricsBackend, pushgatewayURL, cfg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.WithError(err).Warn("metrics flush failed")
		}
	}()

	ctx := context.Background()
	db, closeDB, err := warehouse.Open(ctx, cfg.DB.DSN(), cfg.Schema, log)
	if err != nil {
		log.WithError(err).Fatal("connect warehouse")
	}
	defer closeDB()

	p := &pipeline.Pipeline{
		Extractor: &extract.Extractor{Path: csvPath, Log: log},
		Transform: transform.Pipeline(),
		Dimensions: &dimensions.Builder{
			Store:     db,
			Log:       log,
			BatchSize: cfg.DimensionBatchSize,
		},
		Facts: pipeline.FactStageFunc(func(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error) {
			resolver, err := dimensions.LoadResolver(ctx, db.Pool, cfg.Schema, log)
			if err != nil {
				return nil, err
			}
			loader := &facts.Loader{
				Store:            db,
				Resolver:         resolver,
				Log:              log,
				BatchSize:        cfg.FactBatchSize,
				FailOnUnresolved: failOnUnresolved,
			}
			return loader.Load(ctx, ds)
		}),
		Marts: db,
		Log:   log,
		Job:   jobName,
	}

	ok := p.Run(ctx, pipeline.Options{
		LoadDimensions: !skipDimensions,
		LoadFacts:      !skipFacts,
		RefreshMarts:   !skipMarts,
	})
	if !ok {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// resolveBackend picks the metrics backend name: the flag wins, then the
// METRICS_BACKEND env var, then metrics stay disabled.
func resolveBackend(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("METRICS_BACKEND"); env != "" {
		return env
	}
	return "none"
}

// setupMetrics decides the metrics backend: flag, then env, then disabled.
func setupMetrics(log *logrus.Logger, backendName, gwURL string, cfg *config.Config) {
	backendName = resolveBackend(backendName)
	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = cfg.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.WithError(err).Warn("metrics backend init failed, metrics disabled")
			return
		}
		log.WithFields(logrus.Fields{"backend": backendName, "url": gwURL}).Info("metrics enabled")
		metrics.SetBackend(b)

	case "none":
		// metrics disabled; nop backend remains

	default:
		log.WithField("backend", backendName).Warn("unknown metrics backend, metrics disabled")
	}
}
