// Command validatedw runs the advisory data-quality checks against a loaded
// warehouse and exits non-zero when any check cannot execute.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"ipldw/internal/config"
	"ipldw/internal/quality"
	"ipldw/internal/warehouse"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if issues := config.Validate(cfg); config.HasError(issues) {
		for _, iss := range issues {
			log.Error(iss.Error())
		}
		os.Exit(1)
	}

	ctx := context.Background()
	db, closeDB, err := warehouse.Open(ctx, cfg.DB.DSN(), cfg.Schema, log)
	if err != nil {
		log.WithError(err).Fatal("connect warehouse")
	}
	defer closeDB()

	v := &quality.Validator{Q: db.Pool, Schema: cfg.Schema, Log: log}
	if _, pass := v.Run(ctx); !pass {
		os.Exit(1)
	}
}
