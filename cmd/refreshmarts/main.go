// Command refreshmarts refreshes the analytical materialized views without
// rerunning the pipeline.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"ipldw/internal/config"
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

	outcomes := db.RefreshMarts(ctx)
	if failed := warehouse.Failed(outcomes); len(failed) > 0 {
		log.WithField("failed", len(failed)).Error("some marts did not refresh")
		os.Exit(1)
	}
	log.WithField("marts", len(outcomes)).Info("all marts refreshed")
}
