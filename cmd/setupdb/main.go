// Command setupdb executes the warehouse DDL scripts best-effort and then
// verifies what exists. The DDL itself lives in .sql files; this binary only
// runs them, so re-running against an initialized schema is safe.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ipldw/internal/config"
	"ipldw/internal/warehouse"
)

// defaultScripts are executed in order when no files are given on the
// command line.
var defaultScripts = []string{
	"create_schema.sql",
	"create_dimensions.sql",
	"create_facts.sql",
	"create_marts.sql",
}

func main() {
	var (
		sqlDir string
		reset  bool
	)
	flag.StringVar(&sqlDir, "sql-dir", "sql", "directory holding the DDL scripts")
	flag.BoolVar(&reset, "reset", false, "drop the warehouse schema before setup")
	flag.Parse()

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

	if reset {
		log.WithField("schema", cfg.Schema).Warn("dropping existing schema")
		if err := db.Exec(ctx, "DROP SCHEMA IF EXISTS "+warehouse.Ident(cfg.Schema)+" CASCADE"); err != nil {
			log.WithError(err).Error("drop schema failed")
		}
	}

	files := flag.Args()
	if len(files) == 0 {
		for _, name := range defaultScripts {
			files = append(files, filepath.Join(sqlDir, name))
		}
	}

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			log.WithField("file", path).Warn("file not found, skipping")
			continue
		}
		stmts := warehouse.SplitStatements(string(src))
		succeeded, failed := warehouse.ExecStatements(ctx, db.Pool, log, stmts)
		log.WithFields(logrus.Fields{
			"file":      filepath.Base(path),
			"succeeded": succeeded,
			"failed":    failed,
		}).Info("script completed")
	}

	dims, facts, marts, err := db.ListObjects(ctx)
	if err != nil {
		log.WithError(err).Fatal("setup verification failed")
	}
	log.WithFields(logrus.Fields{
		"dimensions": strings.Join(dims, ", "),
		"facts":      strings.Join(facts, ", "),
		"marts":      strings.Join(marts, ", "),
	}).Info("warehouse objects")

	if len(dims) == 0 && len(facts) == 0 && len(marts) == 0 {
		log.Error("no warehouse objects were created, check the DDL scripts")
		os.Exit(1)
	}
	log.Info("database setup completed")
}
