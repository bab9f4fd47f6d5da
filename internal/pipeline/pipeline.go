// Package pipeline sequences the warehouse run: extract, transform, and the
// three optional load stages (dimensions, facts, marts).
//
// The orchestrator converts any stage failure into a boolean result rather
// than propagating it: a batch binary's caller cares whether the run
// succeeded, and the details are in the log. Extract and transform always
// run; the load stages can each be skipped independently.
package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
	"ipldw/internal/facts"
	"ipldw/internal/metrics"
	"ipldw/internal/transform"
	"ipldw/internal/warehouse"
)

// Options selects which load stages run.
type Options struct {
	LoadDimensions bool
	LoadFacts      bool
	RefreshMarts   bool
}

// Extractor produces the raw dataset.
type Extractor interface {
	Extract() (*dataset.Dataset, error)
}

// DimensionStage loads the dimension tables.
type DimensionStage interface {
	Build(ctx context.Context, ds *dataset.Dataset) (*dimensions.Keys, error)
}

// FactStage loads the fact tables.
type FactStage interface {
	Load(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error)
}

// FactStageFunc adapts a function to FactStage.
type FactStageFunc func(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error)

func (f FactStageFunc) Load(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error) {
	return f(ctx, ds)
}

// MartStage refreshes the analytical marts.
type MartStage interface {
	RefreshMarts(ctx context.Context) []warehouse.Outcome
}

// Pipeline wires the stages together. Job names the run for metrics.
type Pipeline struct {
	Extractor  Extractor
	Transform  transform.Chain
	Dimensions DimensionStage
	Facts      FactStage
	Marts      MartStage
	Log        *logrus.Logger
	Job        string
}

// Run executes the pipeline. Any stage error is logged with context and
// converted into a false return; Run never panics through.
func (p *Pipeline) Run(ctx context.Context, opts Options) bool {
	start := time.Now()
	p.Log.WithField("job", p.Job).Info("warehouse pipeline starting")

	var ds *dataset.Dataset
	err := p.stage("extract", func() error {
		var err error
		ds, err = p.Extractor.Extract()
		if err == nil {
			metrics.RecordRows(p.Job, "extracted", int64(ds.Len()))
		}
		return err
	})
	if err != nil {
		return p.failed("extract", err)
	}

	err = p.stage("transform", func() error {
		if err := p.Transform.Apply(ds); err != nil {
			return err
		}
		metrics.RecordRows(p.Job, "transformed", int64(ds.Len()))
		return nil
	})
	if err != nil {
		return p.failed("transform", err)
	}

	if opts.LoadDimensions {
		err = p.stage("dimensions", func() error {
			_, err := p.Dimensions.Build(ctx, ds)
			return err
		})
		if err != nil {
			return p.failed("dimensions", err)
		}
	} else {
		p.Log.Info("skipping dimensions")
	}

	if opts.LoadFacts {
		err = p.stage("facts", func() error {
			report, err := p.Facts.Load(ctx, ds)
			if report != nil {
				metrics.RecordRows(p.Job, "unresolved_refs", int64(report.Total()))
			}
			return err
		})
		if err != nil {
			return p.failed("facts", err)
		}
	} else {
		p.Log.Info("skipping facts")
	}

	if opts.RefreshMarts {
		err = p.stage("marts", func() error {
			outcomes := p.Marts.RefreshMarts(ctx)
			if failed := warehouse.Failed(outcomes); len(failed) > 0 {
				p.Log.WithField("failed", len(failed)).Warn("some marts did not refresh")
			}
			return nil
		})
		if err != nil {
			return p.failed("marts", err)
		}
	} else {
		p.Log.Info("skipping marts")
	}

	p.Log.WithFields(logrus.Fields{
		"rows":    ds.Len(),
		"elapsed": time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("warehouse pipeline completed")
	return true
}

// stage runs one named stage with timing, structured logging, and metrics.
func (p *Pipeline) stage(name string, fn func() error) (err error) {
	log := p.Log.WithField("stage", name)
	log.Info("stage starting")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = &panicError{stage: name, value: r}
		}
		metrics.RecordStage(p.Job, name, err, time.Since(start))
		if err == nil {
			log.WithField("elapsed", time.Since(start).Truncate(time.Millisecond).String()).Info("stage completed")
		}
	}()

	return fn()
}

func (p *Pipeline) failed(stage string, err error) bool {
	p.Log.WithField("stage", stage).WithError(err).Error("pipeline failed")
	return false
}
