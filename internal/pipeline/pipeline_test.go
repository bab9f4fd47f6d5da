package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
	"ipldw/internal/facts"
	"ipldw/internal/transform"
	"ipldw/internal/warehouse"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeExtractor struct {
	ds  *dataset.Dataset
	err error
}

func (f *fakeExtractor) Extract() (*dataset.Dataset, error) { return f.ds, f.err }

type fakeDims struct {
	called bool
	err    error
}

func (f *fakeDims) Build(ctx context.Context, ds *dataset.Dataset) (*dimensions.Keys, error) {
	f.called = true
	return &dimensions.Keys{}, f.err
}

type fakeMarts struct {
	called bool
}

func (f *fakeMarts) RefreshMarts(ctx context.Context) []warehouse.Outcome {
	f.called = true
	return []warehouse.Outcome{{Op: "refresh mart_player_stats"}}
}

// noopStep is a transform step for orchestration tests.
type noopStep struct{ err error }

func (s *noopStep) Name() string                       { return "noop" }
func (s *noopStep) Apply(ds *dataset.Dataset) error    { return s.err }

func smallDataset() *dataset.Dataset {
	ds := dataset.New(nil)
	ds.Rows = []dataset.Row{{MatchID: 1, Innings: 1, BallSequence: 1}}
	return ds
}

func newPipeline(ex Extractor, chain transform.Chain, dims *fakeDims, factErr error, factCalled *bool, marts *fakeMarts) *Pipeline {
	return &Pipeline{
		Extractor:  ex,
		Transform:  chain,
		Dimensions: dims,
		Facts: FactStageFunc(func(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error) {
			*factCalled = true
			return facts.NewUnresolvedReport(), factErr
		}),
		Marts: marts,
		Log:   testLogger(),
		Job:   "test",
	}
}

// TestRun_AllStages verifies the happy path executes every stage.
func TestRun_AllStages(t *testing.T) {
	t.Parallel()

	dims := &fakeDims{}
	marts := &fakeMarts{}
	var factCalled bool
	p := newPipeline(&fakeExtractor{ds: smallDataset()}, transform.Chain{&noopStep{}}, dims, nil, &factCalled, marts)

	ok := p.Run(context.Background(), Options{LoadDimensions: true, LoadFacts: true, RefreshMarts: true})
	if !ok {
		t.Fatalf("Run = false, want success")
	}
	if !dims.called || !factCalled || !marts.called {
		t.Fatalf("stages ran = dims:%v facts:%v marts:%v, want all", dims.called, factCalled, marts.called)
	}
}

// TestRun_SkipFlags verifies each optional stage honors its skip flag
// independently.
func TestRun_SkipFlags(t *testing.T) {
	t.Parallel()

	dims := &fakeDims{}
	marts := &fakeMarts{}
	var factCalled bool
	p := newPipeline(&fakeExtractor{ds: smallDataset()}, transform.Chain{}, dims, nil, &factCalled, marts)

	ok := p.Run(context.Background(), Options{LoadFacts: true})
	if !ok {
		t.Fatalf("Run = false, want success")
	}
	if dims.called {
		t.Fatalf("dimensions ran despite skip")
	}
	if !factCalled {
		t.Fatalf("facts skipped despite flag")
	}
	if marts.called {
		t.Fatalf("marts ran despite skip")
	}
}

// TestRun_ExtractFailureIsBoolean verifies errors convert to a false result
// and downstream stages never run.
func TestRun_ExtractFailureIsBoolean(t *testing.T) {
	t.Parallel()

	dims := &fakeDims{}
	var factCalled bool
	p := newPipeline(&fakeExtractor{err: errors.New("no such file")}, transform.Chain{}, dims, nil, &factCalled, &fakeMarts{})

	if p.Run(context.Background(), Options{LoadDimensions: true, LoadFacts: true}) {
		t.Fatalf("Run = true, want failure")
	}
	if dims.called || factCalled {
		t.Fatalf("downstream stages ran after extract failure")
	}
}

// TestRun_TransformFailureStopsRun verifies a step error fails the run.
func TestRun_TransformFailureStopsRun(t *testing.T) {
	t.Parallel()

	var factCalled bool
	p := newPipeline(&fakeExtractor{ds: smallDataset()},
		transform.Chain{&noopStep{err: errors.New("missing columns")}},
		&fakeDims{}, nil, &factCalled, &fakeMarts{})

	if p.Run(context.Background(), Options{LoadFacts: true}) {
		t.Fatalf("Run = true, want failure")
	}
	if factCalled {
		t.Fatalf("facts ran after transform failure")
	}
}

// TestRun_FactFailureIsBoolean verifies a fact-load error fails the run
// without reaching marts.
func TestRun_FactFailureIsBoolean(t *testing.T) {
	t.Parallel()

	marts := &fakeMarts{}
	var factCalled bool
	p := newPipeline(&fakeExtractor{ds: smallDataset()}, transform.Chain{},
		&fakeDims{}, errors.New("insert failed"), &factCalled, marts)

	if p.Run(context.Background(), Options{LoadFacts: true, RefreshMarts: true}) {
		t.Fatalf("Run = true, want failure")
	}
	if marts.called {
		t.Fatalf("marts ran after fact failure")
	}
}

// TestRun_StagePanicIsBoolean verifies a panicking stage is recovered and
// reported as a failed run.
func TestRun_StagePanicIsBoolean(t *testing.T) {
	t.Parallel()

	var factCalled bool
	p := newPipeline(&fakeExtractor{ds: smallDataset()}, transform.Chain{}, &fakeDims{}, nil, &factCalled, &fakeMarts{})
	p.Facts = FactStageFunc(func(ctx context.Context, ds *dataset.Dataset) (*facts.UnresolvedReport, error) {
		panic("nil map write")
	})

	if p.Run(context.Background(), Options{LoadFacts: true}) {
		t.Fatalf("Run = true, want failure after panic")
	}
}
