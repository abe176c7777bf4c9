package naivebayes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wyfcoding/probkit/dataset"
	"github.com/wyfcoding/probkit/logging"
	"github.com/wyfcoding/probkit/metrics"
	"github.com/wyfcoding/probkit/xerrors"
)

const colorData = "color,n,label\n" +
	"red,10,A\n" +
	"blue,5,A\n" +
	"red,2,B\n" +
	"blue,8,B\n" +
	"red,,\n"

func rows(t *testing.T, src string) []dataset.Row {
	t.Helper()
	table, err := dataset.Read(strings.NewReader(src), dataset.Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return table.Rows
}

func quietLogger() *logging.Logger {
	return logging.NewFromConfig(logging.Config{Service: "test", Module: "naivebayes", Level: "error", Output: &bytes.Buffer{}})
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestClassifyEndToEnd(t *testing.T) {
	c := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()))
	results, err := c.ClassifyRows(context.Background(), rows(t, colorData))
	if err != nil {
		t.Fatalf("ClassifyRows: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("unexpected row error: %v", res.Err)
	}

	wantPrior := map[string]float64{"A": 0.6, "B": 0.4}
	wantCond := map[string]float64{"A": 10.0 / 15.0, "B": 0.2}
	wantJoint := map[string]float64{"A": 0.4, "B": 0.08}
	for _, ev := range res.Evaluations {
		if !near(ev.Prior, wantPrior[ev.Category], 1e-12) {
			t.Errorf("prior(%s) = %v, want %v", ev.Category, ev.Prior, wantPrior[ev.Category])
		}
		if len(ev.Conditionals) != 1 || !near(ev.Conditionals[0].Probability, wantCond[ev.Category], 1e-12) {
			t.Errorf("cond(red|%s) = %+v", ev.Category, ev.Conditionals)
		}
		if !near(ev.Joint, wantJoint[ev.Category], 1e-12) {
			t.Errorf("joint(%s) = %v, want %v", ev.Category, ev.Joint, wantJoint[ev.Category])
		}
	}

	a, _ := res.Posterior.Get("A")
	b, _ := res.Posterior.Get("B")
	if a.Rounded != 0.8333 || b.Rounded != 0.1667 {
		t.Errorf("posterior = %v / %v, want 0.8333 / 0.1667", a.Rounded, b.Rounded)
	}
	if !near(res.Posterior.Sum(), 1, 1e-9) {
		t.Errorf("posterior sum = %v", res.Posterior.Sum())
	}
	if best, _ := res.Posterior.Best(); best.Category != "A" {
		t.Errorf("best = %s, want A", best.Category)
	}
}

func TestCategoryOrderFollowsTrainingData(t *testing.T) {
	src := "color,n,label\nred,1,Z\nred,1,M\nblue,1,A\nred,,\n"
	p, err := Split(rows(t, src), Schema{TargetColumn: "label"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(p.Categories, ","); got != "Z,M,A" {
		t.Errorf("categories = %s, want Z,M,A", got)
	}
}

func TestConditionalsWithinUnitInterval(t *testing.T) {
	src := "color,size,n,label\n" +
		"red,big,3,A\nred,small,4,A\nblue,big,1,B\nred,small,6,B\n" +
		"red,big,,\nblue,small,,\n"
	p, err := Split(rows(t, src), Schema{TargetColumn: "label"})
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range p.Queries {
		for _, cat := range p.Categories {
			ev, err := Evaluate(p.Training, q, cat)
			if err != nil {
				t.Fatalf("Evaluate(%d, %s): %v", q.Index, cat, err)
			}
			for _, c := range ev.Conditionals {
				if c.Probability < 0 || c.Probability > 1 {
					t.Errorf("conditional out of range: %+v", c)
				}
			}
		}
	}
}

func TestPosteriorSumsToOne(t *testing.T) {
	src := "a,b,n,label\n" +
		"x,y,3,P\nx,z,7,Q\nw,y,2,R\nw,z,5,P\nx,y,1,R\n" +
		"x,y,,\nw,z,,\nx,z,,\n"
	c := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()))
	results, err := c.ClassifyRows(context.Background(), rows(t, src))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !near(r.Posterior.Sum(), 1, 1e-6) {
			t.Errorf("query %d: sum = %v", r.Query.Index, r.Posterior.Sum())
		}
	}
}

func TestDeterministic(t *testing.T) {
	c := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()))
	first, err := c.ClassifyRows(context.Background(), rows(t, colorData))
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := c.ClassifyRows(context.Background(), rows(t, colorData))
		if err != nil {
			t.Fatal(err)
		}
		for i, e := range again[0].Posterior {
			if e != first[0].Posterior[i] {
				t.Fatalf("run differs: %+v vs %+v", e, first[0].Posterior[i])
			}
		}
	}
}

func TestEmptyCategorySkipped(t *testing.T) {
	src := "color,n,label\nred,4,A\nblue,0,C\nred,1,B\nred,,\n"
	m := metrics.NewMetrics("test")
	c := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()), WithMetrics(m))
	results, err := c.ClassifyRows(context.Background(), rows(t, src))
	if err != nil {
		t.Fatal(err)
	}
	res := results[0]
	if len(res.Skipped) != 1 || res.Skipped[0] != "C" {
		t.Errorf("skipped = %v, want [C]", res.Skipped)
	}
	if _, ok := res.Posterior.Get("C"); ok {
		t.Errorf("skipped category present in posterior")
	}
	if a, _ := res.Posterior.Get("A"); !near(a.Probability, 0.8, 1e-12) {
		t.Errorf("P(A) = %v, want 0.8", a.Probability)
	}
	if got := testutil.ToFloat64(m.SkippedCategories); got != 1 {
		t.Errorf("skipped metric = %v, want 1", got)
	}

	p, _ := Split(rows(t, src), Schema{TargetColumn: "label"})
	if _, err := Evaluate(p.Training, p.Queries[0], "C"); !errors.Is(err, xerrors.ErrEmptyCategory) {
		t.Errorf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestZeroMarginalIsPerRow(t *testing.T) {
	src := "color,n,label\nred,4,A\nblue,1,B\ngreen,,\nred,,\n"
	m := metrics.NewMetrics("test")
	c := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()), WithMetrics(m))
	results, err := c.ClassifyRows(context.Background(), rows(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(results[0].Err, xerrors.ErrZeroMarginal) {
		t.Errorf("query 0: expected ErrZeroMarginal, got %v", results[0].Err)
	}
	if results[0].Posterior != nil {
		t.Errorf("query 0: posterior should be empty")
	}
	if results[1].Err != nil {
		t.Errorf("query 1: %v", results[1].Err)
	}
	if a, _ := results[1].Posterior.Get("A"); a.Probability != 1 {
		t.Errorf("P(A|red) = %v, want 1", a.Probability)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("zero_marginal")); got != 1 {
		t.Errorf("zero_marginal metric = %v", got)
	}
	if _, err := Normalize(nil, 4); !errors.Is(err, xerrors.ErrZeroMarginal) {
		t.Errorf("Normalize(nil): %v", err)
	}
}

func TestSplitErrors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		schema Schema
		want   *xerrors.Error
	}{
		{"no labels", "color,n,label\nred,1,\n", Schema{TargetColumn: "label"}, xerrors.ErrEmptyTrainingSet},
		{"bad count", "color,n,label\nred,x,A\n", Schema{TargetColumn: "label"}, xerrors.ErrMalformedInput},
		{"negative count", "color,n,label\nred,-1,A\n", Schema{TargetColumn: "label"}, xerrors.ErrMalformedInput},
		{"missing target", "color,n\nred,1\n", Schema{TargetColumn: "label"}, xerrors.ErrMalformedInput},
		{"missing count", "color,label\nred,A\n", Schema{TargetColumn: "label"}, xerrors.ErrMalformedInput},
		{"no target configured", "color,n,label\nred,1,A\n", Schema{}, xerrors.ErrMalformedInput},
		{"positional order", "n,label,color\n1,A,red\n", Schema{TargetColumn: "label", Positional: true}, xerrors.ErrMalformedInput},
	}
	for _, tc := range cases {
		_, err := Split(rows(t, tc.src), tc.schema)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPositionalFeatures(t *testing.T) {
	src := "color,size,count,label\nred,big,2,A\nred,small,,\n"
	p, err := Split(rows(t, src), Schema{TargetColumn: "label", CountColumn: "count", Positional: true})
	if err != nil {
		t.Fatal(err)
	}
	q := p.Queries[0]
	if len(q.Features) != 2 || q.Features[0].Column != "color" || q.Features[1].Column != "size" {
		t.Errorf("features = %+v", q.Features)
	}
	if q.Row != 1 {
		t.Errorf("query row = %d, want 1", q.Row)
	}
}

func TestWorkersKeepQueryOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("k,n,label\n")
	for i := range 20 {
		fmt.Fprintf(&b, "v%d,%d,A\nv%d,%d,B\n", i, i+1, i, 20-i)
	}
	for i := range 20 {
		fmt.Fprintf(&b, "v%d,,\n", i)
	}
	src := b.String()

	serial, err := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger())).
		ClassifyRows(context.Background(), rows(t, src))
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger()), WithWorkers(8)).
		ClassifyRows(context.Background(), rows(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if len(parallel) != len(serial) {
		t.Fatalf("len = %d, want %d", len(parallel), len(serial))
	}
	for i := range serial {
		if parallel[i].Query.Index != i {
			t.Errorf("result %d has query index %d", i, parallel[i].Query.Index)
		}
		a1, _ := serial[i].Posterior.Get("A")
		a2, _ := parallel[i].Posterior.Get("A")
		if a1 != a2 {
			t.Errorf("query %d: %+v vs %+v", i, a1, a2)
		}
	}
}

func TestClassifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.csv")
	if err := os.WriteFile(path, []byte(colorData), 0o600); err != nil {
		t.Fatal(err)
	}
	results, err := Classify(context.Background(), path, "label")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if best, _ := results[0].Posterior.Best(); best.Category != "A" || best.Rounded != 0.8333 {
		t.Errorf("best = %+v", best)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClassifier(Schema{TargetColumn: "label"}, WithLogger(quietLogger())).ClassifyRows(ctx, rows(t, colorData)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
