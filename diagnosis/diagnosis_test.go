package diagnosis

import (
	"context"
	"testing"
	"time"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/model"
)

func TestDiagnosisResolvesDirectDependencyConflict(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	foo := &model.Symbol{Name: "FOO", Type: model.Bool, DirectDep: model.Ref(dep)}
	sess.AddSymbol(dep)
	sess.AddSymbol(foo)

	driver := assume.NewDriver(sess, "cdcl")
	eng := New(driver)

	base := []assume.Assignment{
		{Sym: dep, Tri: model.No},
		{Sym: foo, Tri: model.Yes},
	}
	candidates := []Candidate{
		{Sym: dep, Values: []assume.Assignment{{Sym: dep, Tri: model.Yes}}},
		{Sym: foo, Values: []assume.Assignment{{Sym: foo, Tri: model.No}}},
	}

	diags, err := eng.Run(context.Background(), base, candidates, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnosis")
	}
	for _, d := range diags {
		if len(d.Changes) == 0 {
			t.Fatalf("diagnosis %v has no changes", d)
		}
	}
}

func TestDiagnosisHonorsCancellation(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	foo := &model.Symbol{Name: "FOO", Type: model.Bool, DirectDep: model.Ref(dep)}
	sess.AddSymbol(dep)
	sess.AddSymbol(foo)

	driver := assume.NewDriver(sess, "cdcl")
	eng := New(driver)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx, []assume.Assignment{
		{Sym: dep, Tri: model.No},
		{Sym: foo, Tri: model.Yes},
	}, nil, 10)
	if err != ErrCanceled {
		t.Fatalf("err = %v, want ErrCanceled", err)
	}
}

func TestDiagnosisHonorsTimeout(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	foo := &model.Symbol{Name: "FOO", Type: model.Bool, DirectDep: model.Ref(dep)}
	sess.AddSymbol(dep)
	sess.AddSymbol(foo)

	driver := assume.NewDriver(sess, "cdcl")
	eng := New(driver)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := eng.Run(ctx, []assume.Assignment{
		{Sym: dep, Tri: model.No},
		{Sym: foo, Tri: model.Yes},
	}, nil, 10)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

// TestSearchBranchesOnEveryCoreElement covers an OR dependency where the
// UNSAT core necessarily names both alternatives (dropping either
// assumption alone would let the solver satisfy the OR): a search that only
// branches on the first core element it sees would only ever find one of
// the two independent single-symbol diagnoses that repair it.
func TestSearchBranchesOnEveryCoreElement(t *testing.T) {
	sess := model.NewSession()
	depA := &model.Symbol{Name: "DEPA", Type: model.Bool}
	depB := &model.Symbol{Name: "DEPB", Type: model.Bool}
	foo := &model.Symbol{
		Name:      "FOO",
		Type:      model.Bool,
		DirectDep: model.Or(model.Ref(depA), model.Ref(depB)),
	}
	sess.AddSymbol(depA)
	sess.AddSymbol(depB)
	sess.AddSymbol(foo)

	driver := assume.NewDriver(sess, "cdcl")
	eng := New(driver)

	base := []assume.Assignment{
		{Sym: depA, Tri: model.No},
		{Sym: depB, Tri: model.No},
		{Sym: foo, Tri: model.Yes},
	}
	candidates := []Candidate{
		{Sym: depA, Values: []assume.Assignment{{Sym: depA, Tri: model.Yes}}},
		{Sym: depB, Values: []assume.Assignment{{Sym: depB, Tri: model.Yes}}},
	}

	diags, err := eng.Run(context.Background(), base, candidates, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(diags) < 2 {
		t.Fatalf("expected both single-symbol diagnoses (DEPA and DEPB), got %v", diags)
	}
}

func TestSatisfiableBaseYieldsEmptyDiagnosis(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	foo := &model.Symbol{Name: "FOO", Type: model.Bool, DirectDep: model.Ref(dep)}
	sess.AddSymbol(dep)
	sess.AddSymbol(foo)

	driver := assume.NewDriver(sess, "cdcl")
	eng := New(driver)

	diags, err := eng.Run(context.Background(), []assume.Assignment{
		{Sym: dep, Tri: model.Yes},
		{Sym: foo, Tri: model.Yes},
	}, nil, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(diags) != 1 || len(diags[0].Changes) != 0 {
		t.Fatalf("diags = %v, want a single empty diagnosis", diags)
	}
}
