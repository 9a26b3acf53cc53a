package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xDarkicex/satconf/internal/config"
	"github.com/xDarkicex/satconf/model"
)

func newTestSession() *model.Session {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	foo := &model.Symbol{Name: "FOO", Type: model.Bool, DirectDep: model.Ref(dep)}
	sess.AddSymbol(dep)
	sess.AddSymbol(foo)
	return sess
}

func TestAddShowClear(t *testing.T) {
	var out bytes.Buffer
	r := New(newTestSession(), "cdcl", config.Default(), &out)

	if err := r.Run(strings.NewReader("add DEP y\nadd FOO y\nshow\nclear\nshow\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "DEP=y") {
		t.Fatalf("expected DEP=y in output, got %q", got)
	}
}

func TestSolveReportsSatisfiable(t *testing.T) {
	var out bytes.Buffer
	r := New(newTestSession(), "cdcl", config.Default(), &out)

	err := r.Run(strings.NewReader("add DEP y\nadd FOO y\nsolve\n"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "satisfiable") {
		t.Fatalf("expected satisfiable in output, got %q", out.String())
	}
}

func TestSolveReportsUnsatisfiableAndDiagnoses(t *testing.T) {
	var out bytes.Buffer
	r := New(newTestSession(), "cdcl", config.Default(), &out)

	err := r.Run(strings.NewReader("add DEP n\nadd FOO y\nsolve\n"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "unsatisfiable") {
		t.Fatalf("expected unsatisfiable in output, got %q", out.String())
	}
}

func TestSolveSatisfiableEmitsAppliableTrivialDiagnosis(t *testing.T) {
	var out bytes.Buffer
	r := New(newTestSession(), "cdcl", config.Default(), &out)

	if err := r.Run(strings.NewReader("add DEP y\nsolve\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "[1] DEP=y") {
		t.Fatalf("expected the targets echoed back as diagnosis [1], got %q", out.String())
	}
	if err := r.cmdApply([]string{"1"}); err != nil {
		t.Fatalf("apply of the trivial diagnosis should succeed: %v", err)
	}
}

// newSelectSession builds "B selects A": B=y forces A=y regardless of A's
// own prompt/default, via A's ReverseDep.
func newSelectSession() (*model.Session, *model.Symbol, *model.Symbol) {
	sess := model.NewSession()
	a := &model.Symbol{Name: "A", Type: model.Bool, CurrentTri: model.No}
	b := &model.Symbol{Name: "B", Type: model.Bool, CurrentTri: model.No}
	a.ReverseDep = model.Ref(b)
	sess.AddSymbol(a)
	sess.AddSymbol(b)
	return sess, a, b
}

func TestSolveNeverDiagnosesAPinnedTarget(t *testing.T) {
	var out bytes.Buffer
	sess, _, _ := newSelectSession()
	r := New(sess, "cdcl", config.Default(), &out)

	if err := r.Run(strings.NewReader("add A n\nadd B y\nsolve\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "unsatisfiable") {
		t.Fatalf("expected unsatisfiable, got %q", out.String())
	}
	if !strings.Contains(out.String(), "found 0 diagnosis(es)") {
		t.Fatalf("a pinned target leaves nothing left to reassign, so no diagnosis should be found: %q", out.String())
	}
}

func TestSolveBasesOnCurrentConfigNotJustTargets(t *testing.T) {
	var out bytes.Buffer
	sess := model.NewSession()
	choice := &model.Symbol{Name: "CHOICE", Type: model.Choice}
	x := &model.Symbol{Name: "X", Type: model.Bool, ChoiceGroup: choice, CurrentTri: model.Yes}
	y := &model.Symbol{Name: "Y", Type: model.Bool, ChoiceGroup: choice, CurrentTri: model.No}
	z := &model.Symbol{Name: "Z", Type: model.Bool, ChoiceGroup: choice, CurrentTri: model.No}
	choice.Members = []*model.Symbol{x, y, z}
	sess.AddSymbol(choice)
	sess.AddSymbol(x)
	sess.AddSymbol(y)
	sess.AddSymbol(z)

	r := New(sess, "cdcl", config.Default(), &out)
	if err := r.Run(strings.NewReader("add Z y\nsolve\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "unsatisfiable") {
		t.Fatalf("expected the clash with X's current value to surface as unsatisfiable, got %q", out.String())
	}
	if !strings.Contains(out.String(), "X=n") {
		t.Fatalf("expected a diagnosis reassigning X away from its current value, got %q", out.String())
	}
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	r := New(newTestSession(), "cdcl", config.Default(), &out)

	if err := r.Run(strings.NewReader("bogus\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "usage:") {
		t.Fatalf("expected a usage line, got %q", out.String())
	}
}
