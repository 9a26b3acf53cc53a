package fix

import (
	"testing"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/model"
)

func TestApplySimpleChanges(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Bool}
	sess.AddSymbol(dep)

	rep := Apply(sess, []assume.Assignment{{Sym: dep, Tri: model.Yes}})
	if rep.Applied != 1 || rep.Failed != 0 {
		t.Fatalf("report = %+v, want 1 applied, 0 failed", rep)
	}
	if dep.CurrentTri != model.Yes {
		t.Fatalf("DEP = %v, want Yes", dep.CurrentTri)
	}
}

func TestApplyRangeCheckedIntWithinBounds(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Int, Properties: []model.Property{
		{Kind: model.PropRange, Low: "0", High: "10"},
	}}
	sess.AddSymbol(dep)

	changes := []assume.Assignment{
		{Sym: dep, Str: "5"},
	}
	rep := Apply(sess, changes)
	if rep.Failed != 0 {
		t.Fatalf("report = %+v, want no failures", rep)
	}
}

func TestApplyRangeCheckedIntOutOfBoundsFails(t *testing.T) {
	sess := model.NewSession()
	dep := &model.Symbol{Name: "DEP", Type: model.Int, Properties: []model.Property{
		{Kind: model.PropRange, Low: "0", High: "10"},
	}}
	sess.AddSymbol(dep)

	rep := Apply(sess, []assume.Assignment{{Sym: dep, Str: "99"}})
	if rep.Applied != 0 || rep.Failed != 1 {
		t.Fatalf("report = %+v, want 0 applied, 1 failed", rep)
	}
}

func TestApplyReportsPersistentFailure(t *testing.T) {
	sess := model.NewSession()
	str := &model.Symbol{Name: "STR", Type: model.String}
	sess.AddSymbol(str)

	// Tristate setter on a non-boolean symbol always fails; it can never
	// converge, so the report should mark it failed rather than loop.
	rep := Apply(sess, []assume.Assignment{{Sym: str, Tri: model.Yes}})
	if rep.Applied != 0 || rep.Failed != 1 {
		t.Fatalf("report = %+v, want 0 applied, 1 failed", rep)
	}
	if rep.Outcomes[0].Err == nil {
		t.Fatalf("expected a recorded error for the failed outcome")
	}
}
