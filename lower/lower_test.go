package lower

import (
	"testing"

	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
)

func newLowerer() (*Lowerer, *fls.Store, *pdag.Builder[fls.Literal]) {
	store := fls.NewStore()
	dag := pdag.NewBuilder(fls.Literal.Negate)
	dag.SetConstants(store.True(), store.False())
	return New(store, dag, NewDomain()), store, dag
}

func TestBoolSymbolYAndM(t *testing.T) {
	l, store, dag := newLowerer()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}

	if got, want := l.Y(model.Ref(sym)), dag.Leaf(store.SymbolY(sym)); got != want {
		t.Fatalf("Y(FOO) = %v, want %v", got, want)
	}
	if got := l.M(model.Ref(sym)); got != dag.False() {
		t.Fatalf("M(plain bool) should always be False, got %v", got)
	}
}

func TestTristateSymbolBoth(t *testing.T) {
	l, store, dag := newLowerer()
	sym := &model.Symbol{Name: "FOO", Type: model.Tri}

	want := dag.Or(dag.Leaf(store.SymbolY(sym)), dag.Leaf(store.SymbolM(sym)))
	if got := l.Both(model.Ref(sym)); got != want {
		t.Fatalf("Both(tristate FOO) = %v, want %v", got, want)
	}
}

func TestNotFlipsYAndBoth(t *testing.T) {
	l, _, dag := newLowerer()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}
	notFoo := model.Not(model.Ref(sym))

	if got, want := l.Y(notFoo), dag.Not(l.both(model.Ref(sym))); got != want {
		t.Fatalf("Y(!FOO) = %v, want %v", got, want)
	}
}

func TestAndIsConjunctionOfY(t *testing.T) {
	l, _, dag := newLowerer()
	a := &model.Symbol{Name: "A", Type: model.Bool}
	b := &model.Symbol{Name: "B", Type: model.Bool}
	e := model.And(model.Ref(a), model.Ref(b))

	want := dag.And(l.Y(model.Ref(a)), l.Y(model.Ref(b)))
	if got := l.Y(e); got != want {
		t.Fatalf("Y(A&B) = %v, want %v", got, want)
	}
}

func TestEqualityComparison(t *testing.T) {
	l, store, dag := newLowerer()
	sym := &model.Symbol{Name: "FOO", Type: model.Int}
	e := model.Equal(sym, model.Lit("4"))

	want := dag.Leaf(store.Equals(sym, "4"))
	if got := l.Y(e); got != want {
		t.Fatalf("Y(FOO=4) = %v, want %v", got, want)
	}

	ne := model.Unequal(sym, model.Lit("4"))
	if got := l.Y(ne); got != dag.Not(want) {
		t.Fatalf("Y(FOO!=4) = %v, want Not(%v)", got, want)
	}
}

func TestNumericComparisonDisjoinsObservedValues(t *testing.T) {
	domain := NewDomain()
	sym := &model.Symbol{Name: "FOO", Type: model.Int}
	e := model.Compare(model.ExprLt, sym, model.Lit("10"))
	domain.Collect(e)
	domain.Observe(sym, "5")
	domain.Observe(sym, "20")

	store := fls.NewStore()
	dag := pdag.NewBuilder(fls.Literal.Negate)
	dag.SetConstants(store.True(), store.False())
	l := New(store, dag, domain)

	got := l.Y(e)
	want := dag.Leaf(store.Equals(sym, "5")) // only 5 < 10 among observed values
	if got != want {
		t.Fatalf("Y(FOO<10) = %v, want %v", got, want)
	}
}
