package dimacs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xDarkicex/satconf/cnf"
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
)

func TestInfixRendersSymbolsAndOperators(t *testing.T) {
	store := fls.NewStore()
	dag := pdag.NewBuilder(fls.Literal.Negate)
	dag.SetConstants(store.True(), store.False())

	foo := &model.Symbol{Name: "FOO", Type: model.Bool}
	bar := &model.Symbol{Name: "BAR", Type: model.Bool}

	a := dag.Leaf(store.SymbolY(foo))
	b := dag.Leaf(store.SymbolY(bar))
	conj := dag.And(a, dag.Not(b))

	got := Infix(conj)
	if !strings.Contains(got, "FOO") || !strings.Contains(got, "!BAR") || !strings.Contains(got, "&") {
		t.Fatalf("Infix = %q, missing expected operators/operands", got)
	}
}

func TestWriteCNFProducesValidHeaderAndClauses(t *testing.T) {
	store := fls.NewStore()
	foo := &model.Symbol{Name: "FOO", Type: model.Bool}
	v := store.Get(store.SymbolY(foo))

	sink := cnf.New(store)
	sink.Clauses = append(sink.Clauses, cnf.Clause{v})

	var buf bytes.Buffer
	if err := WriteCNF(&buf, store, sink); err != nil {
		t.Fatalf("WriteCNF: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "p cnf") {
		t.Fatalf("output missing DIMACS header: %q", out)
	}
	if !strings.Contains(out, "c ") {
		t.Fatalf("output missing variable comment lines: %q", out)
	}
}
