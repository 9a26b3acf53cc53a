package fls

import (
	"testing"

	"github.com/xDarkicex/satconf/model"
)

func TestConstantsMintedFirst(t *testing.T) {
	s := NewStore()
	if got := s.Get(s.False()); got != 1 {
		t.Fatalf("FALSE satval = %d, want 1", got)
	}
	if got := s.Get(s.True()); got != 2 {
		t.Fatalf("TRUE satval = %d, want 2", got)
	}
}

func TestGetIsStableAndMintsOnce(t *testing.T) {
	s := NewStore()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}
	lit := s.SymbolY(sym)

	v1 := s.Get(lit)
	v2 := s.Get(lit)
	if v1 != v2 {
		t.Fatalf("Get not stable across calls: %d != %d", v1, v2)
	}
}

func TestGetNegatedSharesVariable(t *testing.T) {
	s := NewStore()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}
	pos := s.SymbolY(sym)
	neg := pos.Negate()

	if s.Get(pos) != -s.Get(neg) {
		t.Fatalf("positive and negated literal should be opposite-signed same variable")
	}
}

func TestLookupRoundTrips(t *testing.T) {
	s := NewStore()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}
	lit := s.SymbolY(sym)
	v := s.Get(lit)

	got, ok := s.Lookup(v)
	if !ok || got != lit {
		t.Fatalf("Lookup(%d) = %v, %v; want %v, true", v, got, ok, lit)
	}

	gotNeg, ok := s.Lookup(-v)
	if !ok || gotNeg != lit.Negate() {
		t.Fatalf("Lookup(%d) = %v, %v; want negated literal", -v, gotNeg, ok)
	}
}

func TestFreshTmpAlwaysDistinct(t *testing.T) {
	s := NewStore()
	a := s.FreshTmp()
	b := s.FreshTmp()
	if a == b {
		t.Fatalf("FreshTmp returned the same literal twice")
	}
	if s.Get(a) == s.Get(b) {
		t.Fatalf("distinct tmp literals minted the same satval")
	}
}

func TestDumpOrderMatchesMinting(t *testing.T) {
	s := NewStore()
	sym := &model.Symbol{Name: "FOO", Type: model.Bool}
	lit := s.SymbolY(sym)
	v := s.Get(lit)

	dump := s.Dump()
	if len(dump) != s.Len() {
		t.Fatalf("Dump length = %d, want %d", len(dump), s.Len())
	}
	if dump[v-1].SatVal != v || dump[v-1].Literal != lit {
		t.Fatalf("Dump()[%d] = %+v, want satval %d literal %v", v-1, dump[v-1], v, lit)
	}
}
