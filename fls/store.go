package fls

import (
	"fmt"

	"github.com/xDarkicex/satconf/model"
)

// Store mints SAT variable numbers for Literals and keeps the two-way
// mapping between them, mirroring struct cfdata's sat_variable_nr counter
// and satmap array.
type Store struct {
	satval  map[Literal]int
	satmap  []Literal // index 0 unused, index i holds the literal for satval i
	nextTmp int

	constTrue  Literal
	constFalse Literal
}

// NewStore returns a Store with the FALSE/TRUE constants pre-minted as
// satvals 1 and 2, so every other literal gets a satval >= 3. No unit
// clauses are emitted for the two constants.
func NewStore() *Store {
	s := &Store{satval: make(map[Literal]int)}
	s.satmap = append(s.satmap, Literal{}) // burn index 0, satvals are 1-based
	s.constFalse = Literal{Kind: KindFalse}
	s.constTrue = Literal{Kind: KindTrue}
	s.mint(s.constFalse)
	s.mint(s.constTrue)
	return s
}

// True/False return the constant literals.
func (s *Store) True() Literal  { return s.constTrue }
func (s *Store) False() Literal { return s.constFalse }

// Get returns the satval already assigned to lit, or mints a fresh one.
// Negated literals share the positive literal's variable and are satisfied
// by its negative polarity, as is conventional in DIMACS.
func (s *Store) Get(lit Literal) int {
	key := lit
	key.Negated = false
	if v, ok := s.satval[key]; ok {
		if lit.Negated {
			return -v
		}
		return v
	}
	return s.mintSigned(lit)
}

func (s *Store) mintSigned(lit Literal) int {
	key := lit
	key.Negated = false
	v := s.mint(key)
	if lit.Negated {
		return -v
	}
	return v
}

func (s *Store) mint(key Literal) int {
	v := len(s.satmap)
	s.satval[key] = v
	s.satmap = append(s.satmap, key)
	return v
}

// Lookup reverses Get: given a satval, returns the literal it names.
func (s *Store) Lookup(satval int) (Literal, bool) {
	v := satval
	neg := false
	if v < 0 {
		v, neg = -v, true
	}
	if v <= 0 || v >= len(s.satmap) {
		return Literal{}, false
	}
	lit := s.satmap[v]
	lit.Negated = neg
	return lit, true
}

// SymbolY returns the literal "sym evaluates to Yes".
func (s *Store) SymbolY(sym *model.Symbol) Literal {
	return Literal{Kind: KindSymbolY, Sym: sym}
}

// SymbolM returns the literal "sym evaluates to at least Mod" (fexpr_both in
// the original tool: true for both Mod and Yes). Only meaningful for
// tristate symbols; SymbolY implies SymbolM.
func (s *Store) SymbolM(sym *model.Symbol) Literal {
	return Literal{Kind: KindSymbolM, Sym: sym}
}

// NPC returns the "no prompt condition" literal used when a symbol has no
// visible prompt in the current context.
func (s *Store) NPC(sym *model.Symbol) Literal {
	return Literal{Kind: KindNPC, Sym: sym}
}

// Equals returns the literal "sym == value" for a non-boolean symbol. Its
// satval is minted by Get the first time the literal is numbered.
func (s *Store) Equals(sym *model.Symbol, value string) Literal {
	return Literal{Kind: KindEquals, Sym: sym, Value: value}
}

// Unset returns the literal "sym carries no value yet", minted as the first
// member of a non-boolean symbol's exactly-one value group so "no value
// assigned" is itself a representable, assumable SAT state.
func (s *Store) Unset(sym *model.Symbol) Literal {
	return Literal{Kind: KindUnset, Sym: sym}
}

// Choice returns the choice-group auxiliary literal for sym.
func (s *Store) Choice(sym *model.Symbol) Literal {
	return Literal{Kind: KindChoice, Sym: sym}
}

// Select returns the "sym is selected" auxiliary literal for sym.
func (s *Store) Select(sym *model.Symbol) Literal {
	return Literal{Kind: KindSelect, Sym: sym}
}

// FreshTmp returns a new, unique Tseitin auxiliary literal, used by package
// cnf to name the subterm introduced at each AND/OR node.
func (s *Store) FreshTmp() Literal {
	s.nextTmp++
	return Literal{Kind: KindTmpSatVar, Aux: s.nextTmp}
}

// Len returns the number of SAT variables minted so far (including the two
// constants), i.e. the DIMACS header's declared variable count.
func (s *Store) Len() int {
	return len(s.satmap) - 1
}

// Dump returns every minted literal paired with its satval, in minting
// order, for the "c <satval> <name>" comment lines of a DIMACS file.
func (s *Store) Dump() []LiteralEntry {
	out := make([]LiteralEntry, 0, len(s.satmap)-1)
	for v := 1; v < len(s.satmap); v++ {
		out = append(out, LiteralEntry{SatVal: v, Literal: s.satmap[v]})
	}
	return out
}

// LiteralEntry pairs a minted satval with the Literal it names.
type LiteralEntry struct {
	SatVal  int
	Literal Literal
}

func (e LiteralEntry) String() string {
	return fmt.Sprintf("c %d %s", e.SatVal, e.Literal)
}
