// Package fls is the feature literal store: it mints the boolean SAT
// literals that the constraint builder and CNF lowerer reason about, and
// keeps the satval <-> literal mapping the solver and DIMACS writer both
// need. It is the Go counterpart of struct fexpr / struct cfdata's satmap.
package fls

import "github.com/xDarkicex/satconf/model"

// Kind classifies what a Literal stands for, mirroring enum fexpr_type.
type Kind int

const (
	KindTrue     Kind = iota // the constant True
	KindFalse                // the constant False
	KindSymbolY              // symbol evaluates to Yes
	KindSymbolM              // symbol evaluates to at least Mod (tristate only)
	KindNPC                  // "no prompt condition" for sym
	KindEquals               // sym == value (non-boolean equality literal)
	KindUnset                // non-boolean sym carries no value yet
	KindChoice               // choice-group selection auxiliary
	KindSelect               // "sym is selected" auxiliary
	KindTmpSatVar            // Tseitin auxiliary variable
)

// Literal is a single boolean proposition. It is comparable so it can be
// used directly as a pdag.Literal and as a map key; its SAT variable number
// is tracked externally by Store, not embedded here, since a Literal's
// identity must stay stable across minting.
type Literal struct {
	Kind    Kind
	Sym     *model.Symbol
	Value   string // KindEquals: the compared-to value
	Negated bool
	Aux     int // disambiguates otherwise-identical KindTmpSatVar/KindChoice/KindSelect literals
}

// Negate returns the logical complement of l.
func (l Literal) Negate() Literal {
	switch l.Kind {
	case KindTrue:
		return Literal{Kind: KindFalse}
	case KindFalse:
		return Literal{Kind: KindTrue}
	default:
		l.Negated = !l.Negated
		return l
	}
}

// String renders a human-readable label, used by the DIMACS pretty-printer's
// "c <satval> <name>" comment lines and by test failure messages.
func (l Literal) String() string {
	name := l.baseName()
	if l.Negated {
		return "!" + name
	}
	return name
}

func (l Literal) baseName() string {
	switch l.Kind {
	case KindTrue:
		return "TRUE"
	case KindFalse:
		return "FALSE"
	case KindSymbolY:
		return l.Sym.Name
	case KindSymbolM:
		return l.Sym.Name + "_MODULE"
	case KindNPC:
		return l.Sym.Name + "_NPC"
	case KindEquals:
		return l.Sym.Name + "=" + l.Value
	case KindUnset:
		return l.Sym.Name + "_UNSET"
	case KindChoice:
		return l.Sym.Name + "_CHOICE"
	case KindSelect:
		return l.Sym.Name + "_SELECT"
	case KindTmpSatVar:
		return "aux"
	default:
		return "?"
	}
}
