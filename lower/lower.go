// Package lower translates model.Expr condition trees into pdag formulas
// over fls literals. A tristate-valued expression is represented by two
// projections, Y (evaluates to Yes) and M (evaluates to Mod); "evaluates to
// at least Mod" is their disjunction, Both. Plain boolean-valued
// expressions (equality, numeric comparison, and anything built only from
// Bool symbols) have an always-false M projection.
package lower

import (
	"fmt"

	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
)

// Node is the pdag node type this package produces.
type Node = pdag.Node[fls.Literal]

// Lowerer turns model.Expr trees into pdag formulas, sharing literals
// through a single fls.Store/pdag.Builder pair.
type Lowerer struct {
	store   *fls.Store
	dag     *pdag.Builder[fls.Literal]
	domain  *Domain
}

// New returns a Lowerer. domain must already have observed every literal
// value the model's comparisons mention (see Domain.Collect).
func New(store *fls.Store, dag *pdag.Builder[fls.Literal], domain *Domain) *Lowerer {
	return &Lowerer{store: store, dag: dag, domain: domain}
}

// Y returns the formula for "e evaluates to Yes".
func (l *Lowerer) Y(e model.Expr) *Node {
	switch e.Kind {
	case model.ExprConst:
		return l.constY(e.Literal)
	case model.ExprSymbol:
		return l.dag.Leaf(l.store.SymbolY(e.Sym))
	case model.ExprAnd:
		return l.dag.And(l.Y(e.Left), l.Y(e.Right))
	case model.ExprOr:
		return l.dag.Or(l.Y(e.Left), l.Y(e.Right))
	case model.ExprNot:
		return l.dag.Not(l.both(e.Left))
	case model.ExprEqual, model.ExprUnequal, model.ExprLt, model.ExprLe, model.ExprGt, model.ExprGe:
		return l.comparison(e)
	default:
		panic(fmt.Sprintf("lower: unhandled expr kind %d", e.Kind))
	}
}

// M returns the formula for "e evaluates to Mod".
func (l *Lowerer) M(e model.Expr) *Node {
	switch e.Kind {
	case model.ExprConst:
		return l.constM(e.Literal)
	case model.ExprSymbol:
		if e.Sym.Type == model.Tri {
			// SymbolM is "at least Mod"; exactly Mod also excludes Yes.
			return l.dag.And(l.dag.Leaf(l.store.SymbolM(e.Sym)), l.dag.Not(l.dag.Leaf(l.store.SymbolY(e.Sym))))
		}
		return l.dag.False()
	case model.ExprAnd:
		both := l.dag.And(l.both(e.Left), l.both(e.Right))
		y := l.dag.And(l.Y(e.Left), l.Y(e.Right))
		return l.dag.And(both, l.dag.Not(y))
	case model.ExprOr:
		both := l.dag.Or(l.both(e.Left), l.both(e.Right))
		y := l.dag.Or(l.Y(e.Left), l.Y(e.Right))
		return l.dag.And(both, l.dag.Not(y))
	case model.ExprNot:
		return l.M(e.Left)
	default:
		// Equality/comparisons are boolean-valued, never Mod.
		return l.dag.False()
	}
}

// Both returns the formula for "e evaluates to at least Mod".
func (l *Lowerer) Both(e model.Expr) *Node { return l.both(e) }

func (l *Lowerer) both(e model.Expr) *Node {
	if e.IsZero() {
		return l.dag.True() // an absent condition always holds
	}
	switch e.Kind {
	case model.ExprConst:
		return l.constBoth(e.Literal)
	case model.ExprSymbol:
		if e.Sym.Type == model.Tri {
			return l.dag.Or(l.dag.Leaf(l.store.SymbolY(e.Sym)), l.dag.Leaf(l.store.SymbolM(e.Sym)))
		}
		return l.dag.Leaf(l.store.SymbolY(e.Sym))
	case model.ExprAnd:
		return l.dag.And(l.both(e.Left), l.both(e.Right))
	case model.ExprOr:
		return l.dag.Or(l.both(e.Left), l.both(e.Right))
	case model.ExprNot:
		return l.dag.Not(l.Y(e.Left))
	default:
		return l.Y(e)
	}
}

func (l *Lowerer) constY(lit string) *Node {
	tri, ok := model.ParseTristate(lit)
	if !ok || tri == model.Yes {
		return l.dag.True()
	}
	return l.dag.False()
}

func (l *Lowerer) constM(lit string) *Node {
	tri, ok := model.ParseTristate(lit)
	if ok && tri == model.Mod {
		return l.dag.True()
	}
	return l.dag.False()
}

func (l *Lowerer) constBoth(lit string) *Node {
	tri, ok := model.ParseTristate(lit)
	if !ok || tri != model.No {
		return l.dag.True()
	}
	return l.dag.False()
}

// comparison lowers equality/inequality/numeric-comparison expressions into
// a disjunction of enumerated equality literals, mirroring how the original
// tool resolves a "depends on X = val" condition against the finite set of
// values X is ever assigned elsewhere in the tree.
func (l *Lowerer) comparison(e model.Expr) *Node {
	sym := e.Lhs

	if e.Rhs.Kind == model.ExprSymbol {
		// sym <cmp> othersym: disjoin over every (a, b) pair of observed
		// values for which the comparison holds.
		var acc *Node
		for _, a := range l.domain.Values(sym) {
			for _, b := range l.domain.Values(e.Rhs.Sym) {
				if !compareHolds(e.Kind, sym.Type, a, b) {
					continue
				}
				term := l.dag.And(l.eq(sym, a), l.eq(e.Rhs.Sym, b))
				acc = orAccum(l.dag, acc, term)
			}
		}
		if acc == nil {
			return l.dag.False()
		}
		return acc
	}

	target := e.Rhs.Literal
	switch e.Kind {
	case model.ExprEqual:
		return l.eq(sym, target)
	case model.ExprUnequal:
		return l.dag.Not(l.eq(sym, target))
	default:
		var acc *Node
		for _, v := range l.domain.Values(sym) {
			if compareHolds(e.Kind, sym.Type, v, target) {
				acc = orAccum(l.dag, acc, l.eq(sym, v))
			}
		}
		if acc == nil {
			return l.dag.False()
		}
		return acc
	}
}

func (l *Lowerer) eq(sym *model.Symbol, value string) *Node {
	return l.dag.Leaf(l.store.Equals(sym, value))
}

func orAccum(dag *pdag.Builder[fls.Literal], acc, term *Node) *Node {
	if acc == nil {
		return term
	}
	return dag.Or(acc, term)
}

// compareHolds evaluates a single scalar comparison, falling back to
// lexicographic ordering for non-numeric (String) symbols.
func compareHolds(kind model.ExprKind, t model.Type, a, b string) bool {
	cmp, ok := model.CompareNumeric(t, a, b)
	if !ok {
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		default:
			cmp = 0
		}
	}
	switch kind {
	case model.ExprEqual:
		return cmp == 0
	case model.ExprUnequal:
		return cmp != 0
	case model.ExprLt:
		return cmp < 0
	case model.ExprLe:
		return cmp <= 0
	case model.ExprGt:
		return cmp > 0
	case model.ExprGe:
		return cmp >= 0
	default:
		return false
	}
}
