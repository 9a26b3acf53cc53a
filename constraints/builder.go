// Package constraints is the constraint builder (CB): it walks a
// model.Session's symbol table and emits, per symbol, the pdag formulas
// that encode its type well-formedness, dependency chain, reverse
// select/imply obligations, prompt visibility, shadowed defaults, and (for
// choice groups) exactly-one/at-most-one membership. The CNF lowerer
// consumes the resulting formula set unchanged.
package constraints

import (
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/lower"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
)

// Node is the pdag node type constraints operate on.
type Node = pdag.Node[fls.Literal]

// Builder accumulates the constraint set for a session.
type Builder struct {
	store  *fls.Store
	dag    *pdag.Builder[fls.Literal]
	lower  *lower.Lowerer
	domain *lower.Domain

	seen  map[*Node]bool
	terms []*Node
}

// New returns a Builder sharing store/dag/domain with a lower.Lowerer
// already constructed over them.
func New(store *fls.Store, dag *pdag.Builder[fls.Literal], lw *lower.Lowerer, domain *lower.Domain) *Builder {
	return &Builder{store: store, dag: dag, lower: lw, domain: domain, seen: make(map[*Node]bool)}
}

// Build walks every symbol in sess and returns the deduplicated list of
// top-level constraint conjuncts.
func (b *Builder) Build(sess *model.Session) []*Node {
	for _, sym := range sess.AllSymbols() {
		b.symbolWellFormed(sym)
		b.directDependency(sym)
		b.reverseSelect(sym)
		b.weakReverseImply(sym)
		b.promptVisibility(sym)
		b.defaults(sym)
		if sym.Type == model.Choice {
			b.choiceGroup(sym)
		}
	}
	return b.terms
}

// add inserts n into the constraint set, skipping it if an identical node
// (by pointer, which pdag's sharing constructors guarantee for any
// structurally-equal formula) is already present.
func (b *Builder) add(n *Node) {
	if n == nil || b.dag.IsTrue(n) {
		return
	}
	if b.seen[n] {
		return
	}
	b.seen[n] = true
	b.terms = append(b.terms, n)
}

func (b *Builder) symbolWellFormed(sym *model.Symbol) {
	switch sym.Type {
	case model.Tri:
		// Yes implies at-least-Mod (fexpr_y -> fexpr_both), not mutual
		// exclusion: this is the encoding sym_add_assumption_tri assumes
		// against, and it is what lets a single Y/M pair name all three
		// tristate values unambiguously.
		y := b.dag.Leaf(b.store.SymbolY(sym))
		m := b.dag.Leaf(b.store.SymbolM(sym))
		b.add(b.dag.Implies(y, m))
	case model.Int, model.Hex, model.String:
		values := b.domain.Values(sym)
		unset := b.dag.Leaf(b.store.Unset(sym))
		lits := make([]*Node, 0, len(values)+1)
		lits = append(lits, unset)
		for _, v := range values {
			lits = append(lits, b.dag.Leaf(b.store.Equals(sym, v)))
		}
		b.add(b.atLeastOne(lits))
		b.add(b.atMostOne(lits))
	}
}

func (b *Builder) directDependency(sym *model.Symbol) {
	if sym.DirectDep.IsZero() {
		return
	}
	dep := b.lower.Both(sym.DirectDep)
	y := b.dag.Leaf(b.store.SymbolY(sym))
	b.add(b.dag.Implies(y, dep))
	if sym.Type == model.Tri {
		m := b.dag.Leaf(b.store.SymbolM(sym))
		b.add(b.dag.Implies(m, dep))
	}
}

func (b *Builder) reverseSelect(sym *model.Symbol) {
	if sym.ReverseDep.IsZero() {
		return
	}
	sel := b.lower.Both(sym.ReverseDep)
	y := b.dag.Leaf(b.store.SymbolY(sym))
	b.add(b.dag.Implies(sel, y))
}

func (b *Builder) weakReverseImply(sym *model.Symbol) {
	if sym.WeakReverseDep.IsZero() {
		return
	}
	imp := b.lower.Both(sym.WeakReverseDep)
	npc := b.dag.Leaf(b.store.NPC(sym))
	y := b.dag.Leaf(b.store.SymbolY(sym))
	b.add(b.dag.Implies(b.dag.And(imp, npc), y))
}

// promptVisibility wires the NPC ("no prompt condition") literal to the
// disjunction of every prompt's visibility condition: NPC is true exactly
// when no prompt is currently shown.
func (b *Builder) promptVisibility(sym *model.Symbol) {
	npc := b.dag.Leaf(b.store.NPC(sym))
	if sym.Prompt() == nil {
		b.add(npc) // no prompt declared at all: always hidden
		return
	}
	visible := b.dag.False()
	for i := range sym.Properties {
		if sym.Properties[i].Kind == model.PropPrompt {
			visible = b.dag.Or(visible, b.lower.Both(sym.Properties[i].Condition))
		}
	}
	b.add(b.dag.Equiv(npc, b.dag.Not(visible)))
}

// defaults encodes the classic shadowing rule: the first default whose
// condition holds wins, and later defaults only take effect if every
// earlier one's condition is false. Defaults only constrain the symbol
// while no prompt is visible to override them.
func (b *Builder) defaults(sym *model.Symbol) {
	defaults := sym.Defaults()
	if len(defaults) == 0 {
		return
	}
	npc := b.dag.Leaf(b.store.NPC(sym))

	notEarlier := b.dag.True()
	for _, def := range defaults {
		cond := b.lower.Both(def.Condition)
		shadow := b.dag.And(cond, notEarlier)
		guard := b.dag.And(shadow, npc)
		b.add(b.dag.Implies(guard, b.defaultValue(sym, def)))
		notEarlier = b.dag.And(notEarlier, b.dag.Not(cond))
	}
}

func (b *Builder) defaultValue(sym *model.Symbol, def *model.Property) *Node {
	if sym.IsBoolean() {
		return b.lower.Y(def.Value)
	}
	if def.Value.Kind == model.ExprConst {
		return b.dag.Leaf(b.store.Equals(sym, def.Value.Literal))
	}
	return b.lower.Y(def.Value)
}

// choiceGroup emits exactly-one (or at-most-one for an optional choice)
// over the group's members' Yes literals. The choice symbol's own value and
// its auxiliary literal take no part in these constraints, so they hold
// whether or not the choice itself is enabled.
func (b *Builder) choiceGroup(choice *model.Symbol) {
	if len(choice.Members) == 0 {
		return
	}
	lits := make([]*Node, len(choice.Members))
	for i, m := range choice.Members {
		lits[i] = b.dag.Leaf(b.store.SymbolY(m))
	}
	b.add(b.atMostOne(lits))
	if !choice.IsOptional {
		b.add(b.atLeastOne(lits))
	}
}

func (b *Builder) atLeastOne(lits []*Node) *Node {
	acc := lits[0]
	for _, l := range lits[1:] {
		acc = b.dag.Or(acc, l)
	}
	return acc
}

func (b *Builder) atMostOne(lits []*Node) *Node {
	acc := b.dag.True()
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			acc = b.dag.And(acc, b.dag.Not(b.dag.And(lits[i], lits[j])))
		}
	}
	return acc
}
