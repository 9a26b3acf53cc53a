// Package pdag implements the propositional DAG used to represent feature
// constraints once they have been lowered out of model.Expr: a small set of
// SYMBOL/AND/OR/NOT nodes over boolean feature literals, built through
// sharing constructors so that structurally identical subterms collapse to
// the same node.
//
// The original tool manages this graph with manual reference counting
// (pexpr_get/pexpr_put); Go's garbage collector makes that bookkeeping
// unnecessary; the cache below gives the same structural sharing without it.
package pdag

import "unsafe"

// Kind discriminates node types, mirroring enum pexpr_type.
type Kind int

const (
	Symbol Kind = iota
	And
	Or
	Not
)

// Literal is the leaf payload of a Symbol node: an opaque, comparable handle
// identifying a feature literal (see package fls). pdag never interprets the
// literal itself, only compares it for identity and asks for its negation.
type Literal interface {
	comparable
}

// Node is an immutable propositional DAG node over literal type L.
type Node[L Literal] struct {
	Kind  Kind
	Lit   L    // valid when Kind == Symbol
	Left  *Node[L]
	Right *Node[L] // valid when Kind == And or Or

	// SatVal is a slot for a SAT variable number; zero means "not
	// assigned". Package cnf does not use it: it keeps its Tseitin
	// auxiliaries in its own per-CNF map.
	SatVal int
}

// Builder constructs and shares Nodes for a single literal type.
type Builder[L Literal] struct {
	symbols map[L]*Node[L]
	nots    map[*Node[L]]*Node[L]
	ands    map[pairKey[L]]*Node[L]
	ors     map[pairKey[L]]*Node[L]
	negate  func(L) L

	trueNode, falseNode *Node[L]
}

type pairKey[L Literal] struct {
	left, right *Node[L]
}

// NewBuilder returns a Builder. negate must return the logical negation of a
// literal (used by the NOT-of-SYMBOL simplification).
func NewBuilder[L Literal](negate func(L) L) *Builder[L] {
	return &Builder[L]{
		symbols: make(map[L]*Node[L]),
		nots:    make(map[*Node[L]]*Node[L]),
		ands:    make(map[pairKey[L]]*Node[L]),
		ors:     make(map[pairKey[L]]*Node[L]),
		negate:  negate,
	}
}

// Leaf returns the (shared) SYMBOL node for lit.
func (b *Builder[L]) Leaf(lit L) *Node[L] {
	if n, ok := b.symbols[lit]; ok {
		return n
	}
	n := &Node[L]{Kind: Symbol, Lit: lit}
	b.symbols[lit] = n
	return n
}

// Not builds the negation of a, applying the standard simplifications:
// NOT(NOT x) = x, and NOT(SYMBOL l) = SYMBOL(negate(l)).
func (b *Builder[L]) Not(a *Node[L]) *Node[L] {
	switch a.Kind {
	case Not:
		return a.Left
	case Symbol:
		return b.Leaf(b.negate(a.Lit))
	}
	if n, ok := b.nots[a]; ok {
		return n
	}
	n := &Node[L]{Kind: Not, Left: a}
	b.nots[a] = n
	return n
}

// And builds the conjunction of a and b, applying absorption/idempotence/
// complementation identities before falling back to a shared AND node.
func (b *Builder[L]) And(a, c *Node[L]) *Node[L] {
	if a == c {
		return a
	}
	if b.isFalse(a) || b.isFalse(c) {
		return b.False()
	}
	if b.isTrue(a) {
		return c
	}
	if b.isTrue(c) {
		return a
	}
	if b.areComplements(a, c) {
		return b.False()
	}
	left, right := a, c
	if nodeLess(right, left) {
		left, right = right, left
	}
	key := pairKey[L]{left, right}
	if n, ok := b.ands[key]; ok {
		return n
	}
	n := &Node[L]{Kind: And, Left: left, Right: right}
	b.ands[key] = n
	return n
}

// Or builds the disjunction of a and b, with the dual identities of And.
func (b *Builder[L]) Or(a, c *Node[L]) *Node[L] {
	if a == c {
		return a
	}
	if b.isTrue(a) || b.isTrue(c) {
		return b.True()
	}
	if b.isFalse(a) {
		return c
	}
	if b.isFalse(c) {
		return a
	}
	if b.areComplements(a, c) {
		return b.True()
	}
	left, right := a, c
	if nodeLess(right, left) {
		left, right = right, left
	}
	key := pairKey[L]{left, right}
	if n, ok := b.ors[key]; ok {
		return n
	}
	n := &Node[L]{Kind: Or, Left: left, Right: right}
	b.ors[key] = n
	return n
}

// Implies builds "a -> c", i.e. NOT(a) OR c.
func (b *Builder[L]) Implies(a, c *Node[L]) *Node[L] {
	return b.Or(b.Not(a), c)
}

// Equiv builds "a <-> c".
func (b *Builder[L]) Equiv(a, c *Node[L]) *Node[L] {
	return b.And(b.Implies(a, c), b.Implies(c, a))
}

// IsTrue reports whether n is the constant True sentinel.
func (b *Builder[L]) IsTrue(n *Node[L]) bool { return b.isTrue(n) }

// IsFalse reports whether n is the constant False sentinel.
func (b *Builder[L]) IsFalse(n *Node[L]) bool { return b.isFalse(n) }

func (b *Builder[L]) areComplements(a, c *Node[L]) bool {
	return b.Not(a) == c
}

// True/False are sentinel constant nodes, set once the caller designates a
// literal for each via SetConstants. Until then isTrue/isFalse never match,
// which only disables the constant-folding identities, not correctness.
func (b *Builder[L]) True() *Node[L] {
	return b.trueNode
}

func (b *Builder[L]) False() *Node[L] {
	return b.falseNode
}

func (b *Builder[L]) isTrue(n *Node[L]) bool  { return b.trueNode != nil && n == b.trueNode }
func (b *Builder[L]) isFalse(n *Node[L]) bool { return b.falseNode != nil && n == b.falseNode }

// SetConstants designates the TRUE/FALSE sentinel literals minted by the
// caller's literal store, enabling constant folding in And/Or/Not.
func (b *Builder[L]) SetConstants(trueLit, falseLit L) {
	b.trueNode = b.Leaf(trueLit)
	b.falseNode = b.Leaf(falseLit)
}

// nodeLess gives And/Or a stable ordering for their operands so that
// pexpr_test_eq-style structural equality reduces to pointer equality: two
// logically-commutative constructions of the same pair always share a node
// regardless of call order.
func nodeLess[L Literal](x, y *Node[L]) bool {
	return uintptr(unsafe.Pointer(x)) < uintptr(unsafe.Pointer(y))
}
