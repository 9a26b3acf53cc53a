// Package cnf lowers a set of pdag formulas into conjunctive normal form
// clauses ready for a SAT solver, via the Tseitin transformation: any
// top-level conjunct that is already in CNF is unfolded directly into
// clauses with no auxiliary variables, while everything else is given a
// fresh auxiliary per AND/OR node along with the defining clauses that tie
// the auxiliary to its operands.
package cnf

import (
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/pdag"
)

// Node is the pdag node type this package consumes.
type Node = pdag.Node[fls.Literal]

// Clause is a disjunction of signed SAT variables (DIMACS literals: positive
// for the variable, negative for its complement).
type Clause []int

// CNF is an accumulated clause set, backed by a fls.Store for variable
// numbers.
type CNF struct {
	Clauses []Clause

	store    *fls.Store
	auxCache map[*Node]int
}

// New returns an empty CNF sink.
func New(store *fls.Store) *CNF {
	return &CNF{store: store, auxCache: make(map[*Node]int)}
}

// Add lowers and asserts n as a top-level constraint. If n is already in
// CNF it is unfolded clause-by-clause with no auxiliary variables; an AND
// that is not in CNF is split and each conjunct is added on its own;
// anything else is Tseitin-transformed and its top variable asserted with a
// unit clause.
func (c *CNF) Add(n *Node) {
	if pdag.IsCNF(n) {
		c.unfoldClauseSet(n)
		return
	}
	if n.Kind == pdag.And {
		c.Add(n.Left)
		c.Add(n.Right)
		return
	}
	v := c.lower(n)
	c.emit(Clause{v})
}

// AddAll lowers and asserts every node in ns.
func (c *CNF) AddAll(ns []*Node) {
	for _, n := range ns {
		c.Add(n)
	}
}

func (c *CNF) emit(cl Clause) {
	c.Clauses = append(c.Clauses, cl)
}

// unfoldClauseSet flattens a CNF-shaped AND-of-ORs into top-level clauses
// directly, introducing no auxiliary variables.
func (c *CNF) unfoldClauseSet(n *Node) {
	if n.Kind == pdag.And {
		c.unfoldClauseSet(n.Left)
		c.unfoldClauseSet(n.Right)
		return
	}
	c.emit(c.unfoldClause(n))
}

func (c *CNF) unfoldClause(n *Node) Clause {
	if n.Kind == pdag.Or {
		return append(c.unfoldClause(n.Left), c.unfoldClause(n.Right)...)
	}
	return Clause{c.literalOf(n)}
}

// literalOf returns the signed DIMACS literal for a node known to be a bare
// literal (SYMBOL or NOT-of-SYMBOL).
func (c *CNF) literalOf(n *Node) int {
	switch n.Kind {
	case pdag.Symbol:
		return c.store.Get(n.Lit)
	case pdag.Not:
		return -c.literalOf(n.Left)
	default:
		panic("cnf: expected a literal inside a CNF clause")
	}
}

// lower returns the signed DIMACS literal representing n, introducing
// Tseitin auxiliary variables for every AND/OR node regardless of whether a
// subtree happens to be in CNF: once embedded inside a non-CNF parent (e.g.
// under a NOT, or as one side of an OR with a conjunction on the other), a
// subterm needs a single variable standing for its whole value, not a
// clause-set expansion.
func (c *CNF) lower(n *Node) int {
	switch n.Kind {
	case pdag.Symbol:
		return c.store.Get(n.Lit)
	case pdag.Not:
		return -c.lower(n.Left)
	case pdag.And:
		return c.tseitinAnd(n)
	case pdag.Or:
		return c.tseitinOr(n)
	default:
		panic("cnf: unknown node kind")
	}
}

// tseitinAnd introduces aux <-> (l AND r): (!aux|l)(!aux|r)(aux|!l|!r).
func (c *CNF) tseitinAnd(n *Node) int {
	if v, ok := c.auxCache[n]; ok {
		return v
	}
	l := c.lower(n.Left)
	r := c.lower(n.Right)
	av := c.store.Get(c.store.FreshTmp())
	c.emit(Clause{-av, l})
	c.emit(Clause{-av, r})
	c.emit(Clause{av, -l, -r})
	c.auxCache[n] = av
	return av
}

// tseitinOr introduces aux <-> (l OR r): (!aux|l|r)(aux|!l)(aux|!r).
func (c *CNF) tseitinOr(n *Node) int {
	if v, ok := c.auxCache[n]; ok {
		return v
	}
	l := c.lower(n.Left)
	r := c.lower(n.Right)
	av := c.store.Get(c.store.FreshTmp())
	c.emit(Clause{-av, l, r})
	c.emit(Clause{av, -l})
	c.emit(Clause{av, -r})
	c.auxCache[n] = av
	return av
}
