// Package dimacs renders compiled constraints for human inspection and
// external solvers: an infix pretty-printer for pdag formulas, and a DIMACS
// CNF file writer (with "c <satval> <name>" comment lines identifying every
// variable) for the clause set package cnf produces.
package dimacs

import (
	"bufio"
	"fmt"
	"io"

	"fortio.org/safecast"

	"github.com/xDarkicex/satconf/cnf"
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/pdag"
)

// Node is the pdag node type this package renders.
type Node = pdag.Node[fls.Literal]

// Infix renders n as a parenthesized infix expression using & (AND), |
// (OR), and ! (NOT), with symbol literals rendered via fls.Literal.String.
func Infix(n *Node) string {
	switch n.Kind {
	case pdag.Symbol:
		return n.Lit.String()
	case pdag.Not:
		return "!" + Infix(n.Left)
	case pdag.And:
		return "(" + Infix(n.Left) + " & " + Infix(n.Right) + ")"
	case pdag.Or:
		return "(" + Infix(n.Left) + " | " + Infix(n.Right) + ")"
	default:
		return "?"
	}
}

// WriteCNF writes store's clause set c to w in DIMACS CNF format: a leading
// block of "c <satval> <name>" comments naming every minted variable, the
// "p cnf <vars> <clauses>" header, and one clause line per row of c,
// terminated by "0". DIMACS literals are conventionally 32-bit; satval and
// clause literals are tracked as plain int internally (native solver
// arithmetic), so the conversion at the file boundary is range-checked
// with safecast rather than a bare int32(...) truncation.
func WriteCNF(w io.Writer, store *fls.Store, c *cnf.CNF) error {
	bw := bufio.NewWriter(w)

	for _, entry := range store.Dump() {
		if _, err := fmt.Fprintln(bw, entry.String()); err != nil {
			return err
		}
	}

	nvars, err := safecast.Conv[int32](store.Len())
	if err != nil {
		return fmt.Errorf("dimacs: variable count overflows DIMACS int32: %w", err)
	}
	nclauses, err := safecast.Conv[int32](len(c.Clauses))
	if err != nil {
		return fmt.Errorf("dimacs: clause count overflows DIMACS int32: %w", err)
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", nvars, nclauses); err != nil {
		return err
	}

	for _, cl := range c.Clauses {
		for _, lit := range cl {
			l32, err := safecast.Conv[int32](lit)
			if err != nil {
				return fmt.Errorf("dimacs: literal %d overflows DIMACS int32: %w", lit, err)
			}
			if _, err := fmt.Fprintf(bw, "%d ", l32); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw, "0"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
