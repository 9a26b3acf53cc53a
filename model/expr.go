package model

// ExprKind discriminates the node types of an expression tree. The set
// mirrors spec.md §4.3: symbol references, boolean connectives, equality,
// and the four numeric comparisons.
type ExprKind int

const (
	ExprSymbol ExprKind = iota // reference to a symbol (possibly a tristate constant)
	ExprConst                  // literal string/number, used on the RHS of comparisons
	ExprAnd
	ExprOr
	ExprNot
	ExprEqual
	ExprUnequal
	ExprLt
	ExprLe
	ExprGt
	ExprGe
)

// Expr is an immutable expression tree node. Construction helpers below
// build well-formed nodes; callers never set fields directly.
type Expr struct {
	Kind ExprKind

	// ExprSymbol
	Sym *Symbol

	// ExprConst
	Literal string

	// ExprAnd, ExprOr: Left/Right are both set.
	// ExprNot: only Left is set.
	Left, Right Expr

	// ExprEqual, ExprUnequal, ExprLt..ExprGe: LHS is always a symbol
	// reference, RHS is either another symbol reference or a literal.
	Lhs *Symbol
	Rhs Expr
}

// True is the symbolic constant satisfied by every configuration, used as
// the default condition when a property has none.
var True = Expr{Kind: ExprConst, Literal: "y"}

// Ref builds a reference to sym.
func Ref(sym *Symbol) Expr { return Expr{Kind: ExprSymbol, Sym: sym} }

// Lit builds a literal string/number constant (for comparisons).
func Lit(value string) Expr { return Expr{Kind: ExprConst, Literal: value} }

// And builds the conjunction of a and b.
func And(a, b Expr) Expr { return Expr{Kind: ExprAnd, Left: a, Right: b} }

// Or builds the disjunction of a and b.
func Or(a, b Expr) Expr { return Expr{Kind: ExprOr, Left: a, Right: b} }

// Not builds the negation of a.
func Not(a Expr) Expr { return Expr{Kind: ExprNot, Left: a} }

// Equal builds "lhs = rhs".
func Equal(lhs *Symbol, rhs Expr) Expr {
	return Expr{Kind: ExprEqual, Lhs: lhs, Rhs: rhs}
}

// Unequal builds "lhs != rhs".
func Unequal(lhs *Symbol, rhs Expr) Expr {
	return Expr{Kind: ExprUnequal, Lhs: lhs, Rhs: rhs}
}

// Compare builds one of the four numeric comparisons.
func Compare(kind ExprKind, lhs *Symbol, rhs Expr) Expr {
	return Expr{Kind: kind, Lhs: lhs, Rhs: rhs}
}

// IsZero reports whether e is the unset Expr (used as "no condition").
func (e Expr) IsZero() bool { return e.Kind == 0 && e.Sym == nil && e.Literal == "" && e.Lhs == nil }
