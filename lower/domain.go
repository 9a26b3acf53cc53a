package lower

import "github.com/xDarkicex/satconf/model"

// Domain records, per non-boolean symbol, the finite set of values that
// the model's expressions compare it against (see Collect); default values
// and range bounds are not recorded. Mirrors the original tool's approach of
// only minting an
// FE_NONBOOL literal for values it has actually seen in the Kconfig tree,
// rather than enumerating a symbol's entire numeric range.
type Domain struct {
	values map[*model.Symbol][]string
	seen   map[*model.Symbol]map[string]bool
}

// NewDomain returns an empty Domain.
func NewDomain() *Domain {
	return &Domain{
		values: make(map[*model.Symbol][]string),
		seen:   make(map[*model.Symbol]map[string]bool),
	}
}

// Observe records that value occurs for sym, if not already known.
func (d *Domain) Observe(sym *model.Symbol, value string) {
	if d.seen[sym] == nil {
		d.seen[sym] = make(map[string]bool)
	}
	if d.seen[sym][value] {
		return
	}
	d.seen[sym][value] = true
	d.values[sym] = append(d.values[sym], value)
}

// Values returns every value observed for sym, in first-seen order.
func (d *Domain) Values(sym *model.Symbol) []string {
	return d.values[sym]
}

// Collect walks e's comparisons and records every literal value mentioned,
// so that later lowering of numeric/string comparisons against sym has a
// finite candidate set to disjoin over.
func (d *Domain) Collect(e model.Expr) {
	switch e.Kind {
	case model.ExprAnd, model.ExprOr:
		d.Collect(e.Left)
		d.Collect(e.Right)
	case model.ExprNot:
		d.Collect(e.Left)
	case model.ExprEqual, model.ExprUnequal, model.ExprLt, model.ExprLe, model.ExprGt, model.ExprGe:
		if e.Rhs.Kind == model.ExprConst {
			d.Observe(e.Lhs, e.Rhs.Literal)
		}
	}
}
