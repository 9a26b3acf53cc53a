// Package assume is the assumption driver: it installs a proposed
// configuration (the current/wanted value of every symbol, with the
// symbols under conflict substituted by their proposed override) as SAT
// assumptions against the session's compiled constraint set, and reports
// whether that configuration is jointly satisfiable.
//
// This mirrors run_satconf_list()'s role in the original tool: build the
// constraint set once per session, then solve it repeatedly under differing
// assumption sets as the diagnosis engine probes candidate fixes.
package assume

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/xDarkicex/satconf/cnf"
	"github.com/xDarkicex/satconf/constraints"
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/lower"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
	"github.com/xDarkicex/satconf/solver"
)

// Assignment is one symbol's desired value in a proposed configuration.
type Assignment struct {
	Sym   *model.Symbol
	Tri   model.Tristate // meaningful when Sym.IsBoolean()
	Str   string         // meaningful when Sym.IsNonBoolean() && !Unset
	Unset bool           // Sym.IsNonBoolean() carries no value at all
}

func (a Assignment) String() string {
	if a.Sym.IsBoolean() {
		return fmt.Sprintf("%s=%s", a.Sym.Name, a.Tri)
	}
	if a.Unset {
		return a.Sym.Name + "=(unset)"
	}
	return fmt.Sprintf("%s=%s", a.Sym.Name, a.Str)
}

// Outcome classifies a Run result.
type Outcome int

const (
	Satisfiable Outcome = iota
	Unsatisfiable
	Indeterminate
)

func (o Outcome) String() string {
	switch o {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "indeterminate"
	}
}

// Result is the outcome of one Run call.
type Result struct {
	Outcome Outcome

	// Core holds the subset of the requested assignments that are jointly
	// unsatisfiable, valid only when Outcome == Unsatisfiable.
	Core []Assignment
}

// Driver compiles a session's constraint set once and solves it repeatedly
// under different assumption sets.
type Driver struct {
	store       *fls.Store
	dag         *pdag.Builder[fls.Literal]
	domain      *lower.Domain
	clauses     []cnf.Clause
	solverName  string
	sess        *model.Session
	cache       *ResultCache
	fingerprint string
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithResultCache memoizes every Run outcome in cache, keyed by the
// compiled constraint set and the proposed assignments. A diagnosis search
// revisits the same proposal along different branches of its hitting-set
// tree, so a populated cache turns repeated probes into disk reads instead
// of solver invocations.
func WithResultCache(cache *ResultCache) Option {
	return func(d *Driver) { d.cache = cache }
}

// NewDriver compiles sess's constraint set using the named solver driver
// (see package solver's registry) for every subsequent Run call.
func NewDriver(sess *model.Session, solverName string, opts ...Option) *Driver {
	domain := lower.NewDomain()
	for _, sym := range sess.AllSymbols() {
		domain.Collect(sym.DirectDep)
		for _, p := range sym.Properties {
			domain.Collect(p.Condition)
			domain.Collect(p.Value)
		}
	}

	store := fls.NewStore()
	dag := pdag.NewBuilder(fls.Literal.Negate)
	dag.SetConstants(store.True(), store.False())

	lw := lower.New(store, dag, domain)
	cb := constraints.New(store, dag, lw, domain)
	terms := cb.Build(sess)

	sink := cnf.New(store)
	sink.AddAll(terms)

	d := &Driver{
		store:      store,
		dag:        dag,
		domain:     domain,
		clauses:    sink.Clauses,
		solverName: solverName,
		sess:       sess,
	}
	d.fingerprint = clauseFingerprint(sink.Clauses)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func clauseFingerprint(clauses []cnf.Clause) string {
	h := sha256.New()
	for _, cl := range clauses {
		for _, lit := range cl {
			fmt.Fprintf(h, "%d,", lit)
		}
		h.Write([]byte{';'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Run solves the compiled constraint set under the given proposed
// configuration. Trivially-satisfied calls (every assignment already the
// symbol's current value) still go through the solver, since a conflict set
// spanning several symbols can only be judged jointly.
func (d *Driver) Run(assign []Assignment) (Result, error) {
	if res, ok := d.cache.Get(d.sess, d.fingerprint, assign); ok {
		return res, nil
	}

	s, err := solver.Open(d.solverName)
	if err != nil {
		return Result{}, err
	}

	litOf := make(map[solver.Lit]Assignment, len(assign))
	assumptions := make([]solver.Lit, 0, len(assign))
	for _, a := range assign {
		for _, lit := range d.literalsFor(a) {
			sv := solver.Lit(d.store.Get(lit))
			assumptions = append(assumptions, sv)
			litOf[sv] = a
		}
	}

	clauses := make([]solver.Clause, len(d.clauses))
	for i, cl := range d.clauses {
		lits := make([]solver.Lit, len(cl))
		for j, v := range cl {
			lits[j] = solver.Lit(v)
		}
		clauses[i] = solver.Clause{Lits: lits}
	}

	res, err := s.Solve(d.store.Len(), clauses, assumptions)
	if err != nil {
		return Result{}, err
	}

	var out Result
	switch res.Status {
	case solver.Satisfiable:
		out = Result{Outcome: Satisfiable}
	case solver.Unsatisfiable:
		core := make([]Assignment, 0, len(res.Core))
		for _, l := range res.Core {
			if a, ok := litOf[l]; ok {
				core = append(core, a)
			}
		}
		out = Result{Outcome: Unsatisfiable, Core: core}
	default:
		out = Result{Outcome: Indeterminate}
	}
	d.cache.Put(d.fingerprint, assign, out)
	return out, nil
}

// literalsFor returns every literal that must be assumed to pin a symbol
// down to its exact value, not merely rule others out. A plain Bool symbol only has
// a Y literal. A tristate symbol needs both its Y and "at least Mod" (M)
// literals, per the injective map {no:(-y,-m), mod:(-y,+m), yes:(+y,+m)}
// that sym_add_assumption_tri assumes in the original tool: a single
// literal leaves the other free for the solver to pick, which can mask a
// conflict that only shows up at one specific tristate value.
func (d *Driver) literalsFor(a Assignment) []fls.Literal {
	if a.Sym.IsBoolean() {
		y := d.store.SymbolY(a.Sym)
		if a.Sym.Type == model.Bool {
			if a.Tri == model.Yes {
				return []fls.Literal{y}
			}
			return []fls.Literal{y.Negate()}
		}
		m := d.store.SymbolM(a.Sym)
		switch a.Tri {
		case model.Yes:
			return []fls.Literal{y, m}
		case model.Mod:
			return []fls.Literal{y.Negate(), m}
		default:
			return []fls.Literal{y.Negate(), m.Negate()}
		}
	}
	if a.Unset {
		return []fls.Literal{d.store.Unset(a.Sym)}
	}
	return []fls.Literal{d.store.Equals(a.Sym, a.Str)}
}
