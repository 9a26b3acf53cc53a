package solver

import "sort"

// engine is one run of the CDCL algorithm over a fixed clause set.
type engine struct {
	clauses []Clause
	watches map[Lit][]int
	tr      *trail
	qhead   int

	activity   []float64
	varInc     float64
	varDecay   float64
	order      []int // variables in index order; never re-sorted

	numVars int
}

func newEngine(numVars int, clauses []Clause) *engine {
	owned := make([]Clause, len(clauses))
	for i, cl := range clauses {
		owned[i] = Clause{Lits: append([]Lit(nil), cl.Lits...), Learned: cl.Learned}
	}
	e := &engine{
		clauses:  owned,
		watches:  make(map[Lit][]int),
		tr:       newTrail(numVars),
		activity: make([]float64, numVars+1),
		varInc:   1.0,
		varDecay: 0.95,
		numVars:  numVars,
	}
	for v := 1; v <= numVars; v++ {
		e.order = append(e.order, v)
	}
	return e
}

// attach registers clause ci's watch literals, or performs the immediate
// unit propagation/conflict check for unit and empty clauses.
func (e *engine) attach(ci int) (conflict bool) {
	cl := e.clauses[ci]
	switch len(cl.Lits) {
	case 0:
		return true
	case 1:
		lit := cl.Lits[0]
		switch e.tr.valueOf(lit) {
		case 1:
			return false
		case -1:
			return true
		default:
			e.tr.push(lit, ci)
			return false
		}
	default:
		e.watches[cl.Lits[0]] = append(e.watches[cl.Lits[0]], ci)
		e.watches[cl.Lits[1]] = append(e.watches[cl.Lits[1]], ci)
		return false
	}
}

// propagate runs unit propagation to a fixpoint, returning the index of a
// falsified clause, or -1 if none.
func (e *engine) propagate() int {
	for e.qhead < len(e.tr.entries) {
		lit := e.tr.entries[e.qhead].lit
		e.qhead++
		falseLit := -lit

		ws := e.watches[falseLit]
		keep := ws[:0]
		for i := 0; i < len(ws); i++ {
			ci := ws[i]
			cl := &e.clauses[ci]
			if cl.Lits[0] == falseLit {
				cl.Lits[0], cl.Lits[1] = cl.Lits[1], cl.Lits[0]
			}
			other := cl.Lits[0]
			if e.tr.valueOf(other) == 1 {
				keep = append(keep, ci)
				continue
			}

			replaced := false
			for k := 2; k < len(cl.Lits); k++ {
				c := cl.Lits[k]
				if e.tr.valueOf(c) != -1 {
					cl.Lits[1], cl.Lits[k] = cl.Lits[k], cl.Lits[1]
					e.watches[cl.Lits[1]] = append(e.watches[cl.Lits[1]], ci)
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}

			keep = append(keep, ci)
			if e.tr.valueOf(other) == -1 {
				e.watches[falseLit] = append(keep, ws[i+1:]...)
				return ci
			}
			e.tr.push(other, ci)
		}
		e.watches[falseLit] = keep
	}
	return -1
}

// analyze performs first-UIP conflict analysis, returning the learned
// clause (its first literal is the UIP, asserted at backtrackLevel) and the
// level to backtrack to.
func (e *engine) analyze(conflIdx int) (learnt []Lit, backtrackLevel int) {
	seen := make([]bool, e.numVars+1)
	counter := 0
	var p Lit
	reasonIdx := conflIdx
	learnt = append(learnt, 0) // placeholder for the UIP literal

	trailIdx := len(e.tr.entries) - 1
	for {
		cl := e.clauses[reasonIdx]
		for _, l := range cl.Lits {
			if l == p {
				continue
			}
			v := l.Var()
			if seen[v] || e.tr.level[v] <= 0 {
				continue
			}
			seen[v] = true
			e.bumpActivity(v)
			if e.tr.level[v] >= e.tr.currentLevel() {
				counter++
			} else {
				learnt = append(learnt, l)
				if e.tr.level[v] > backtrackLevel {
					backtrackLevel = e.tr.level[v]
				}
			}
		}

		for !seen[e.tr.entries[trailIdx].lit.Var()] {
			trailIdx--
		}
		p = e.tr.entries[trailIdx].lit
		seen[p.Var()] = false
		counter--
		if counter == 0 {
			break
		}
		reasonIdx = e.tr.reason[p.Var()]
		trailIdx--
	}
	learnt[0] = -p
	return learnt, backtrackLevel
}

// analyzeFinal computes the subset of assumption literals implicated in an
// UNSAT result, by walking the trail backward from confl the same way
// analyze does but without learning a clause — only collecting the
// decision/assumption literals (reason == -1) on the implication path.
// Mirrors MiniSat's analyzeFinal, used here to produce the failed-assumption
// core the diagnosis engine needs.
func (e *engine) analyzeFinal(conflIdx int, assumptionVars map[int]bool) []Lit {
	seen := make([]bool, e.numVars+1)
	var core []Lit

	for _, l := range e.clauses[conflIdx].Lits {
		v := l.Var()
		if e.tr.level[v] > 0 {
			seen[v] = true
		}
	}

	for i := len(e.tr.entries) - 1; i >= 0; i-- {
		v := e.tr.entries[i].lit.Var()
		if !seen[v] {
			continue
		}
		if e.tr.reason[v] == -1 {
			if assumptionVars[v] {
				core = append(core, e.tr.entries[i].lit)
			}
		} else {
			for _, l2 := range e.clauses[e.tr.reason[v]].Lits {
				v2 := l2.Var()
				if v2 != v && e.tr.level[v2] > 0 {
					seen[v2] = true
				}
			}
		}
		seen[v] = false
	}
	return core
}

// learn appends lits as a new clause and registers its watches (if it has
// at least two literals). It does not assert lits[0]; the caller does that
// once, after learn returns, so the clause index is available as the
// assignment's reason.
func (e *engine) learn(lits []Lit) int {
	ci := len(e.clauses)
	e.clauses = append(e.clauses, Clause{Lits: lits, Learned: true})
	if len(lits) >= 2 {
		e.watches[lits[0]] = append(e.watches[lits[0]], ci)
		e.watches[lits[1]] = append(e.watches[lits[1]], ci)
	}
	return ci
}

func (e *engine) bumpActivity(v int) {
	e.activity[v] += e.varInc
	if e.activity[v] > 1e100 {
		for i := range e.activity {
			e.activity[i] *= 1e-100
		}
		e.varInc *= 1e-100
	}
}

func (e *engine) decayActivity() {
	e.varInc /= e.varDecay
}

// pickDecisionVar returns the unassigned variable with the highest VSIDS
// activity. O(numVars) per decision, which this exercise's problem sizes
// never make a bottleneck.
func (e *engine) pickDecisionVar() int {
	best, bestAct := 0, -1.0
	for _, v := range e.order {
		if e.tr.isAssigned(v) {
			continue
		}
		if e.activity[v] > bestAct {
			best, bestAct = v, e.activity[v]
		}
	}
	return best
}

// solve runs CDCL search, having already had assumptions pushed as the
// first len(assumptions) decision levels by the caller. assumptionVars
// identifies which variables came from assumptions, for analyzeFinal.
func (e *engine) solve(numAssumptionLevels int, assumptionVars map[int]bool) Result {
	for {
		conflIdx := e.propagate()
		if conflIdx >= 0 {
			if e.tr.currentLevel() <= numAssumptionLevels {
				return Result{Status: Unsatisfiable, Core: e.analyzeFinal(conflIdx, assumptionVars)}
			}

			learnt, backLevel := e.analyze(conflIdx)
			e.decayActivity()
			e.tr.backtrackTo(backLevel)
			e.qhead = len(e.tr.entries)
			ci := e.learn(learnt)
			e.tr.push(learnt[0], ci)
			continue
		}

		v := e.pickDecisionVar()
		if v == 0 {
			return Result{Status: Satisfiable, Model: e.model()}
		}
		e.tr.newDecisionLevel()
		e.tr.push(Lit(v), -1)
	}
}

func (e *engine) model() map[int]bool {
	m := make(map[int]bool, e.numVars)
	for v := 1; v <= e.numVars; v++ {
		m[v] = e.tr.valueOf(Lit(v)) == 1
	}
	return m
}

// sortAssumptionsStable keeps diagnosis's per-symbol assumption ordering
// deterministic regardless of map iteration, since the discovery order of
// UNSAT cores must be stable across runs.
func sortAssumptionsStable(lits []Lit) []Lit {
	out := append([]Lit(nil), lits...)
	sort.Slice(out, func(i, j int) bool { return out[i].Var() < out[j].Var() })
	return out
}
