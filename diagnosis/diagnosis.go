// Package diagnosis is the hitting-set diagnosis engine: given a jointly
// unsatisfiable proposed configuration, it searches for minimal diagnoses —
// small sets of symbol reassignments that, applied together, make the
// configuration satisfiable again. It follows the classical hitting-set
// dualization (HSDAG) shape: every UNSAT core returned by the assumption
// driver must be "hit" by reassigning at least one of its symbols, and each
// branch of that choice becomes a child search node.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/model"
)

var (
	ErrTimeout       = errors.New("diagnosis: timed out before the search completed")
	ErrCanceled      = errors.New("diagnosis: canceled before the search completed")
	ErrRunInProgress = errors.New("diagnosis: a run is already in progress on this engine")
)

// Candidate is one conflicting symbol's space of reassignment options,
// excluding the value it was already assigned in the base proposal.
type Candidate struct {
	Sym    *model.Symbol
	Values []assume.Assignment
}

// Diagnosis is a single minimal fix: a set of symbol reassignments that,
// substituted into the base proposal, makes it satisfiable.
type Diagnosis struct {
	Changes []assume.Assignment
}

func (d Diagnosis) String() string {
	return fmt.Sprintf("%v", d.Changes)
}

// Engine runs hitting-set searches against a single assume.Driver. It
// rejects concurrent Run calls rather than serializing them silently:
// a diagnosis search mutates no shared state, but running two at once
// would starve both of the cancellation budget the caller intended for one.
type Engine struct {
	driver *assume.Driver
	sf     singleflight.Group
}

// New returns an Engine backed by driver.
func New(driver *assume.Driver) *Engine {
	return &Engine{driver: driver}
}

// Run searches for up to maxDiagnoses minimal diagnoses resolving base,
// using candidates as the reassignment options for each conflicting symbol.
// It runs at most one search at a time per Engine; a Run call that arrives
// while another is already in flight returns ErrRunInProgress immediately.
func (e *Engine) Run(ctx context.Context, base []assume.Assignment, candidates []Candidate, maxDiagnoses int) ([]Diagnosis, error) {
	runID := uuid.New().String()
	v, err, shared := e.sf.Do("run", func() (any, error) {
		return e.search(ctx, base, candidates, maxDiagnoses, runID)
	})
	if shared {
		return nil, ErrRunInProgress
	}
	if err != nil {
		return nil, err
	}
	return v.([]Diagnosis), nil
}

type searchState struct {
	ctx     context.Context
	base    []assume.Assignment
	byName  map[string]*Candidate
	max     int
	found   []Diagnosis
	visited map[string]bool
}

func (e *Engine) search(ctx context.Context, base []assume.Assignment, candidates []Candidate, maxDiagnoses int, runID string) ([]Diagnosis, error) {
	st := &searchState{
		ctx:     ctx,
		base:    base,
		byName:  make(map[string]*Candidate, len(candidates)),
		max:     maxDiagnoses,
		visited: make(map[string]bool),
	}
	for i := range candidates {
		st.byName[candidates[i].Sym.Name] = &candidates[i]
	}

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	if err := e.expand(st, nil); err != nil && !errors.Is(err, errDone) {
		return st.found, err
	}
	return st.found, nil
}

// errDone is an internal sentinel used to unwind the recursive search once
// maxDiagnoses has been reached; it is never returned to callers of Run.
var errDone = errors.New("diagnosis: search bound reached")

// expand explores one hitting-set-tree node: diagnosis holds the
// reassignments decided so far on the path from the root.
func (e *Engine) expand(st *searchState, diagnosis []assume.Assignment) error {
	if err := ctxErr(st.ctx); err != nil {
		return err
	}
	if st.max > 0 && len(st.found) >= st.max {
		return errDone
	}

	sig := signature(diagnosis)
	if st.visited[sig] {
		return nil
	}
	st.visited[sig] = true

	proposal := applyOverrides(st.base, diagnosis)
	res, err := e.driver.Run(proposal)
	if err != nil {
		return err
	}

	if res.Outcome == assume.Satisfiable {
		// Only a minimal set is a diagnosis: dropping any one change must
		// leave the proposal unsatisfiable.
		for i := range diagnosis {
			sub := append(append([]assume.Assignment(nil), diagnosis[:i]...), diagnosis[i+1:]...)
			r, err := e.driver.Run(applyOverrides(st.base, sub))
			if err != nil {
				return err
			}
			if r.Outcome == assume.Satisfiable {
				return nil
			}
		}
		st.found = append(st.found, Diagnosis{Changes: append([]assume.Assignment(nil), diagnosis...)})
		return nil
	}
	if res.Outcome != assume.Unsatisfiable {
		return nil
	}

	decided := make(map[string]bool, len(diagnosis))
	for _, a := range diagnosis {
		decided[a.Sym.Name] = true
	}

	// Branch on every literal of the core, not just the first: a diagnosis
	// that only hits the core through a later element would otherwise never
	// be explored, and the search would miss it entirely.
	for _, hit := range res.Core {
		if decided[hit.Sym.Name] {
			continue // already reassigned on this path; core must be hit elsewhere
		}
		cand, ok := st.byName[hit.Sym.Name]
		if !ok {
			continue // not a symbol we're allowed to change
		}
		for _, alt := range cand.Values {
			child := append(append([]assume.Assignment(nil), diagnosis...), alt)
			if err := e.expand(st, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyOverrides(base []assume.Assignment, overrides []assume.Assignment) []assume.Assignment {
	out := make([]assume.Assignment, len(base))
	copy(out, base)
	for _, ov := range overrides {
		replaced := false
		for i := range out {
			if out[i].Sym == ov.Sym {
				out[i] = ov
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, ov)
		}
	}
	return out
}

func signature(diagnosis []assume.Assignment) string {
	cp := append([]assume.Assignment(nil), diagnosis...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Sym.Name < cp[j].Sym.Name })
	s := ""
	for _, a := range cp {
		s += a.String() + ";"
	}
	return s
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrCanceled
	default:
		return nil
	}
}
