// Package fix is the Fix Applier (spec.md §4.8): given a diagnosis's
// proposed reassignments, it applies them to the live session through the
// model's range-checked setters and reports which ones stuck.
//
// This is a direct translation of configfix.c's apply_fix(): the original
// iterates the fix list up to twice its length, since applying one change
// can make a previously out-of-range value come into range (a dependency
// loosening its visibility window) on a later pass, but never more than
// twice because a fix list that hasn't converged by then isn't going to.
package fix

import (
	"fmt"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/model"
)

// Outcome records what happened to one assignment in a Diagnosis during
// Apply.
type Outcome struct {
	Assignment assume.Assignment
	Applied    bool
	Err        error
}

// Report summarizes one Apply call.
type Report struct {
	Outcomes []Outcome
	Applied  int
	Failed   int
}

func (r Report) String() string {
	return fmt.Sprintf("fix: %d applied, %d failed", r.Applied, r.Failed)
}

// Apply installs every assignment in changes into sess, retrying failed
// ones for up to 2*len(changes) total passes before giving up on whatever
// remains. It returns a Report recording the final disposition of each
// assignment, in the order changes were given.
func Apply(sess *model.Session, changes []assume.Assignment) Report {
	pending := make([]assume.Assignment, len(changes))
	copy(pending, changes)

	applied := make(map[int]bool, len(changes))
	lastErr := make(map[int]error, len(changes))

	maxPasses := 2 * len(changes)
	if maxPasses == 0 {
		return Report{}
	}

	for pass := 0; pass < maxPasses; pass++ {
		progress := false
		for i, a := range pending {
			if applied[i] {
				continue
			}
			if err := set(sess, a); err != nil {
				lastErr[i] = err
				continue
			}
			applied[i] = true
			lastErr[i] = nil
			progress = true
		}
		if !progress {
			break
		}
		allApplied := true
		for i := range pending {
			if !applied[i] {
				allApplied = false
				break
			}
		}
		if allApplied {
			break
		}
	}

	rep := Report{Outcomes: make([]Outcome, len(pending))}
	for i, a := range pending {
		ok := applied[i]
		rep.Outcomes[i] = Outcome{Assignment: a, Applied: ok, Err: lastErr[i]}
		if ok {
			rep.Applied++
		} else {
			rep.Failed++
		}
	}
	return rep
}

func set(sess *model.Session, a assume.Assignment) error {
	if a.Sym.IsBoolean() {
		return sess.SetTristate(a.Sym, a.Tri)
	}
	return sess.SetString(a.Sym, a.Str)
}
