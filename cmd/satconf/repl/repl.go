// Package repl is the interactive front-end to the resolver core: a small
// command loop exposing add/rm/clear/show/solve/apply/open/write/help,
// matching the command set spec.md §6 describes for the reference front-end.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/cnf"
	"github.com/xDarkicex/satconf/constraints"
	"github.com/xDarkicex/satconf/diagnosis"
	"github.com/xDarkicex/satconf/dimacs"
	"github.com/xDarkicex/satconf/fix"
	"github.com/xDarkicex/satconf/fls"
	"github.com/xDarkicex/satconf/internal/config"
	"github.com/xDarkicex/satconf/lower"
	"github.com/xDarkicex/satconf/model"
	"github.com/xDarkicex/satconf/pdag"
)

// REPL holds one interactive session's state: the loaded model, the
// proposed conflict list being built up by add/rm, and the most recent
// solve/diagnosis results so apply can act on them.
type REPL struct {
	sess       *model.Session
	solverName string
	prefs      config.Prefs

	conflict []assume.Assignment
	lastDiag []diagnosis.Diagnosis

	out   io.Writer
	color bool
	cache *assume.ResultCache
}

// New returns a REPL over sess, using the named registered solver driver
// and the given preferences (see internal/config). A per-user disk cache of
// solve outcomes is opened on a best-effort basis; a REPL still runs fine
// without one, just without memoized solves across invocations.
func New(sess *model.Session, solverName string, prefs config.Prefs, out io.Writer) *REPL {
	r := &REPL{sess: sess, solverName: solverName, prefs: prefs, out: out}
	if cache, err := assume.OpenResultCache("satconf"); err == nil {
		r.cache = cache
	}
	switch prefs.Color {
	case "on":
		r.color = true
	case "off":
		r.color = false
	default:
		r.color = isatty.IsTerminal(os.Stdout.Fd())
	}
	return r
}

// Run reads commands from in until EOF, writing results and a usage line
// on unrecognized input to the REPL's configured output.
func (r *REPL) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "satconf> ")
		if !scanner.Scan() {
			return nil // EOF: exit the loop cleanly.
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if err := r.dispatch(cmd, args); err != nil {
			r.printErr(err)
		}
	}
}

func (r *REPL) dispatch(cmd string, args []string) error {
	switch cmd {
	case "add":
		return r.cmdAdd(args)
	case "rm":
		return r.cmdRm(args)
	case "clear":
		return r.cmdClear(args)
	case "show":
		return r.cmdShow(args)
	case "solve":
		return r.cmdSolve(args)
	case "apply":
		return r.cmdApply(args)
	case "open":
		return r.cmdOpen(args)
	case "write":
		return r.cmdWrite(args)
	case "help":
		return r.cmdHelp(args)
	default:
		r.usage()
		return nil
	}
}

func (r *REPL) usage() {
	fmt.Fprintln(r.out, "usage: add <symbol> <value> | rm <symbol> | clear | show | solve | apply <n> | open <file> | write <file> | help")
}

func (r *REPL) cmdHelp(args []string) error {
	r.usage()
	fmt.Fprintln(r.out, "  add SYM VAL    propose SYM=VAL (y/m/n, or a raw value for non-boolean symbols)")
	fmt.Fprintln(r.out, "  rm SYM         drop SYM from the proposed conflict")
	fmt.Fprintln(r.out, "  clear          drop every proposed assignment")
	fmt.Fprintln(r.out, "  show           print the proposed conflict and the session's current values")
	fmt.Fprintln(r.out, "  solve          check satisfiability, listing diagnoses on conflict")
	fmt.Fprintln(r.out, "  apply N        apply the Nth diagnosis from the last solve")
	fmt.Fprintln(r.out, "  open FILE      load a YAML symbol database or a .config file")
	fmt.Fprintln(r.out, "  write FILE     write the session's current values as a .config file")
	return nil
}

func (r *REPL) cmdAdd(args []string) error {
	if len(args) != 2 {
		r.usage()
		return nil
	}
	sym, ok := r.sess.Symbol(args[0])
	if !ok {
		return fmt.Errorf("add: %w: %s", model.ErrUnknownSymbol, args[0])
	}
	a := assume.Assignment{Sym: sym}
	if sym.IsBoolean() {
		tri, ok := model.ParseTristate(args[1])
		if !ok {
			return fmt.Errorf("add: %q is not a valid tristate value", args[1])
		}
		a.Tri = tri
	} else {
		a.Str = args[1]
	}
	r.conflict = r.removeSym(r.conflict, sym)
	r.conflict = append(r.conflict, a)
	return nil
}

func (r *REPL) cmdRm(args []string) error {
	if len(args) != 1 {
		r.usage()
		return nil
	}
	sym, ok := r.sess.Symbol(args[0])
	if !ok {
		return fmt.Errorf("rm: %w: %s", model.ErrUnknownSymbol, args[0])
	}
	r.conflict = r.removeSym(r.conflict, sym)
	return nil
}

func (r *REPL) removeSym(list []assume.Assignment, sym *model.Symbol) []assume.Assignment {
	out := list[:0]
	for _, a := range list {
		if a.Sym != sym {
			out = append(out, a)
		}
	}
	return out
}

func (r *REPL) cmdClear(args []string) error {
	r.conflict = nil
	r.lastDiag = nil
	return nil
}

func (r *REPL) cmdShow(args []string) error {
	fmt.Fprintln(r.out, "proposed conflict:")
	for _, a := range r.conflict {
		fmt.Fprintf(r.out, "  %s\n", a)
	}
	fmt.Fprintln(r.out, "current session values:")
	for _, name := range r.sess.SortedNames() {
		sym := r.sess.MustSymbol(name)
		if sym.IsBoolean() {
			fmt.Fprintf(r.out, "  %s=%s\n", sym.Name, sym.CurrentTri)
		} else if sym.HasValue {
			fmt.Fprintf(r.out, "  %s=%s\n", sym.Name, sym.CurrentStr)
		}
	}
	return nil
}

func (r *REPL) cmdSolve(args []string) error {
	driver := assume.NewDriver(r.sess, r.solverName, assume.WithResultCache(r.cache))
	proposal := baseProposal(r.sess, r.conflict)
	res, err := driver.Run(proposal)
	if err != nil {
		return err
	}
	if res.Outcome == assume.Satisfiable {
		r.printOK("satisfiable: the proposed configuration has no conflicts")
		// The targets themselves still count as a one-element diagnosis: a
		// satisfiable proposal is the trivial fix, and apply needs something
		// to act on.
		r.lastDiag = []diagnosis.Diagnosis{{Changes: append([]assume.Assignment(nil), r.conflict...)}}
		r.printDiagnoses(r.lastDiag)
		return nil
	}

	r.printConflict(fmt.Sprintf("unsatisfiable: conflicting core has %d assignment(s)", len(res.Core)))
	for _, a := range res.Core {
		fmt.Fprintf(r.out, "  ! %s\n", a)
	}

	candidates := buildCandidates(r.sess, res.Core, r.conflict)
	ctx, cancel := context.WithTimeout(context.Background(), r.prefs.DiagnosisTimeout)
	defer cancel()
	eng := diagnosis.New(driver)
	diags, err := eng.Run(ctx, proposal, candidates, r.prefs.MaxDiagnoses)
	if err != nil {
		return err
	}
	r.lastDiag = diags
	r.printDiagnoses(diags)
	return nil
}

// baseProposal pins every symbol in sess to its current value, then lets
// targets override those pins. This mirrors the original tool's
// sym_add_assumption() pass over every symbol in the session, followed by
// sym_add_assumption_sdv() for the specific symbols under conflict: without
// the first pass the solver is free to pick any value for every symbol not
// named in targets, silently masking conflicts rooted in the existing
// configuration.
func baseProposal(sess *model.Session, targets []assume.Assignment) []assume.Assignment {
	pinned := make(map[*model.Symbol]bool, len(targets))
	for _, t := range targets {
		pinned[t.Sym] = true
	}
	out := make([]assume.Assignment, 0, len(sess.AllSymbols())+len(targets))
	for _, sym := range sess.AllSymbols() {
		if pinned[sym] {
			continue
		}
		if sym.IsBoolean() {
			out = append(out, assume.Assignment{Sym: sym, Tri: sym.CurrentTri})
			continue
		}
		if sym.IsNonBoolean() {
			if sym.HasValue {
				out = append(out, assume.Assignment{Sym: sym, Str: sym.CurrentStr})
			} else {
				out = append(out, assume.Assignment{Sym: sym, Unset: true})
			}
		}
	}
	out = append(out, targets...)
	return out
}

func (r *REPL) printDiagnoses(diags []diagnosis.Diagnosis) {
	fmt.Fprintf(r.out, "found %d diagnosis(es):\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(r.out, "  [%d]", i+1)
		for _, c := range d.Changes {
			fmt.Fprintf(r.out, " %s", c)
		}
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) cmdApply(args []string) error {
	if len(args) != 1 {
		r.usage()
		return nil
	}
	n, err := parseIndex(args[0], len(r.lastDiag))
	if err != nil {
		return err
	}
	rep := fix.Apply(r.sess, r.lastDiag[n].Changes)
	fmt.Fprintln(r.out, rep.String())
	for _, o := range rep.Outcomes {
		if !o.Applied {
			r.printErr(fmt.Errorf("apply: %s: %w", o.Assignment, o.Err))
		}
	}
	return nil
}

func (r *REPL) cmdOpen(args []string) error {
	if len(args) != 1 {
		r.usage()
		return nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml") {
		sess, err := model.LoadYAML(f)
		if err != nil {
			return err
		}
		r.sess = sess
		return nil
	}
	return model.ReadDotConfig(f, r.sess)
}

// cmdWrite writes the session's current values as a .config file, or, for a
// ".cnf" target, dumps the compiled constraint set in DIMACS form instead.
func (r *REPL) cmdWrite(args []string) error {
	if len(args) != 1 {
		r.usage()
		return nil
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.HasSuffix(args[0], ".cnf") {
		return r.writeDIMACS(f)
	}
	return model.WriteDotConfig(f, r.sess)
}

func (r *REPL) writeDIMACS(w io.Writer) error {
	domain := lower.NewDomain()
	for _, sym := range r.sess.AllSymbols() {
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
	sink := cnf.New(store)
	sink.AddAll(cb.Build(r.sess))
	return dimacs.WriteCNF(w, store, sink)
}

func parseIndex(s string, n int) (int, error) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, fmt.Errorf("apply: %q is not a number", s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("apply: no diagnosis #%d (have %d)", i, n)
	}
	return i - 1, nil
}

// buildCandidates turns an UNSAT core into the reassignment options the
// diagnosis engine may branch on. Symbols pinned by targets are excluded:
// spec's D ⊆ A\T means a diagnosis never reassigns the very values the user
// asked to pin, even when one of them is part of the conflicting core.
func buildCandidates(sess *model.Session, core []assume.Assignment, targets []assume.Assignment) []diagnosis.Candidate {
	pinned := make(map[*model.Symbol]bool, len(targets))
	for _, t := range targets {
		pinned[t.Sym] = true
	}
	var out []diagnosis.Candidate
	for _, a := range core {
		sym := a.Sym
		if pinned[sym] {
			continue
		}
		if sym.IsBoolean() {
			var alts []assume.Assignment
			for _, tri := range []model.Tristate{model.Yes, model.Mod, model.No} {
				if tri == model.Mod && sym.Type == model.Bool {
					continue
				}
				if tri != a.Tri {
					alts = append(alts, assume.Assignment{Sym: sym, Tri: tri})
				}
			}
			out = append(out, diagnosis.Candidate{Sym: sym, Values: alts})
		}
	}
	return out
}

func (r *REPL) printOK(msg string) {
	if r.color {
		color.New(color.FgGreen).Fprintln(r.out, msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

func (r *REPL) printConflict(msg string) {
	if r.color {
		color.New(color.FgRed).Fprintln(r.out, msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

func (r *REPL) printErr(err error) {
	if r.color {
		color.New(color.FgRed).Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "error: %v\n", err)
}
