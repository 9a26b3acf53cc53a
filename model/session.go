package model

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnknownSymbol = errors.New("model: unknown symbol")
	ErrNotBoolean    = errors.New("model: symbol is not boolean/tristate")
	ErrModOnBoolean  = errors.New("model: mod is not a legal value for a plain boolean")
	ErrOutOfRange    = errors.New("model: value outside the symbol's declared range")
)

// Session is the symbol table and current-assignment state that stands in
// for the external configuration-model front-end of spec.md §6. The
// resolver core treats it as read-only except through SetTristate /
// SetString, both of which are range-checked setters as required by
// spec.md §4.8 and §6.
type Session struct {
	symbols map[string]*Symbol
	order   []*Symbol // insertion order, for deterministic iteration
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{symbols: make(map[string]*Symbol)}
}

// AddSymbol registers sym under its name. Choice symbols are named by their
// prompt text in kconfig; callers of this package give every symbol,
// including choices, an explicit Name.
func (s *Session) AddSymbol(sym *Symbol) {
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym)
}

// Symbol looks up a symbol by name.
func (s *Session) Symbol(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// MustSymbol looks up a symbol, panicking if absent. Used for wiring
// properties during model construction, never at resolver run time.
func (s *Session) MustSymbol(name string) *Symbol {
	sym, ok := s.symbols[name]
	if !ok {
		panic(fmt.Sprintf("model: no such symbol %q", name))
	}
	return sym
}

// AllSymbols returns every registered symbol in insertion order.
func (s *Session) AllSymbols() []*Symbol {
	out := make([]*Symbol, len(s.order))
	copy(out, s.order)
	return out
}

// SortedNames returns every symbol name, sorted, for deterministic display.
func (s *Session) SortedNames() []string {
	names := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetTristate is the range-checked setter spec.md §4.8 calls "the model's
// range-checked setter" for boolean/tristate symbols: it returns an error for
// a non-boolean symbol and for Mod on a plain Bool, and otherwise stores the
// value. It does not check the value against the symbol's visibility or
// dependencies.
func (s *Session) SetTristate(sym *Symbol, val Tristate) error {
	if !sym.IsBoolean() {
		return fmt.Errorf("%w: %s", ErrNotBoolean, sym.Name)
	}
	if sym.Type == Bool && val == Mod {
		return fmt.Errorf("%w: %s", ErrModOnBoolean, sym.Name)
	}
	sym.CurrentTri = val
	return nil
}

// SetString is the range-checked setter for int/hex/string symbols. Plain
// String values are normalized to Unicode NFC first, so that two visually
// identical prompts entered with different combining-character sequences
// compare and persist as the same value.
func (s *Session) SetString(sym *Symbol, val string) error {
	if !sym.IsNonBoolean() {
		return fmt.Errorf("model: %s is not a non-boolean symbol", sym.Name)
	}
	if sym.Type == String {
		val = norm.NFC.String(val)
	}
	if r := sym.Range(); r != nil && r.Low != "" && r.High != "" {
		if !withinRange(sym.Type, val, r.Low, r.High) {
			return fmt.Errorf("%w: %s=%s not in [%s,%s]", ErrOutOfRange, sym.Name, val, r.Low, r.High)
		}
	}
	sym.CurrentStr = val
	sym.HasValue = true
	return nil
}

func withinRange(t Type, val, low, high string) bool {
	v, ok1 := parseNumeric(t, val)
	lo, ok2 := parseNumeric(t, low)
	hi, ok3 := parseNumeric(t, high)
	if !ok1 || !ok2 || !ok3 {
		return true // non-numeric string symbols have no range semantics
	}
	return v >= lo && v <= hi
}
