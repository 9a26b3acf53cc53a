package model

// Tristate is the ordered value domain {No < Mod < Yes}. Booleans are the
// restriction of a Tristate to {No, Yes}; Mod is rejected by SetTristate on
// a boolean symbol.
type Tristate int

const (
	No Tristate = iota
	Mod
	Yes
)

func (t Tristate) String() string {
	switch t {
	case No:
		return "n"
	case Mod:
		return "m"
	case Yes:
		return "y"
	default:
		return "?"
	}
}

// ParseTristate parses the "y"/"m"/"n" (or "yes"/"mod"/"no") spellings used
// by .config files and the REPL.
func ParseTristate(s string) (Tristate, bool) {
	switch s {
	case "y", "yes", "Y":
		return Yes, true
	case "m", "mod", "M":
		return Mod, true
	case "n", "no", "N":
		return No, true
	default:
		return No, false
	}
}

// Min returns the weaker of two tristate values.
func Min(a, b Tristate) Tristate {
	if a < b {
		return a
	}
	return b
}

// Max returns the stronger of two tristate values.
func Max(a, b Tristate) Tristate {
	if a > b {
		return a
	}
	return b
}
