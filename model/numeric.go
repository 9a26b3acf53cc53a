package model

import (
	"strconv"
	"strings"
)

// IsNumber reports whether s is a decimal integer literal, mirroring
// string_is_number() in cf_utils.c.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsHex reports whether s is a "0x"-prefixed hexadecimal literal, mirroring
// string_is_hex() in cf_utils.c.
func IsHex(s string) bool {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, r := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// CompareNumeric compares a and b under an int/hex symbol's declared type,
// returning -1/0/1 the way strings.Compare does; ok is false for String
// symbols or malformed literals, in which case callers fall back to
// lexicographic comparison.
func CompareNumeric(t Type, a, b string) (cmp int, ok bool) {
	av, ok1 := parseNumeric(t, a)
	bv, ok2 := parseNumeric(t, b)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch {
	case av < bv:
		return -1, true
	case av > bv:
		return 1, true
	default:
		return 0, true
	}
}

// parseNumeric interprets val under sym's declared type (Int decimal, Hex
// hexadecimal); ok is false for String symbols or malformed literals.
func parseNumeric(t Type, val string) (int64, bool) {
	switch t {
	case Int:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	case Hex:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
		n, err := strconv.ParseInt(trimmed, 16, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
