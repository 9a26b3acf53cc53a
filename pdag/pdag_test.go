package pdag

import "testing"

type strLit string

func negateStr(l strLit) strLit {
	if len(l) > 0 && l[0] == '!' {
		return l[1:]
	}
	return "!" + l
}

func TestLeafSharing(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a1 := b.Leaf("A")
	a2 := b.Leaf("A")
	if a1 != a2 {
		t.Fatalf("Leaf(A) not shared across calls")
	}
}

func TestNotOfNotCollapses(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a := b.Leaf("A")
	nn := b.Not(b.Not(a))
	if nn != a {
		t.Fatalf("NOT(NOT a) = %v, want a", nn)
	}
}

func TestNotOfSymbolNegatesLiteral(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a := b.Leaf("A")
	na := b.Not(a)
	if na.Kind != Symbol || na.Lit != "!A" {
		t.Fatalf("NOT(SYMBOL A) = %+v, want SYMBOL !A", na)
	}
}

func TestAndIdempotentAndCommutativeSharing(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a, c := b.Leaf("A"), b.Leaf("B")

	if b.And(a, a) != a {
		t.Fatalf("AND(a,a) should equal a")
	}

	ab1 := b.And(a, c)
	ab2 := b.And(c, a)
	if ab1 != ab2 {
		t.Fatalf("AND(a,b) and AND(b,a) should share a node")
	}
}

func TestOrIdempotentAndCommutativeSharing(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a, c := b.Leaf("A"), b.Leaf("B")

	if b.Or(a, a) != a {
		t.Fatalf("OR(a,a) should equal a")
	}

	ab1 := b.Or(a, c)
	ab2 := b.Or(c, a)
	if ab1 != ab2 {
		t.Fatalf("OR(a,b) and OR(b,a) should share a node")
	}
}

func TestComplementIdentities(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	b.SetConstants("TRUE", "FALSE")
	a := b.Leaf("A")
	na := b.Not(a)

	if b.And(a, na) != b.False() {
		t.Fatalf("AND(a, !a) should fold to False")
	}
	if b.Or(a, na) != b.True() {
		t.Fatalf("OR(a, !a) should fold to True")
	}
}

func TestConstantAbsorption(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	b.SetConstants("TRUE", "FALSE")
	a := b.Leaf("A")

	if b.And(a, b.True()) != a {
		t.Fatalf("AND(a, TRUE) should equal a")
	}
	if b.And(a, b.False()) != b.False() {
		t.Fatalf("AND(a, FALSE) should equal FALSE")
	}
	if b.Or(a, b.False()) != a {
		t.Fatalf("OR(a, FALSE) should equal a")
	}
	if b.Or(a, b.True()) != b.True() {
		t.Fatalf("OR(a, TRUE) should equal TRUE")
	}
}

func TestIsCNF(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a, c, d := b.Leaf("A"), b.Leaf("B"), b.Leaf("C")

	clause := b.Or(a, b.Not(c))
	cnf := b.And(clause, d)
	if !IsCNF(cnf) {
		t.Fatalf("expected CNF clause set to be recognized as CNF")
	}

	notCNF := b.Or(b.And(a, c), d)
	if IsCNF(notCNF) {
		t.Fatalf("OR(AND(a,b), c) must not be recognized as CNF")
	}
}

func TestIsLiteral(t *testing.T) {
	b := NewBuilder[strLit](negateStr)
	a := b.Leaf("A")
	if !IsLiteral(a) || !IsLiteral(b.Not(a)) {
		t.Fatalf("symbol and negated symbol should both be literals")
	}
	if IsLiteral(b.Or(a, b.Leaf("B"))) {
		t.Fatalf("OR node should not be a literal")
	}
}
