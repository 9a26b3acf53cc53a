package model

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlSymbol is the on-disk shape of one symbol entry. Conditions and
// dependency expressions are plain strings parsed with ParseCondition once
// every symbol name is known, so forward references (A selects B where B is
// declared later in the file) resolve correctly.
type yamlSymbol struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	DependsOn  string          `yaml:"depends_on"`
	Members    []string        `yaml:"members"`
	Optional   bool            `yaml:"optional"`
	Prompt     string          `yaml:"prompt"`
	VisibleIf  string          `yaml:"visible_if"`
	Defaults   []yamlDefault   `yaml:"defaults"`
	Selects    []yamlRelation  `yaml:"selects"`
	Implies    []yamlRelation  `yaml:"implies"`
	RangeLow   string          `yaml:"range_low"`
	RangeHigh  string          `yaml:"range_high"`
}

type yamlDefault struct {
	Value string `yaml:"value"`
	If    string `yaml:"if"`
}

type yamlRelation struct {
	Target string `yaml:"target"`
	If     string `yaml:"if"`
}

type yamlDoc struct {
	Symbols []yamlSymbol `yaml:"symbols"`
}

// LoadYAML builds a Session from the declarative symbol database format
// described in SPEC_FULL.md §6. This is the concrete stand-in for the
// "configuration-model front-end" spec.md §6 treats as an external
// collaborator.
func LoadYAML(r io.Reader) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("model: reading yaml: %w", err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("model: parsing yaml: %w", err)
	}

	sess := NewSession()

	// Pass 1: create every symbol and its choice-membership links so that
	// forward-referencing conditions in pass 2 can resolve any name.
	for _, ys := range doc.Symbols {
		t, err := parseType(ys.Type)
		if err != nil {
			return nil, fmt.Errorf("model: symbol %q: %w", ys.Name, err)
		}
		sym := &Symbol{Name: ys.Name, Type: t, IsOptional: ys.Optional}
		sess.AddSymbol(sym)
	}
	for _, ys := range doc.Symbols {
		if ys.Type != "choice" {
			continue
		}
		choice := sess.MustSymbol(ys.Name)
		for _, m := range ys.Members {
			member, ok := sess.Symbol(m)
			if !ok {
				return nil, fmt.Errorf("model: choice %q: %w: %s", ys.Name, ErrUnknownSymbol, m)
			}
			member.ChoiceGroup = choice
			choice.Members = append(choice.Members, member)
		}
	}

	// Pass 2: wire expressions and properties now that every name resolves.
	for _, ys := range doc.Symbols {
		sym := sess.MustSymbol(ys.Name)

		if ys.DependsOn != "" {
			dep, err := ParseCondition(sess, ys.DependsOn)
			if err != nil {
				return nil, fmt.Errorf("model: symbol %q depends_on: %w", ys.Name, err)
			}
			sym.DirectDep = dep
		}

		if ys.Prompt != "" {
			cond := True
			if ys.VisibleIf != "" {
				c, err := ParseCondition(sess, ys.VisibleIf)
				if err != nil {
					return nil, fmt.Errorf("model: symbol %q visible_if: %w", ys.Name, err)
				}
				cond = c
			}
			sym.Properties = append(sym.Properties, Property{
				Kind: PropPrompt, Condition: cond, Text: ys.Prompt,
			})
		}

		for _, d := range ys.Defaults {
			cond := True
			if d.If != "" {
				c, err := ParseCondition(sess, d.If)
				if err != nil {
					return nil, fmt.Errorf("model: symbol %q default: %w", ys.Name, err)
				}
				cond = c
			}
			val, err := defaultValueExpr(sess, sym, d.Value)
			if err != nil {
				return nil, fmt.Errorf("model: symbol %q default value: %w", ys.Name, err)
			}
			sym.Properties = append(sym.Properties, Property{
				Kind: PropDefault, Condition: cond, Value: val,
			})
		}

		for _, rel := range ys.Selects {
			target, ok := sess.Symbol(rel.Target)
			if !ok {
				return nil, fmt.Errorf("model: symbol %q selects: %w: %s", ys.Name, ErrUnknownSymbol, rel.Target)
			}
			cond := True
			if rel.If != "" {
				c, err := ParseCondition(sess, rel.If)
				if err != nil {
					return nil, fmt.Errorf("model: symbol %q selects: %w", ys.Name, err)
				}
				cond = c
			}
			sym.Properties = append(sym.Properties, Property{Kind: PropSelect, Condition: cond, Target: target})
			addReverseDep(&target.ReverseDep, And(cond, Ref(sym)))
		}

		for _, rel := range ys.Implies {
			target, ok := sess.Symbol(rel.Target)
			if !ok {
				return nil, fmt.Errorf("model: symbol %q implies: %w: %s", ys.Name, ErrUnknownSymbol, rel.Target)
			}
			cond := True
			if rel.If != "" {
				c, err := ParseCondition(sess, rel.If)
				if err != nil {
					return nil, fmt.Errorf("model: symbol %q implies: %w", ys.Name, err)
				}
				cond = c
			}
			sym.Properties = append(sym.Properties, Property{Kind: PropImply, Condition: cond, Target: target})
			addReverseDep(&target.WeakReverseDep, And(cond, Ref(sym)))
		}

		if ys.RangeLow != "" || ys.RangeHigh != "" {
			sym.Properties = append(sym.Properties, Property{
				Kind: PropRange, Low: ys.RangeLow, High: ys.RangeHigh,
			})
		}
	}

	return sess, nil
}

func defaultValueExpr(sess *Session, sym *Symbol, raw string) (Expr, error) {
	if sym.IsBoolean() {
		if tri, ok := ParseTristate(raw); ok {
			return Expr{Kind: ExprConst, Literal: tri.String()}, nil
		}
		return ParseCondition(sess, raw)
	}
	return Lit(raw), nil
}

func addReverseDep(acc *Expr, term Expr) {
	if acc.IsZero() {
		*acc = term
		return
	}
	*acc = Or(*acc, term)
}

func parseType(s string) (Type, error) {
	switch s {
	case "bool", "boolean":
		return Bool, nil
	case "tristate", "tri":
		return Tri, nil
	case "int":
		return Int, nil
	case "hex":
		return Hex, nil
	case "string":
		return String, nil
	case "choice":
		return Choice, nil
	default:
		return Unknown, fmt.Errorf("unknown type %q", s)
	}
}
