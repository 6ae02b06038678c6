// Package search evaluates boolean query trees over raw player records.
//
// A tree is either a Combinator (AND/OR over child predicates) or a Leaf holding
// per-field constraints. A field that is absent or null on a record never satisfies
// a constraint on that field, negated operators included.
package search

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidQuery = errors.New("invalid search query")
	ErrTypeMismatch = errors.New("incomparable values")
)

type Operator string

const (
	OpEq    Operator = "=="
	OpNe    Operator = "!="
	OpGt    Operator = ">"
	OpLt    Operator = "<"
	OpGte   Operator = ">="
	OpLte   Operator = "<="
	OpIn    Operator = "in"
	OpNotIn Operator = "not in"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpIn, OpNotIn:
		return true
	}
	return false
}

type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Predicate is a node of a query tree.
type Predicate interface {
	Match(record map[string]any) (bool, error)
	validate() error
}

type Combinator struct {
	Logic    Logic
	Children []Predicate
}

func And(children ...Predicate) Combinator {
	return Combinator{Logic: LogicAnd, Children: children}
}

func Or(children ...Predicate) Combinator {
	return Combinator{Logic: LogicOr, Children: children}
}

// Match short-circuits: AND stops at the first miss, OR at the first hit.
// A combinator without children matches nothing.
func (c Combinator) Match(record map[string]any) (bool, error) {
	if len(c.Children) == 0 {
		return false, nil
	}

	for _, child := range c.Children {
		ok, err := child.Match(record)
		if err != nil {
			return false, err
		}
		if c.Logic == LogicOr && ok {
			return true, nil
		}
		if c.Logic == LogicAnd && !ok {
			return false, nil
		}
	}

	return c.Logic == LogicAnd, nil
}

func (c Combinator) validate() error {
	if c.Logic != LogicAnd && c.Logic != LogicOr {
		return fmt.Errorf("%w: unknown combinator %q", ErrInvalidQuery, c.Logic)
	}
	for _, child := range c.Children {
		if child == nil {
			return fmt.Errorf("%w: nil predicate under %s", ErrInvalidQuery, c.Logic)
		}
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Comparison is a single operator applied to a field.
type Comparison struct {
	Op    Operator
	Value any
}

// Constraint is either a literal (equality) or a set of comparisons that must all hold.
type Constraint struct {
	Field       string
	Literal     any
	Comparisons []Comparison
}

func (c Constraint) isLiteral() bool {
	return c.Comparisons == nil
}

// Leaf is an implicit AND over its constraints. An empty leaf matches nothing.
type Leaf struct {
	Constraints []Constraint
}

// Where starts a leaf with an equality constraint.
func Where(field string, value any) Leaf {
	return Leaf{}.Where(field, value)
}

// Cond starts a leaf with a single operator constraint.
func Cond(field string, op Operator, value any) Leaf {
	return Leaf{}.Cond(field, op, value)
}

func (l Leaf) Where(field string, value any) Leaf {
	constraints := append([]Constraint(nil), l.Constraints...)
	l.Constraints = append(constraints, Constraint{Field: field, Literal: value})
	return l
}

// Cond adds an operator constraint, merging it with earlier operators on the same field.
func (l Leaf) Cond(field string, op Operator, value any) Leaf {
	constraints := append([]Constraint(nil), l.Constraints...)
	for i, c := range constraints {
		if c.Field == field && !c.isLiteral() {
			comparisons := append([]Comparison(nil), c.Comparisons...)
			constraints[i].Comparisons = append(comparisons, Comparison{Op: op, Value: value})
			l.Constraints = constraints
			return l
		}
	}
	l.Constraints = append(constraints, Constraint{
		Field:       field,
		Comparisons: []Comparison{{Op: op, Value: value}},
	})
	return l
}

// Match requires every constraint to hold. A field that is missing or null on the
// record fails its constraint whatever the operator, != and not in included.
func (l Leaf) Match(record map[string]any) (bool, error) {
	if len(l.Constraints) == 0 {
		return false, nil
	}

	for _, c := range l.Constraints {
		value, ok := record[c.Field]
		if !ok || value == nil {
			return false, nil
		}

		if c.isLiteral() {
			if !equal(value, c.Literal) {
				return false, nil
			}
			continue
		}

		for _, cmp := range c.Comparisons {
			ok, err := compare(value, cmp)
			if err != nil {
				return false, fmt.Errorf("field %q: %w", c.Field, err)
			}
			if !ok {
				return false, nil
			}
		}
	}

	return true, nil
}

func (l Leaf) validate() error {
	for _, c := range l.Constraints {
		if c.Field == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidQuery)
		}
		if c.Comparisons != nil && len(c.Comparisons) == 0 {
			return fmt.Errorf("%w: field %q has an empty operator set", ErrInvalidQuery, c.Field)
		}
		for _, cmp := range c.Comparisons {
			if !cmp.Op.valid() {
				return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, cmp.Op)
			}
			if cmp.Op == OpIn || cmp.Op == OpNotIn {
				if _, ok := listOf(cmp.Value); !ok {
					return fmt.Errorf("%w: operator %q on %q needs a list, got %T", ErrInvalidQuery, cmp.Op, c.Field, cmp.Value)
				}
			}
		}
	}
	return nil
}

// Validate checks the whole tree so malformed queries fail before any data is loaded.
func Validate(p Predicate) error {
	if p == nil {
		return fmt.Errorf("%w: nil predicate", ErrInvalidQuery)
	}
	return p.validate()
}

// Filter returns the records matching p, preserving input order.
func Filter(records []map[string]any, p Predicate) ([]map[string]any, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	matched := make([]map[string]any, 0)
	for _, record := range records {
		ok, err := p.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
