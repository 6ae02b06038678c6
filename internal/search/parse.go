package search

import (
	"encoding/json"
	"fmt"
)

// Parse builds a predicate tree from the dynamic query form:
//
//	{"position": "QB", "age": {">": 30}}
//	{"AND": [{"position": "QB"}, {"OR": [{"team": "SF"}, {"team": "NE"}]}]}
//
// A map holding AND or OR must hold nothing else. Any other map is a leaf whose
// values are literals or operator maps.
func Parse(query map[string]any) (Predicate, error) {
	and, hasAnd := query[string(LogicAnd)]
	or, hasOr := query[string(LogicOr)]

	switch {
	case hasAnd && hasOr:
		return nil, fmt.Errorf("%w: node holds both AND and OR", ErrInvalidQuery)
	case hasAnd || hasOr:
		if len(query) != 1 {
			return nil, fmt.Errorf("%w: combinator node cannot hold field constraints", ErrInvalidQuery)
		}
		logic, raw := LogicAnd, and
		if hasOr {
			logic, raw = LogicOr, or
		}
		return parseCombinator(logic, raw)
	default:
		return parseLeaf(query)
	}
}

// ParseJSON parses a JSON-encoded query.
func ParseJSON(data []byte) (Predicate, error) {
	var query map[string]any
	if err := json.Unmarshal(data, &query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return Parse(query)
}

func parseCombinator(logic Logic, raw any) (Predicate, error) {
	items, ok := listOf(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list of conditions, got %T", ErrInvalidQuery, logic, raw)
	}

	children := make([]Predicate, 0, len(items))
	for _, item := range items {
		query, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported condition format %T under %s", ErrInvalidQuery, item, logic)
		}
		child, err := Parse(query)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	return Combinator{Logic: logic, Children: children}, nil
}

func parseLeaf(query map[string]any) (Predicate, error) {
	leaf := Leaf{Constraints: make([]Constraint, 0, len(query))}

	for _, field := range sortedKeys(query) {
		value := query[field]
		ops, isOps := value.(map[string]any)
		if !isOps {
			leaf.Constraints = append(leaf.Constraints, Constraint{Field: field, Literal: value})
			continue
		}

		comparisons := make([]Comparison, 0, len(ops))
		for _, op := range sortedKeys(ops) {
			comparisons = append(comparisons, Comparison{Op: Operator(op), Value: ops[op]})
		}
		leaf.Constraints = append(leaf.Constraints, Constraint{Field: field, Comparisons: comparisons})
	}

	if err := leaf.validate(); err != nil {
		return nil, err
	}
	return leaf, nil
}
