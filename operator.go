package satchel

import (
	"fmt"
	"strings"
)

// Operator identifies a comparison applied to a document field, or to
// the document as a whole for Contains and JSONPathMatch.
type Operator int

const (
	// Equal matches documents whose field equals the bound value.
	Equal Operator = iota
	// NotEqual matches documents whose field differs from the bound value.
	NotEqual
	// Greater matches documents whose field is greater than the bound value.
	Greater
	// GreaterOrEqual matches documents whose field is greater than or
	// equal to the bound value.
	GreaterOrEqual
	// Less matches documents whose field is less than the bound value.
	Less
	// LessOrEqual matches documents whose field is less than or equal
	// to the bound value.
	LessOrEqual
	// Between matches documents whose field lies between two bound
	// values, inclusive. Binds exactly two values, in declared order.
	Between
	// In matches documents whose field equals any member of a bound
	// collection. The collection is bound as a single value.
	In
	// Exists matches documents that carry the field at all. Binds no
	// values.
	Exists
	// NotExists matches documents that do not carry the field. Binds
	// no values.
	NotExists
	// Contains matches documents that are a structural superset of a
	// partial document. Engine support required.
	Contains
	// JSONPathMatch matches documents satisfying a JSON path
	// expression. Engine support required.
	JSONPathMatch
)

var operatorNames = map[Operator]string{
	Equal:          "EQ",
	NotEqual:       "NE",
	Greater:        "GT",
	GreaterOrEqual: "GE",
	Less:           "LT",
	LessOrEqual:    "LE",
	Between:        "BETWEEN",
	In:             "IN",
	Exists:         "EXISTS",
	NotExists:      "NOT_EXISTS",
	Contains:       "CONTAINS",
	JSONPathMatch:  "JSON_PATH_MATCH",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// ParseOperator resolves an operator from its name (as produced by
// String, case-insensitive) or its SQL symbol.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToUpper(s) {
	case "EQ", "=", "==":
		return Equal, nil
	case "NE", "!=", "<>":
		return NotEqual, nil
	case "GT", ">":
		return Greater, nil
	case "GE", ">=":
		return GreaterOrEqual, nil
	case "LT", "<":
		return Less, nil
	case "LE", "<=":
		return LessOrEqual, nil
	case "BETWEEN":
		return Between, nil
	case "IN":
		return In, nil
	case "EXISTS":
		return Exists, nil
	case "NOT_EXISTS":
		return NotExists, nil
	case "CONTAINS":
		return Contains, nil
	case "JSON_PATH_MATCH":
		return JSONPathMatch, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// OpSQL is the dialect-specific rendering of an Operator.
//
// Template is a predicate fragment with three kinds of markers:
//
//	{path}     the dialect's text-extraction expression for the field
//	{jsonpath} the field as a JSON path literal ($.A.B)
//	{v}        one bound value placeholder
//
// Arity is the number of {v} markers, and therefore the number of
// values the fragment consumes: 0 for Exists/NotExists, 2 for
// Between, 1 for everything else.
//
// NumericTemplate, when set, replaces Template for comparisons
// against numeric values on dialects whose extraction yields text.
type OpSQL struct {
	Template        string
	NumericTemplate string
	Arity           int
}

// MapOperator resolves an operator against a dialect's operator
// table. It returns ErrUnsupported (wrapped) when the dialect has no
// rendering for the operator, such as Contains on SQLite.
func MapOperator(d Dialect, op Operator) (OpSQL, error) {
	sql, ok := d.Operators()[op]
	if !ok {
		return OpSQL{}, fmt.Errorf("operator %s on dialect %s: %w", op, d.Name(), ErrUnsupported)
	}
	return sql, nil
}
