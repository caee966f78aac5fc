package satchel

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// Param is one bound value. Name is the logical name of the slot and
// exists for alignment and diagnostics; the generated text uses
// dialect placeholders, numbered by order of appearance, so a
// ParameterSet's order must match the Builder method that produced
// the statement.
type Param struct {
	Name  string
	Value any
}

// paramValues strips names for the driver call.
func paramValues(params []Param) []any {
	if len(params) == 0 {
		return nil
	}
	values := make([]any, len(params))
	for i, p := range params {
		values[i] = p.Value
	}
	return values
}

// Binder produces the ordered parameter set matching a built
// statement. It honors operator arity (none for Exists/NotExists,
// two for Between, one for everything else) and serializes document
// values through the configured Serializer.
type Binder struct {
	Dialect    Dialect
	KeyField   string
	Serializer Serializer
}

// ID binds a document key, string-coerced regardless of native type.
func (b Binder) ID(id any) Param {
	return Param{Name: "id", Value: cast.ToString(id)}
}

// Field binds the values for a field comparison. The returned set is
// empty for arity-0 operators, two values in declared order for
// Between, and one value otherwise. Between accepts any slice of two
// members; In accepts any slice and binds it as a single collection
// value encoded per dialect.
func (b Binder) Field(op Operator, value any) ([]Param, error) {
	sql, err := MapOperator(b.Dialect, op)
	if err != nil {
		return nil, err
	}
	switch sql.Arity {
	case 0:
		return nil, nil
	case 2:
		members, ok := sliceMembers(value)
		if !ok || len(members) != 2 {
			return nil, fmt.Errorf("operator %s wants two values: %w", op, ErrBadValue)
		}
		return []Param{
			{Name: "min", Value: members[0]},
			{Name: "max", Value: members[1]},
		}, nil
	}
	if op == In {
		members, ok := sliceMembers(value)
		if !ok {
			return nil, fmt.Errorf("operator IN wants a slice: %w", ErrBadValue)
		}
		encoded, err := b.Dialect.EncodeIn(members)
		if err != nil {
			return nil, fmt.Errorf("encode IN values: %w", err)
		}
		return []Param{{Name: "values", Value: encoded}}, nil
	}
	return []Param{{Name: "field", Value: value}}, nil
}

// Document binds a full document payload, serialized to JSON text.
func (b Binder) Document(doc any) (Param, error) {
	data, err := b.serializer().Serialize(doc)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: "data", Value: data}, nil
}

// Patch binds a merge-patch payload, serialized to JSON text.
func (b Binder) Patch(patch any) (Param, error) {
	data, err := b.serializer().Serialize(patch)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: "patch", Value: data}, nil
}

// Contains binds a containment criteria document.
func (b Binder) Contains(criteria any) (Param, error) {
	data, err := b.serializer().Serialize(criteria)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: "criteria", Value: data}, nil
}

// JSONPath binds a JSON path expression.
func (b Binder) JSONPath(path string) Param {
	return Param{Name: "path", Value: path}
}

// FieldNames binds the values consumed by a remove-fields statement:
// one collection value or one value per field, per dialect.
func (b Binder) FieldNames(fields []string) ([]Param, error) {
	values, err := b.Dialect.EncodeFieldNames(fields)
	if err != nil {
		return nil, fmt.Errorf("encode field names: %w", err)
	}
	params := make([]Param, len(values))
	for i, v := range values {
		params[i] = Param{Name: fmt.Sprintf("name%d", i), Value: v}
	}
	return params, nil
}

func (b Binder) serializer() Serializer {
	if b.Serializer == nil {
		return DefaultSerializer()
	}
	return b.Serializer
}

// sliceMembers flattens any slice value to []any.
func sliceMembers(value any) ([]any, bool) {
	if members, ok := value.([]any); ok {
		return members, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	members := make([]any, rv.Len())
	for i := range members {
		members[i] = rv.Index(i).Interface()
	}
	return members, true
}
