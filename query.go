package satchel

import (
	"reflect"
	"strings"
)

// DefaultKeyField is the document field carrying the key when a
// Builder or Store does not override it.
const DefaultKeyField = "Id"

// Builder generates SQL text for document operations. All methods
// are pure: identical inputs always yield byte-identical text.
// Values never appear in the text; they are bound separately by a
// Binder, in placeholder order.
type Builder struct {
	Dialect  Dialect
	KeyField string
}

// Key returns the configured key field, defaulting to "Id".
func (b Builder) Key() string {
	if b.KeyField == "" {
		return DefaultKeyField
	}
	return b.KeyField
}

func (b Builder) whereByID(next func() string) string {
	return b.Dialect.PathExpr(b.Key()) + " = " + next()
}

// whereByField renders a single field comparison. The value is used
// only to pick the numeric extraction form; it is never rendered.
func (b Builder) whereByField(field string, op Operator, value any, next func() string) (string, error) {
	sql, err := MapOperator(b.Dialect, op)
	if err != nil {
		return "", err
	}
	numeric := isNumericValue(value)
	template := sql.Template
	if numeric && sql.NumericTemplate != "" {
		template = sql.NumericTemplate
	}
	path := pathForValue(b.Dialect, field, numeric)
	return expandTemplate(template, path, JSONPathOf(field), next), nil
}

func (b Builder) whereContains(next func() string) (string, error) {
	sql, err := MapOperator(b.Dialect, Contains)
	if err != nil {
		return "", err
	}
	return expandTemplate(sql.Template, "", "", next), nil
}

func (b Builder) whereJSONPath(next func() string) (string, error) {
	sql, err := MapOperator(b.Dialect, JSONPathMatch)
	if err != nil {
		return "", err
	}
	return expandTemplate(sql.Template, "", "", next), nil
}

// FindAll selects every document in a table, optionally ordered by
// field paths. A path may carry a " DESC" suffix.
func (b Builder) FindAll(table string, orderBy ...string) string {
	return "SELECT data FROM " + table + b.OrderBy(orderBy)
}

// FindByID selects the document whose key equals the bound value.
func (b Builder) FindByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return "SELECT data FROM " + table + " WHERE " + b.whereByID(next)
}

// FindByField selects documents matching a single field comparison.
func (b Builder) FindByField(table, field string, op Operator, value any, orderBy ...string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return "SELECT data FROM " + table + " WHERE " + where + b.OrderBy(orderBy), nil
}

// FindByContains selects documents that are a structural superset of
// the bound partial document.
func (b Builder) FindByContains(table string, orderBy ...string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return "SELECT data FROM " + table + " WHERE " + where + b.OrderBy(orderBy), nil
}

// FindByJSONPath selects documents satisfying the bound JSON path.
func (b Builder) FindByJSONPath(table string, orderBy ...string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return "SELECT data FROM " + table + " WHERE " + where + b.OrderBy(orderBy), nil
}

// CountAll counts every document in a table.
func (b Builder) CountAll(table string) string {
	return "SELECT COUNT(*) FROM " + table
}

// CountByID counts documents whose key equals the bound value: 0 or
// 1 under the key index.
func (b Builder) CountByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return "SELECT COUNT(*) FROM " + table + " WHERE " + b.whereByID(next)
}

// CountByField counts documents matching a single field comparison.
func (b Builder) CountByField(table, field string, op Operator, value any) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM " + table + " WHERE " + where, nil
}

// CountByContains counts documents containing the bound shape.
func (b Builder) CountByContains(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM " + table + " WHERE " + where, nil
}

// CountByJSONPath counts documents satisfying the bound JSON path.
func (b Builder) CountByJSONPath(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM " + table + " WHERE " + where, nil
}

// ExistsByID tests for a document with the bound key.
func (b Builder) ExistsByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + b.whereByID(next) + ")"
}

// ExistsByField tests for any document matching a field comparison.
func (b Builder) ExistsByField(table, field string, op Operator, value any) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + where + ")", nil
}

// ExistsByContains tests for any document containing the bound shape.
func (b Builder) ExistsByContains(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + where + ")", nil
}

// ExistsByJSONPath tests for any document satisfying the bound path.
func (b Builder) ExistsByJSONPath(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + where + ")", nil
}

// Insert inserts one document.
func (b Builder) Insert(table string) string {
	next := placeholderSeq(b.Dialect)
	return "INSERT INTO " + table + " VALUES (" + next() + ")"
}

// Save inserts one document, replacing any existing document with the
// same key (upsert).
func (b Builder) Save(table string) string {
	next := placeholderSeq(b.Dialect)
	return "INSERT INTO " + table + " VALUES (" + next() + ") " +
		b.Dialect.UpsertClause(b.Dialect.PathExpr(b.Key()))
}

// UpdateByID wholly replaces the document with the bound key. The
// replacement binds before the key.
func (b Builder) UpdateByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return "UPDATE " + table + " SET data = " + next() + " WHERE " + b.whereByID(next)
}

func (b Builder) patchSet(table string, next func() string) string {
	return "UPDATE " + table + " SET data = " +
		expandTemplate(b.Dialect.PatchTemplate(), "", "", next)
}

// PatchByID merge-patches the document with the bound key. The patch
// binds before the key.
func (b Builder) PatchByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return b.patchSet(table, next) + " WHERE " + b.whereByID(next)
}

// PatchByField merge-patches every document matching a field
// comparison. The patch binds before the predicate values.
func (b Builder) PatchByField(table, field string, op Operator, value any) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.patchSet(table, next)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

// PatchByContains merge-patches every document containing the bound
// shape.
func (b Builder) PatchByContains(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.patchSet(table, next)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

// PatchByJSONPath merge-patches every document satisfying the bound
// path.
func (b Builder) PatchByJSONPath(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.patchSet(table, next)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

func (b Builder) removeSet(table string, fields []string, next func() string) string {
	template, _ := b.Dialect.RemoveFieldsTemplate(len(fields))
	return "UPDATE " + table + " SET data = " + expandTemplate(template, "", "", next)
}

// RemoveFieldsByID prunes the named fields from the document with the
// bound key. Field-name values bind before the key.
func (b Builder) RemoveFieldsByID(table string, fields []string) string {
	next := placeholderSeq(b.Dialect)
	return b.removeSet(table, fields, next) + " WHERE " + b.whereByID(next)
}

// RemoveFieldsByField prunes the named fields from every document
// matching a field comparison.
func (b Builder) RemoveFieldsByField(table, field string, op Operator, value any, fields []string) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.removeSet(table, fields, next)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

// RemoveFieldsByContains prunes the named fields from every document
// containing the bound shape.
func (b Builder) RemoveFieldsByContains(table string, fields []string) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.removeSet(table, fields, next)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

// RemoveFieldsByJSONPath prunes the named fields from every document
// satisfying the bound path.
func (b Builder) RemoveFieldsByJSONPath(table string, fields []string) (string, error) {
	next := placeholderSeq(b.Dialect)
	set := b.removeSet(table, fields, next)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return set + " WHERE " + where, nil
}

// DeleteByID deletes the document with the bound key.
func (b Builder) DeleteByID(table string) string {
	next := placeholderSeq(b.Dialect)
	return "DELETE FROM " + table + " WHERE " + b.whereByID(next)
}

// DeleteByField deletes every document matching a field comparison.
func (b Builder) DeleteByField(table, field string, op Operator, value any) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereByField(field, op, value, next)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table + " WHERE " + where, nil
}

// DeleteByContains deletes every document containing the bound shape.
func (b Builder) DeleteByContains(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereContains(next)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table + " WHERE " + where, nil
}

// DeleteByJSONPath deletes every document satisfying the bound path.
func (b Builder) DeleteByJSONPath(table string) (string, error) {
	next := placeholderSeq(b.Dialect)
	where, err := b.whereJSONPath(next)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table + " WHERE " + where, nil
}

// OrderBy renders an ORDER BY clause over field paths, or "" for an
// empty list. A " DESC" (or " ASC") suffix on a path is carried
// through after the rendered expression.
func (b Builder) OrderBy(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		field, dir := f, ""
		if i := strings.IndexByte(f, ' '); i >= 0 {
			field = f[:i]
			dir = strings.ToUpper(f[i:])
		}
		terms = append(terms, b.Dialect.PathExpr(field)+dir)
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// isNumericValue reports whether a comparison value is numeric. For
// Between and In the first member decides.
func isNumericValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case []any:
		return len(v) > 0 && isNumericValue(v[0])
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		return isNumericValue(rv.Index(0).Interface())
	}
	return false
}
