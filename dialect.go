package satchel

import "strings"

// DocumentIndex selects the shape of a whole-document index on
// engines that support one.
type DocumentIndex int

const (
	// FullDocumentIndex indexes every JSON operator over the payload
	// column (PostgreSQL: GIN over jsonb_ops).
	FullDocumentIndex DocumentIndex = iota
	// OptimizedDocumentIndex indexes containment and path operators
	// only, with a smaller footprint (PostgreSQL: jsonb_path_ops).
	OptimizedDocumentIndex
)

// Dialect is the capability surface a backend supplies to the query
// builder and parameter binder. Implementations are thin and
// stateless; see the postgres and sqlite packages.
//
// Everything a Dialect produces is SQL text or an encoded bind value.
// Field paths and table names are rendered verbatim; values are never
// interpolated.
type Dialect interface {
	// Name identifies the dialect in error messages and golden files.
	Name() string

	// JSONType is the column type of the payload column.
	JSONType() string

	// Placeholder renders the bind-value placeholder with the given
	// 1-based ordinal. Ordinals follow order of appearance in the
	// statement text.
	Placeholder(ordinal int) string

	// PathExpr renders the text-extraction expression for a field
	// path. Dotted paths address nested fields.
	PathExpr(field string) string

	// NumericPathExpr renders the extraction expression used when the
	// compared value is numeric. Engines whose extraction is already
	// typed return the same expression as PathExpr.
	NumericPathExpr(field string) string

	// Operators is the dialect's operator table. Operators absent
	// from the table are unsupported on this dialect.
	Operators() map[Operator]OpSQL

	// UpsertClause renders the insert-or-replace conflict clause for
	// the given key extraction expression.
	UpsertClause(keyPath string) string

	// PatchTemplate renders the merge-patch expression assigned to
	// the payload column. Contains exactly one {v} marker.
	PatchTemplate() string

	// RemoveFieldsTemplate renders the field-pruning expression
	// assigned to the payload column for n fields, and reports how
	// many values it binds.
	RemoveFieldsTemplate(n int) (template string, values int)

	// EncodeIn converts the members of an In collection to the single
	// bind value the dialect's In fragment consumes.
	EncodeIn(values []any) (any, error)

	// EncodeFieldNames converts field names to the bind values the
	// remove-fields expression consumes.
	EncodeFieldNames(fields []string) ([]any, error)

	// DocumentIndexDDL renders idempotent DDL for a whole-document
	// index, or ErrUnsupported where the engine has none.
	DocumentIndexDDL(table, indexName string, kind DocumentIndex) (string, error)

	// SupportsContains reports whether containment predicates are
	// available.
	SupportsContains() bool

	// SupportsJSONPath reports whether JSON path predicates are
	// available.
	SupportsJSONPath() bool
}

// JSONPathOf renders a dotted field path as a JSON path literal:
// "A.B" becomes "$.A.B".
func JSONPathOf(field string) string {
	return "$." + field
}

// expandTemplate fills an operator or update template: {path} and
// {jsonpath} are replaced with the rendered field expressions, each
// {v} consumes the next placeholder. Markers are replaced left to
// right so placeholder ordinals follow order of appearance.
func expandTemplate(template, path, jsonpath string, next func() string) string {
	out := template
	out = strings.ReplaceAll(out, "{path}", path)
	out = strings.ReplaceAll(out, "{jsonpath}", jsonpath)
	for strings.Contains(out, "{v}") {
		out = strings.Replace(out, "{v}", next(), 1)
	}
	return out
}

// pathForValue picks the extraction expression for a comparison. The
// numeric form is used when the compared value is a number, so that
// engines extracting text compare numerically.
func pathForValue(d Dialect, field string, numeric bool) string {
	if numeric {
		return d.NumericPathExpr(field)
	}
	return d.PathExpr(field)
}

// placeholderSeq returns a generator of placeholders numbered from 1
// in order of appearance.
func placeholderSeq(d Dialect) func() string {
	n := 0
	return func() string {
		n++
		return d.Placeholder(n)
	}
}

// leafName strips any schema qualifier from a table name, for use in
// derived index names: "app.person" yields "person".
func leafName(table string) string {
	if i := strings.LastIndex(table, "."); i >= 0 {
		return table[i+1:]
	}
	return table
}
