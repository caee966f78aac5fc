package satchel

import "strings"

// DDL builders. All definition statements are idempotent via IF NOT
// EXISTS: re-running them against an existing object is a no-op.
// Derived index names use the table's leaf name so schema-qualified
// tables ("app.person") produce valid unqualified index names.

// TableDDL creates the document table: a single non-null payload
// column named data, typed per dialect.
func (b Builder) TableDDL(table string) string {
	return "CREATE TABLE IF NOT EXISTS " + table + " (data " + b.Dialect.JSONType() + " NOT NULL)"
}

// KeyIndexDDL creates the unique expression index over the document
// key. Save relies on this index as its conflict target.
func (b Builder) KeyIndexDDL(table string) string {
	return "CREATE UNIQUE INDEX IF NOT EXISTS idx_" + leafName(table) + "_key ON " +
		table + " ((" + b.Dialect.PathExpr(b.Key()) + "))"
}

// FieldIndexDDL creates an expression index over the given field
// paths.
func (b Builder) FieldIndexDDL(table, indexName string, fields []string) string {
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, "("+b.Dialect.PathExpr(f)+")")
	}
	return "CREATE INDEX IF NOT EXISTS idx_" + leafName(table) + "_" + indexName + " ON " +
		table + " (" + strings.Join(terms, ", ") + ")"
}

// DocumentIndexDDL creates a whole-document index where the engine
// supports one (PostgreSQL GIN); otherwise ErrUnsupported.
func (b Builder) DocumentIndexDDL(table string, kind DocumentIndex) (string, error) {
	return b.Dialect.DocumentIndexDDL(table, "idx_"+leafName(table)+"_document", kind)
}
