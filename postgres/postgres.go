// Package postgres supplies the PostgreSQL dialect adapter and a
// connection helper built on the pgx stdlib driver. Documents live in
// a JSONB column; containment (@>) and JSON path (@?) predicates are
// available, and field existence compiles to the native
// jsonb_path_exists key-presence form.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/satchel-db/satchel"
)

type dialect struct{}

// Dialect is the PostgreSQL capability adapter.
var Dialect satchel.Dialect = dialect{}

// Open opens a pooled connection via the pgx stdlib driver and
// verifies connectivity before returning.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// NewStore builds a document store over an open handle.
func NewStore(db *sql.DB, config satchel.Config) (*satchel.Store, error) {
	return satchel.New(db, Dialect, config)
}

func (dialect) Name() string { return "postgresql" }

func (dialect) JSONType() string { return "JSONB" }

func (dialect) Placeholder(ordinal int) string {
	return fmt.Sprintf("$%d", ordinal)
}

// PathExpr extracts a field as text: data->>'F' for a top-level
// field, data#>>'{A,B}' for a dotted path.
func (dialect) PathExpr(field string) string {
	if strings.Contains(field, ".") {
		return "data#>>'{" + strings.ReplaceAll(field, ".", ",") + "}'"
	}
	return "data->>'" + field + "'"
}

// NumericPathExpr casts the text extraction for numeric comparison;
// ->> always yields text on PostgreSQL.
func (d dialect) NumericPathExpr(field string) string {
	return "(" + d.PathExpr(field) + ")::numeric"
}

var operators = map[satchel.Operator]satchel.OpSQL{
	satchel.Equal:          {Template: "{path} = {v}", Arity: 1},
	satchel.NotEqual:       {Template: "{path} <> {v}", Arity: 1},
	satchel.Greater:        {Template: "{path} > {v}", Arity: 1},
	satchel.GreaterOrEqual: {Template: "{path} >= {v}", Arity: 1},
	satchel.Less:           {Template: "{path} < {v}", Arity: 1},
	satchel.LessOrEqual:    {Template: "{path} <= {v}", Arity: 1},
	satchel.Between:        {Template: "{path} BETWEEN {v} AND {v}", Arity: 2},
	satchel.In: {
		Template:        "{path} IN (SELECT value FROM jsonb_array_elements_text({v}::jsonb))",
		NumericTemplate: "{path} IN (SELECT value::numeric FROM jsonb_array_elements_text({v}::jsonb))",
		Arity:           1,
	},
	satchel.Exists:        {Template: "jsonb_path_exists(data, '{jsonpath}')", Arity: 0},
	satchel.NotExists:     {Template: "NOT jsonb_path_exists(data, '{jsonpath}')", Arity: 0},
	satchel.Contains:      {Template: "data @> {v}", Arity: 1},
	satchel.JSONPathMatch: {Template: "data @? {v}::jsonpath", Arity: 1},
}

func (dialect) Operators() map[satchel.Operator]satchel.OpSQL { return operators }

func (dialect) UpsertClause(keyPath string) string {
	return "ON CONFLICT ((" + keyPath + ")) DO UPDATE SET data = EXCLUDED.data"
}

// PatchTemplate is the JSONB shallow-merge operator.
func (dialect) PatchTemplate() string { return "data || {v}" }

// RemoveFieldsTemplate prunes keys with the jsonb minus operator; the
// names travel as one text[] value however many fields are pruned.
func (dialect) RemoveFieldsTemplate(int) (string, int) {
	return "data - {v}::text[]", 1
}

// EncodeIn packs the collection as a JSON array bound to one
// placeholder; the In fragment unpacks it server-side.
func (dialect) EncodeIn(values []any) (any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (dialect) EncodeFieldNames(fields []string) ([]any, error) {
	return []any{pq.Array(fields)}, nil
}

func (dialect) DocumentIndexDDL(table, indexName string, kind satchel.DocumentIndex) (string, error) {
	ops := ""
	if kind == satchel.OptimizedDocumentIndex {
		ops = " jsonb_path_ops"
	}
	return "CREATE INDEX IF NOT EXISTS " + indexName + " ON " + table + " USING GIN (data" + ops + ")", nil
}

func (dialect) SupportsContains() bool { return true }

func (dialect) SupportsJSONPath() bool { return true }
