// Package sqlite supplies the SQLite dialect adapter and a connection
// helper built on mattn/go-sqlite3. Documents live in a TEXT column
// queried through the JSON1 functions. Containment and JSON path
// predicates are not available on this engine; field existence
// compiles to a null check on the extracted path.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/satchel-db/satchel"
)

type dialect struct{}

// Dialect is the SQLite capability adapter.
var Dialect satchel.Dialect = dialect{}

// Open creates or opens a database file and applies the connection
// configuration suited to a single-file store:
//
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
//
// The pool is limited to one connection; SQLite allows one writer at
// a time and a second connection only buys SQLITE_BUSY errors.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

// NewStore builds a document store over an open handle.
func NewStore(db *sql.DB, config satchel.Config) (*satchel.Store, error) {
	return satchel.New(db, Dialect, config)
}

func (dialect) Name() string { return "sqlite" }

func (dialect) JSONType() string { return "TEXT" }

func (dialect) Placeholder(int) string { return "?" }

// PathExpr extracts a field: data->>'F' for a top-level field,
// data->>'$.A.B' for a dotted path. SQLite's ->> yields a typed
// value, so the same expression serves text and numeric comparison.
func (dialect) PathExpr(field string) string {
	if strings.Contains(field, ".") {
		return "data->>'" + satchel.JSONPathOf(field) + "'"
	}
	return "data->>'" + field + "'"
}

func (d dialect) NumericPathExpr(field string) string { return d.PathExpr(field) }

var operators = map[satchel.Operator]satchel.OpSQL{
	satchel.Equal:          {Template: "{path} = {v}", Arity: 1},
	satchel.NotEqual:       {Template: "{path} <> {v}", Arity: 1},
	satchel.Greater:        {Template: "{path} > {v}", Arity: 1},
	satchel.GreaterOrEqual: {Template: "{path} >= {v}", Arity: 1},
	satchel.Less:           {Template: "{path} < {v}", Arity: 1},
	satchel.LessOrEqual:    {Template: "{path} <= {v}", Arity: 1},
	satchel.Between:        {Template: "{path} BETWEEN {v} AND {v}", Arity: 2},
	satchel.In:             {Template: "{path} IN (SELECT value FROM json_each({v}))", Arity: 1},
	satchel.Exists:         {Template: "{path} IS NOT NULL", Arity: 0},
	satchel.NotExists:      {Template: "{path} IS NULL", Arity: 0},
}

func (dialect) Operators() map[satchel.Operator]satchel.OpSQL { return operators }

func (dialect) UpsertClause(keyPath string) string {
	return "ON CONFLICT ((" + keyPath + ")) DO UPDATE SET data = excluded.data"
}

// PatchTemplate is the JSON1 RFC 7386 merge function.
func (dialect) PatchTemplate() string { return "json_patch(data, json({v}))" }

// RemoveFieldsTemplate prunes keys with json_remove, one bound path
// value per field.
func (dialect) RemoveFieldsTemplate(n int) (string, int) {
	return "json_remove(data" + strings.Repeat(", {v}", n) + ")", n
}

// EncodeIn packs the collection as a JSON array bound to one
// placeholder; the In fragment unpacks it with json_each.
func (dialect) EncodeIn(values []any) (any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (dialect) EncodeFieldNames(fields []string) ([]any, error) {
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = satchel.JSONPathOf(f)
	}
	return values, nil
}

func (d dialect) DocumentIndexDDL(table, indexName string, kind satchel.DocumentIndex) (string, error) {
	return "", fmt.Errorf("document index on dialect %s: %w", d.Name(), satchel.ErrUnsupported)
}

func (dialect) SupportsContains() bool { return false }

func (dialect) SupportsJSONPath() bool { return false }
