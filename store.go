package satchel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// Store executes document operations against one database. It holds
// the pool, the dialect and the configuration; every operation builds
// its statement fresh, binds its parameters and issues exactly one
// execution. There is no statement cache and no retry: backend and
// mapping errors propagate to the caller unmodified.
type Store struct {
	db      *sql.DB
	dialect Dialect
	config  Config
	builder Builder
	binder  Binder
}

// New creates a Store over an open database handle. The configuration
// is captured once; zero-value fields take their documented defaults.
func New(db *sql.DB, dialect Dialect, config Config) (*Store, error) {
	if db == nil {
		return nil, ErrNoConnection
	}
	if dialect == nil {
		return nil, errors.New("no dialect configured")
	}
	if config.KeyField == "" {
		config.KeyField = DefaultKeyField
	}
	if config.Serializer == nil {
		config.Serializer = DefaultSerializer()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		config:  config,
		builder: Builder{Dialect: dialect, KeyField: config.KeyField},
		binder:  Binder{Dialect: dialect, KeyField: config.KeyField, Serializer: config.Serializer},
	}, nil
}

// DB exposes the underlying handle for caller-supplied SQL run
// through List, Single, Scalar and Exec.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the store's dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Builder returns the store's query builder, for callers composing
// custom statements in the store's dialect.
func (s *Store) Builder() Builder { return s.builder }

// Binder returns the store's parameter binder.
func (s *Store) Binder() Binder { return s.binder }

// Serializer returns the store's document serializer.
func (s *Store) Serializer() Serializer { return s.config.Serializer }

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrNoConnection
	}
	return nil
}

// EnsureTable creates the document table and its key index if they do
// not exist. Safe to call repeatedly.
func (s *Store) EnsureTable(ctx context.Context, table string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := Exec(ctx, s.db, s.builder.TableDDL(table), nil); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	if _, err := Exec(ctx, s.db, s.builder.KeyIndexDDL(table), nil); err != nil {
		return fmt.Errorf("ensure key index for %s: %w", table, err)
	}
	return nil
}

// EnsureFieldIndex creates an index over the given field paths if it
// does not exist.
func (s *Store) EnsureFieldIndex(ctx context.Context, table, indexName string, fields []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := Exec(ctx, s.db, s.builder.FieldIndexDDL(table, indexName, fields), nil); err != nil {
		return fmt.Errorf("ensure index %s on %s: %w", indexName, table, err)
	}
	return nil
}

// EnsureDocumentIndex creates a whole-document index if the engine
// supports one and it does not exist.
func (s *Store) EnsureDocumentIndex(ctx context.Context, table string, kind DocumentIndex) error {
	if err := s.ready(); err != nil {
		return err
	}
	ddl, err := s.builder.DocumentIndexDDL(table, kind)
	if err != nil {
		return err
	}
	if _, err := Exec(ctx, s.db, ddl, nil); err != nil {
		return fmt.Errorf("ensure document index on %s: %w", table, err)
	}
	return nil
}

// insertPayload serializes a document for Insert, applying the
// store's auto-ID strategy when the key field is absent, empty, or
// the numeric zero "0".
func (s *Store) insertPayload(doc any) (string, error) {
	id, data, err := documentKey(s.config.Serializer, s.config.KeyField, doc)
	if err != nil {
		return "", err
	}
	if (id != "" && id != "0") || s.config.AutoID == AutoIDDisabled {
		return data, nil
	}
	generated, err := s.config.generateID()
	if err != nil {
		return "", fmt.Errorf("generate document ID: %w", err)
	}
	var fields map[string]any
	if err := s.config.Serializer.Deserialize(data, &fields); err != nil {
		return "", err
	}
	fields[s.config.KeyField] = generated
	return s.config.Serializer.Serialize(fields)
}

// Insert stores a new document. A duplicate key surfaces as the
// backend's unique-constraint violation.
func (s *Store) Insert(ctx context.Context, table string, doc any) error {
	if err := s.ready(); err != nil {
		return err
	}
	data, err := s.insertPayload(doc)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, s.builder.Insert(table), []Param{{Name: "data", Value: data}})
	return err
}

// Save stores a document, replacing any existing document with the
// same key. Saving twice under one key leaves exactly one row with
// the second save's content.
func (s *Store) Save(ctx context.Context, table string, doc any) error {
	if err := s.ready(); err != nil {
		return err
	}
	param, err := s.binder.Document(doc)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, s.builder.Save(table), []Param{param})
	return err
}

// UpdateByID wholly replaces the document with the given key.
func (s *Store) UpdateByID(ctx context.Context, table string, id, doc any) error {
	if err := s.ready(); err != nil {
		return err
	}
	param, err := s.binder.Document(doc)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, s.builder.UpdateByID(table), []Param{param, s.binder.ID(id)})
	return err
}

// PatchByID merge-patches the document with the given key: fields in
// patch are applied, sibling fields are untouched.
func (s *Store) PatchByID(ctx context.Context, table string, id, patch any) error {
	if err := s.ready(); err != nil {
		return err
	}
	param, err := s.binder.Patch(patch)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, s.builder.PatchByID(table), []Param{param, s.binder.ID(id)})
	return err
}

// PatchByField merge-patches every document matching the comparison.
func (s *Store) PatchByField(ctx context.Context, table, field string, op Operator, value, patch any) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.PatchByField(table, field, op, value)
	if err != nil {
		return err
	}
	patchParam, err := s.binder.Patch(patch)
	if err != nil {
		return err
	}
	fieldParams, err := s.binder.Field(op, value)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, append([]Param{patchParam}, fieldParams...))
	return err
}

// PatchByContains merge-patches every document containing criteria.
func (s *Store) PatchByContains(ctx context.Context, table string, criteria, patch any) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.PatchByContains(table)
	if err != nil {
		return err
	}
	patchParam, err := s.binder.Patch(patch)
	if err != nil {
		return err
	}
	criteriaParam, err := s.binder.Contains(criteria)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, []Param{patchParam, criteriaParam})
	return err
}

// PatchByJSONPath merge-patches every document satisfying the path.
func (s *Store) PatchByJSONPath(ctx context.Context, table, path string, patch any) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.PatchByJSONPath(table)
	if err != nil {
		return err
	}
	patchParam, err := s.binder.Patch(patch)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, []Param{patchParam, s.binder.JSONPath(path)})
	return err
}

// RemoveFieldsByID prunes the named fields from the document with the
// given key. Fields the document does not carry are ignored.
func (s *Store) RemoveFieldsByID(ctx context.Context, table string, id any, fields ...string) error {
	if err := s.ready(); err != nil {
		return err
	}
	nameParams, err := s.binder.FieldNames(fields)
	if err != nil {
		return err
	}
	query := s.builder.RemoveFieldsByID(table, fields)
	_, err = Exec(ctx, s.db, query, append(nameParams, s.binder.ID(id)))
	return err
}

// RemoveFieldsByField prunes the named fields from every document
// matching the comparison.
func (s *Store) RemoveFieldsByField(ctx context.Context, table, field string, op Operator, value any, fields ...string) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.RemoveFieldsByField(table, field, op, value, fields)
	if err != nil {
		return err
	}
	nameParams, err := s.binder.FieldNames(fields)
	if err != nil {
		return err
	}
	fieldParams, err := s.binder.Field(op, value)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, append(nameParams, fieldParams...))
	return err
}

// RemoveFieldsByContains prunes the named fields from every document
// containing criteria.
func (s *Store) RemoveFieldsByContains(ctx context.Context, table string, criteria any, fields ...string) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.RemoveFieldsByContains(table, fields)
	if err != nil {
		return err
	}
	nameParams, err := s.binder.FieldNames(fields)
	if err != nil {
		return err
	}
	criteriaParam, err := s.binder.Contains(criteria)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, append(nameParams, criteriaParam))
	return err
}

// RemoveFieldsByJSONPath prunes the named fields from every document
// satisfying the path.
func (s *Store) RemoveFieldsByJSONPath(ctx context.Context, table, path string, fields ...string) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.RemoveFieldsByJSONPath(table, fields)
	if err != nil {
		return err
	}
	nameParams, err := s.binder.FieldNames(fields)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, append(nameParams, s.binder.JSONPath(path)))
	return err
}

// DeleteByID deletes the document with the given key. Deleting an
// absent key is not an error.
func (s *Store) DeleteByID(ctx context.Context, table string, id any) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := Exec(ctx, s.db, s.builder.DeleteByID(table), []Param{s.binder.ID(id)})
	return err
}

// DeleteByField deletes every document matching the comparison.
func (s *Store) DeleteByField(ctx context.Context, table, field string, op Operator, value any) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.DeleteByField(table, field, op, value)
	if err != nil {
		return err
	}
	params, err := s.binder.Field(op, value)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, params)
	return err
}

// DeleteByContains deletes every document containing criteria.
func (s *Store) DeleteByContains(ctx context.Context, table string, criteria any) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.DeleteByContains(table)
	if err != nil {
		return err
	}
	param, err := s.binder.Contains(criteria)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, []Param{param})
	return err
}

// DeleteByJSONPath deletes every document satisfying the path.
func (s *Store) DeleteByJSONPath(ctx context.Context, table, path string) error {
	if err := s.ready(); err != nil {
		return err
	}
	query, err := s.builder.DeleteByJSONPath(table)
	if err != nil {
		return err
	}
	_, err = Exec(ctx, s.db, query, []Param{s.binder.JSONPath(path)})
	return err
}

// CountAll counts the documents in a table.
func (s *Store) CountAll(ctx context.Context, table string) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	return Scalar[int64](ctx, s.db, s.builder.CountAll(table), nil)
}

// CountByID counts documents with the given key: 0 or 1.
func (s *Store) CountByID(ctx context.Context, table string, id any) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	return Scalar[int64](ctx, s.db, s.builder.CountByID(table), []Param{s.binder.ID(id)})
}

// CountByField counts documents matching the comparison.
func (s *Store) CountByField(ctx context.Context, table, field string, op Operator, value any) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	query, err := s.builder.CountByField(table, field, op, value)
	if err != nil {
		return 0, err
	}
	params, err := s.binder.Field(op, value)
	if err != nil {
		return 0, err
	}
	return Scalar[int64](ctx, s.db, query, params)
}

// CountByContains counts documents containing criteria.
func (s *Store) CountByContains(ctx context.Context, table string, criteria any) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	query, err := s.builder.CountByContains(table)
	if err != nil {
		return 0, err
	}
	param, err := s.binder.Contains(criteria)
	if err != nil {
		return 0, err
	}
	return Scalar[int64](ctx, s.db, query, []Param{param})
}

// CountByJSONPath counts documents satisfying the path.
func (s *Store) CountByJSONPath(ctx context.Context, table, path string) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	query, err := s.builder.CountByJSONPath(table)
	if err != nil {
		return 0, err
	}
	return Scalar[int64](ctx, s.db, query, []Param{s.binder.JSONPath(path)})
}

// scalarBool reads an EXISTS result. Engines disagree on the column
// type (boolean vs integer), so the scan goes through a loose value.
func scalarBool(ctx context.Context, q Querier, query string, params []Param) (bool, error) {
	value, err := Scalar[any](ctx, q, query, params)
	if err != nil {
		return false, err
	}
	return cast.ToBool(value), nil
}

// ExistsByID reports whether a document with the given key exists.
func (s *Store) ExistsByID(ctx context.Context, table string, id any) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return scalarBool(ctx, s.db, s.builder.ExistsByID(table), []Param{s.binder.ID(id)})
}

// ExistsByField reports whether any document matches the comparison.
func (s *Store) ExistsByField(ctx context.Context, table, field string, op Operator, value any) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	query, err := s.builder.ExistsByField(table, field, op, value)
	if err != nil {
		return false, err
	}
	params, err := s.binder.Field(op, value)
	if err != nil {
		return false, err
	}
	return scalarBool(ctx, s.db, query, params)
}

// ExistsByContains reports whether any document contains criteria.
func (s *Store) ExistsByContains(ctx context.Context, table string, criteria any) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	query, err := s.builder.ExistsByContains(table)
	if err != nil {
		return false, err
	}
	param, err := s.binder.Contains(criteria)
	if err != nil {
		return false, err
	}
	return scalarBool(ctx, s.db, query, []Param{param})
}

// ExistsByJSONPath reports whether any document satisfies the path.
func (s *Store) ExistsByJSONPath(ctx context.Context, table, path string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	query, err := s.builder.ExistsByJSONPath(table)
	if err != nil {
		return false, err
	}
	return scalarBool(ctx, s.db, query, []Param{s.binder.JSONPath(path)})
}
