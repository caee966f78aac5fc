package satchel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier is the connection surface the execution pipeline runs
// against. *sql.DB, *sql.Conn and *sql.Tx all satisfy it: a Store
// executes against its pool (scoped acquisition with guaranteed
// release), while callers holding their own connection or transaction
// pass it to the package-level functions directly and stay
// responsible for releasing it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RowMapper converts the current row into a T. It must not advance
// the rows cursor.
type RowMapper[T any] func(rows *sql.Rows) (T, error)

// DocumentMapper returns a RowMapper that scans a single payload
// column and deserializes it. This is the mapper behind every
// document-returning operation.
func DocumentMapper[T any](s Serializer) RowMapper[T] {
	if s == nil {
		s = DefaultSerializer()
	}
	return func(rows *sql.Rows) (T, error) {
		var doc T
		var data string
		if err := rows.Scan(&data); err != nil {
			return doc, fmt.Errorf("scan document: %w", err)
		}
		if err := s.Deserialize(data, &doc); err != nil {
			return doc, err
		}
		return doc, nil
	}
}

// List executes a statement and maps every returned row, in row
// order. Backend and mapping errors propagate unmodified; there are
// no retries. The result is never nil on success.
func List[T any](ctx context.Context, q Querier, query string, params []Param, mapper RowMapper[T]) ([]T, error) {
	if q == nil {
		return nil, ErrNoConnection
	}
	rows, err := q.QueryContext(ctx, query, paramValues(params)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		item, err := mapper(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Single executes a statement and returns the first mapped row.
// Multiple matches are not an error; only the first row is surfaced.
// The bool reports whether a row was found.
func Single[T any](ctx context.Context, q Querier, query string, params []Param, mapper RowMapper[T]) (T, bool, error) {
	var zero T
	if q == nil {
		return zero, false, ErrNoConnection
	}
	rows, err := q.QueryContext(ctx, query, paramValues(params)...)
	if err != nil {
		return zero, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return zero, false, rows.Err()
	}
	item, err := mapper(rows)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// Scalar executes a statement and scans the first column of the
// first row into a T. No row yields the zero value, not an error.
func Scalar[T any](ctx context.Context, q Querier, query string, params []Param) (T, error) {
	var value T
	if q == nil {
		return value, ErrNoConnection
	}
	err := q.QueryRowContext(ctx, query, paramValues(params)...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, nil
	}
	if err != nil {
		return value, err
	}
	return value, nil
}

// Exec executes a statement that returns no rows and reports the
// affected-row count.
func Exec(ctx context.Context, q Querier, query string, params []Param) (int64, error) {
	if q == nil {
		return 0, ErrNoConnection
	}
	result, err := q.ExecContext(ctx, query, paramValues(params)...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
