package satchel

import "context"

// Typed document reads. Go methods cannot carry their own type
// parameters, so the operations that produce documents of a caller
// type are package-level functions taking the Store first.

// FindAll returns every document in a table, optionally ordered by
// field paths (" DESC" suffix honored).
func FindAll[T any](ctx context.Context, s *Store, table string, orderBy ...string) ([]T, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := s.builder.FindAll(table, orderBy...)
	return List(ctx, s.db, query, nil, DocumentMapper[T](s.config.Serializer))
}

// FindByID returns the document with the given key. The bool reports
// whether it was found.
func FindByID[T any](ctx context.Context, s *Store, table string, id any) (T, bool, error) {
	var zero T
	if err := s.ready(); err != nil {
		return zero, false, err
	}
	query := s.builder.FindByID(table)
	return Single(ctx, s.db, query, []Param{s.binder.ID(id)}, DocumentMapper[T](s.config.Serializer))
}

// FindByField returns every document matching a field comparison.
func FindByField[T any](ctx context.Context, s *Store, table, field string, op Operator, value any, orderBy ...string) ([]T, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query, err := s.builder.FindByField(table, field, op, value, orderBy...)
	if err != nil {
		return nil, err
	}
	params, err := s.binder.Field(op, value)
	if err != nil {
		return nil, err
	}
	return List(ctx, s.db, query, params, DocumentMapper[T](s.config.Serializer))
}

// FindFirstByField returns the first document matching a field
// comparison. Multiple matches are not an error.
func FindFirstByField[T any](ctx context.Context, s *Store, table, field string, op Operator, value any, orderBy ...string) (T, bool, error) {
	var zero T
	if err := s.ready(); err != nil {
		return zero, false, err
	}
	query, err := s.builder.FindByField(table, field, op, value, orderBy...)
	if err != nil {
		return zero, false, err
	}
	params, err := s.binder.Field(op, value)
	if err != nil {
		return zero, false, err
	}
	return Single(ctx, s.db, query, params, DocumentMapper[T](s.config.Serializer))
}

// FindByContains returns every document that is a structural superset
// of criteria.
func FindByContains[T any](ctx context.Context, s *Store, table string, criteria any, orderBy ...string) ([]T, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query, err := s.builder.FindByContains(table, orderBy...)
	if err != nil {
		return nil, err
	}
	param, err := s.binder.Contains(criteria)
	if err != nil {
		return nil, err
	}
	return List(ctx, s.db, query, []Param{param}, DocumentMapper[T](s.config.Serializer))
}

// FindFirstByContains returns the first document containing criteria.
func FindFirstByContains[T any](ctx context.Context, s *Store, table string, criteria any, orderBy ...string) (T, bool, error) {
	var zero T
	if err := s.ready(); err != nil {
		return zero, false, err
	}
	query, err := s.builder.FindByContains(table, orderBy...)
	if err != nil {
		return zero, false, err
	}
	param, err := s.binder.Contains(criteria)
	if err != nil {
		return zero, false, err
	}
	return Single(ctx, s.db, query, []Param{param}, DocumentMapper[T](s.config.Serializer))
}

// FindByJSONPath returns every document satisfying a JSON path.
func FindByJSONPath[T any](ctx context.Context, s *Store, table, path string, orderBy ...string) ([]T, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query, err := s.builder.FindByJSONPath(table, orderBy...)
	if err != nil {
		return nil, err
	}
	return List(ctx, s.db, query, []Param{s.binder.JSONPath(path)}, DocumentMapper[T](s.config.Serializer))
}

// FindFirstByJSONPath returns the first document satisfying a JSON
// path.
func FindFirstByJSONPath[T any](ctx context.Context, s *Store, table, path string, orderBy ...string) (T, bool, error) {
	var zero T
	if err := s.ready(); err != nil {
		return zero, false, err
	}
	query, err := s.builder.FindByJSONPath(table, orderBy...)
	if err != nil {
		return zero, false, err
	}
	return Single(ctx, s.db, query, []Param{s.binder.JSONPath(path)}, DocumentMapper[T](s.config.Serializer))
}

// UpdateByFunc loads the document with the given key, applies fn and
// writes the result back as a full replacement. The bool reports
// whether the document existed. There is no concurrency token: two
// racing updates resolve to whichever write lands last.
func UpdateByFunc[T any](ctx context.Context, s *Store, table string, id any, fn func(T) (T, error)) (bool, error) {
	doc, found, err := FindByID[T](ctx, s, table, id)
	if err != nil || !found {
		return false, err
	}
	updated, err := fn(doc)
	if err != nil {
		return false, err
	}
	if err := s.UpdateByID(ctx, table, id, updated); err != nil {
		return false, err
	}
	return true, nil
}
