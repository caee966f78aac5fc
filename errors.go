package satchel

import "errors"

var (
	// ErrNoConnection reports that a Store was asked to execute
	// without a database handle. Returned before any I/O is
	// attempted.
	ErrNoConnection = errors.New("no database connection configured")

	// ErrUnsupported reports a query form the dialect cannot
	// express, such as a containment predicate on SQLite.
	ErrUnsupported = errors.New("not supported")

	// ErrBadValue reports a value that does not satisfy an
	// operator's contract, such as a non-slice bound to In.
	ErrBadValue = errors.New("invalid value for operator")
)
