// Package satchel stores JSON documents in ordinary SQL tables and
// queries them with a backend-neutral vocabulary of operations.
//
// A document table has a single payload column named data. Documents
// are addressed by a key extracted from a configurable field (default
// "Id"), by a comparison on a field inside the document, or, where
// the engine supports it, by JSON containment or JSON path
// predicates. Two dialects ship with the module: PostgreSQL (JSONB,
// in the postgres package) and SQLite (JSON1, in the sqlite package).
//
// All SQL text is generated deterministically: building the same
// logical query twice yields byte-identical text. Values are always
// bound as parameters; table names and field paths are trusted input
// and appear verbatim in the generated SQL.
//
// The execution pipeline is generic over the result shape: List for
// all matching documents, Single for the first match plus a found
// flag, Scalar for a single-column value. The same pipeline runs
// caller-supplied SQL; see List, Single, Scalar and Exec.
package satchel
