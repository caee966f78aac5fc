package satchel

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// AutoID selects how a Store fills a missing document key on Insert.
// A key is missing when it is absent, empty, or stringifies to "0"
// (a numeric key still at its zero value). Whatever the strategy,
// any other key is kept as given.
type AutoID int

const (
	// AutoIDDisabled stores documents exactly as given. Inserting a
	// document without a key then fails on the unique key index.
	AutoIDDisabled AutoID = iota
	// AutoIDUUID fills a missing key with a UUIDv7 string.
	AutoIDUUID
	// AutoIDRandomString fills a missing key with a random hex string
	// of Config.RandomIDLength characters.
	AutoIDRandomString
)

// DefaultRandomIDLength is the generated key length, in characters,
// when Config.RandomIDLength is zero.
const DefaultRandomIDLength = 16

// Config carries the per-store settings. It is fixed at construction
// time; a Store never mutates shared state after New returns, so a
// configured Store is safe for concurrent use.
type Config struct {
	// KeyField is the document field carrying the key. Default "Id".
	KeyField string
	// Serializer converts documents to and from stored JSON text.
	// Default: encoding/json via DefaultSerializer.
	Serializer Serializer
	// AutoID fills missing document keys on Insert.
	AutoID AutoID
	// RandomIDLength is the AutoIDRandomString key length in
	// characters. Even values only; default DefaultRandomIDLength.
	RandomIDLength int
}

func (c Config) generateID() (string, error) {
	switch c.AutoID {
	case AutoIDUUID:
		id, err := uuid.NewV7()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	case AutoIDRandomString:
		length := c.RandomIDLength
		if length <= 0 {
			length = DefaultRandomIDLength
		}
		buf := make([]byte, (length+1)/2)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf)[:length], nil
	}
	return "", nil
}
