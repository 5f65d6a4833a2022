// Package id provides the identity primitives shared across the matching
// engine: globally unique order/trade identifiers and parsing of their
// canonical text form.
package id

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalid is returned when a piece of identifier text cannot be parsed.
var ErrInvalid = errors.New("invalid identifier string")

// ID is a globally unique identifier, assigned once at construction and
// never reused.
type ID = uuid.UUID

// New returns a fresh, random identifier. Collisions are negligible
// (128-bit random, version 4).
func New() ID {
	return uuid.New()
}

// Parse decodes the canonical text form of an identifier. It fails closed:
// malformed text never yields a zero-value ID masquerading as valid.
func Parse(s string) (ID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ID{}, ErrInvalid
	}
	return parsed, nil
}
