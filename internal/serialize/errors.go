package serialize

import "errors"

// ErrMalformed indicates the JSON text could not be parsed into the
// expected shape at all.
var ErrMalformed = errors.New("serialize: malformed JSON")

// ErrUnknownKind indicates an order's kind field is not one of the four
// contract values.
var ErrUnknownKind = errors.New("serialize: unknown order kind")

// ErrInvalidID indicates an order's id field is not a well-formed
// identifier. Kept distinct from ErrMalformed so callers can surface the
// "Invalid UUID string" wire failure precisely.
var ErrInvalidID = errors.New("serialize: invalid identifier string")
