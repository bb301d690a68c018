// Package store persists one opaque JSON document per game behind
// compare-and-swap semantics: every write names the version token it read,
// and the store rejects the write if the token is no longer current.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the document id is unknown to the store.
	ErrNotFound = errors.New("document not found")
	// ErrConflict means the expected version token no longer matches; the
	// caller must re-read and retry or abandon the operation.
	ErrConflict = errors.New("document version conflict")
)

// Store reads and conditionally writes documents. Tokens are opaque strings
// compared only for equality, never parsed.
type Store interface {
	// Read returns the document payload and its current version token.
	Read(ctx context.Context, id string) ([]byte, string, error)
	// Write replaces the document if expectedToken matches the stored token,
	// returning the new token. An empty expectedToken creates the document
	// and conflicts if it already exists. The description labels the write in
	// the audit trail.
	Write(ctx context.Context, id string, payload []byte, expectedToken, description string) (string, error)
}
