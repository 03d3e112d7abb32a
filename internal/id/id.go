// Package id issues identifiers for in-flight operations.
//
// Identifiers are ULIDs behind a short prefix naming what they belong to
// (op_01J...). A Source draws from monotonic entropy, so identifiers from
// one Source sort in the order they were issued, even within the same
// millisecond.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OperationPrefix tags request operation identifiers.
const OperationPrefix = "op"

// Source issues prefixed ULIDs. It is safe for concurrent use.
type Source struct {
	prefix string

	mu      sync.Mutex // guards entropy, which is not safe for concurrent use
	entropy *ulid.MonotonicEntropy
}

var operations = NewSource(OperationPrefix)

// NewSource creates a Source backed by crypto/rand. An empty prefix issues
// bare ULIDs.
func NewSource(prefix string) *Source {
	return NewSourceWithEntropy(prefix, rand.Reader)
}

// NewSourceWithEntropy creates a Source reading randomness from r.
func NewSourceWithEntropy(prefix string, r io.Reader) *Source {
	return &Source{prefix: prefix, entropy: ulid.Monotonic(r, 0)}
}

// ULID returns the next raw identifier.
func (s *Source) ULID() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy)
}

// Next returns the next identifier with the Source's prefix.
func (s *Source) Next() string {
	u := s.ULID().String()
	if s.prefix == "" {
		return u
	}
	return s.prefix + "_" + u
}

// NewOperationID identifies a fired request.
func NewOperationID() string {
	return operations.Next()
}

// Parse splits id into its prefix and ULID.
func Parse(id string) (string, ulid.ULID, error) {
	prefix, raw := "", id
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		prefix, raw = id[:i], id[i+1:]
	}
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", ulid.ULID{}, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return prefix, u, nil
}

// IsValid reports whether id holds a ULID, with or without a prefix.
func IsValid(id string) bool {
	_, _, err := Parse(id)
	return err == nil
}

// Timestamp is the issue time encoded in id, to the millisecond.
func Timestamp(id string) (time.Time, error) {
	_, u, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
