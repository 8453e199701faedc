// Package service implements identity primitives: session token hashing.
package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// SessionHasher turns presented session tokens into the hash stored in the
// sessions table. Plain session tokens are never persisted or logged.
type SessionHasher interface {
	HashToken(plainToken string) string
}

// sessionHasher implements SessionHasher using SHA-256.
type sessionHasher struct{}

// NewSessionHasher creates a new SessionHasher instance.
func NewSessionHasher() SessionHasher {
	return &sessionHasher{}
}

// HashToken hashes a plain session token using SHA-256.
// Returns the hash as a hexadecimal string.
func (s *sessionHasher) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}
