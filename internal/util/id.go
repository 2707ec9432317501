package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a 24-character hex ID.
func NewID() string {
	return NewHexID(12)
}

// NewHexID returns size random bytes hex-encoded.
func NewHexID(size int) string {
	if size <= 0 {
		size = 12
	}
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
