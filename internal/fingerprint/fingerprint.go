// Package fingerprint derives the content identifier used by the registry.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length in hex characters of every fingerprint.
const Size = sha256.Size * 2

// Of returns the lowercase hex SHA-256 digest of content.
func Of(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// String is Of for text content, hashed as its UTF-8 bytes.
func String(content string) string {
	return Of([]byte(content))
}

// Valid reports whether s has the shape of a fingerprint (64 lowercase hex chars).
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
