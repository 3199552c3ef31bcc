// pkg/types/common.go
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidHash is returned for names that are not 40 hex characters.
var ErrInvalidHash = errors.New("invalid object name")

// HexSize is the length of a hex-encoded SHA-1 object name.
const HexSize = 40

// MinPrefixLen is the shortest abbreviation accepted by hash lookups.
const MinPrefixLen = 4

// Hash is an object name: the lowercase hex SHA-1 of the object's canonical bytes.
// It is a value object and never mutated.
type Hash string

func (h Hash) String() string { return string(h) }

// IsValid reports whether h is exactly 40 lowercase hex characters.
func (h Hash) IsValid() bool {
	if len(h) != HexSize {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Shard splits the hash into the fan-out directory and the file name
// used by the loose object layout: "aabbcc..." -> ("aa", "bbcc...").
func (h Hash) Shard() (dir, file string) {
	if len(h) < 2 {
		return "", string(h)
	}
	return string(h[:2]), string(h[2:])
}

// ParseHash normalizes s and checks that it is a full object name.
func ParseHash(s string) (Hash, error) {
	h := Hash(strings.ToLower(strings.TrimSpace(s)))
	if !h.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	return h, nil
}

// Validate returns ErrInvalidHash unless h is a full object name.
func (h Hash) Validate() error {
	if !h.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidHash, string(h))
	}
	return nil
}

// HashFromBytes hex-encodes a raw digest.
func HashFromBytes(sum []byte) Hash {
	return Hash(hex.EncodeToString(sum))
}

// HashPrefix is a possibly abbreviated object name given by a user.
type HashPrefix string

func (p HashPrefix) String() string { return string(p) }

// Normalize trims and lowercases the prefix.
func (p HashPrefix) Normalize() HashPrefix {
	return HashPrefix(strings.ToLower(strings.TrimSpace(string(p))))
}

// IsFull reports whether the prefix is already a complete object name.
func (p HashPrefix) IsFull() bool { return Hash(p).IsValid() }
