package core

import (
	"crypto/sha1"

	"gitstore/pkg/types"
)

// Hash computes the object name of obj.
func Hash(obj Object) types.Hash {
	return HashEncoded(Encode(obj))
}

// HashEncoded computes the object name of already encoded bytes.
func HashEncoded(encoded []byte) types.Hash {
	sum := sha1.Sum(encoded)
	return types.HashFromBytes(sum[:])
}
