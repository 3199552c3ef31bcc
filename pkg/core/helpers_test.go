package core

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"gitstore/pkg/types"

	"github.com/stretchr/testify/require"
)

// sha1Hex hashes raw bytes independently of the codec.
func sha1Hex(raw []byte) types.Hash {
	sum := sha1.Sum(raw)
	return types.Hash(hex.EncodeToString(sum[:]))
}

// mustDecode fails the test immediately if raw does not decode.
func mustDecode(t *testing.T, raw []byte, msgAndArgs ...any) Object {
	t.Helper()
	obj, err := Decode(raw)
	require.NoError(t, err, msgAndArgs...)
	return obj
}
