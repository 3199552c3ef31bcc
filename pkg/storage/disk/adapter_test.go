package disk

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloHash = types.Hash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0")

func TestDiskAdapter(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)

	ctx := context.Background()

	// 1. Put
	err = store.Put(ctx, helloHash, []byte("record"))
	assert.NoError(t, err)

	// record lands in the shard directory
	expectedPath := filepath.Join(tmpDir, "b6", "fc4c620b67d95f953a5c1c1230aaab5db5a1b0")
	_, err = os.Stat(expectedPath)
	assert.NoError(t, err, "record must be in the shard directory")
	assert.Equal(t, expectedPath, store.layout(helloHash))

	// 2. Has
	exists, err := store.Has(ctx, helloHash)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Has(ctx, "ffffffffffffffffffffffffffffffffffffffff")
	assert.NoError(t, err)
	assert.False(t, exists)

	// 3. Get
	reader, err := store.Get(ctx, helloHash)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, []byte("record"), content)

	_, err = store.Get(ctx, "ffffffffffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDiskAdapter_PutIsWriteOnce(t *testing.T) {
	store, err := NewAdapter(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, helloHash, []byte("first")))
	before, err := os.Stat(store.layout(helloHash))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Put(ctx, helloHash, []byte("second")))

	after, err := os.Stat(store.layout(helloHash))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.True(t, os.SameFile(before, after))

	data, err := os.ReadFile(store.layout(helloHash))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestDiskAdapter_PutInvalidName(t *testing.T) {
	store, err := NewAdapter(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	assert.ErrorIs(t, store.Put(ctx, "abc", []byte("x")), types.ErrInvalidHash)
}

func TestDiskAdapter_RejectsInvalidNames(t *testing.T) {
	root := filepath.Join(t.TempDir(), "objects")
	store, err := NewAdapter(root)
	require.NoError(t, err)
	ctx := context.Background()

	// a record planted next to the object directory must stay unreachable
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(root), "evil"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b6"), 0o755))

	for _, name := range []types.Hash{"../evil", "b6", "B6FC4C620B67D95F953A5C1C1230AAAB5DB5A1B0"} {
		t.Run(string(name), func(t *testing.T) {
			rc, err := store.Get(ctx, name)
			assert.ErrorIs(t, err, types.ErrInvalidHash)
			assert.Nil(t, rc)

			ok, err := store.Has(ctx, name)
			assert.ErrorIs(t, err, types.ErrInvalidHash)
			assert.False(t, ok)
		})
	}
}

func TestDiskAdapter_ExpandHash(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)
	ctx := context.Background()

	objA := types.Hash("1111aaaa00000000000000000000000000000000")
	objB := types.Hash("1111bbbb00000000000000000000000000000000")
	objC := types.Hash("2222cccc00000000000000000000000000000000")

	require.NoError(t, store.Put(ctx, objA, []byte("A")))
	require.NoError(t, store.Put(ctx, objB, []byte("B")))
	require.NoError(t, store.Put(ctx, objC, []byte("C")))

	// stray temp file in a shard is ignored
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "22", ".22cc-tmp"), nil, 0o644))

	tests := []struct {
		name     string
		input    string
		wantHash types.Hash
		wantErr  error
	}{
		{"Exact match", string(objC), objC, nil},
		{"Unique prefix (4 chars)", "2222", objC, nil},
		{"Unique prefix (long)", "2222CCCC", objC, nil},
		{"Ambiguous prefix", "1111", "", storage.ErrAmbiguousHash},
		{"Not found", "ffff", "", storage.ErrNotFound},
		{"Full name not found", "ffffffffffffffffffffffffffffffffffffffff", "", storage.ErrNotFound},
		{"Too short", "123", "", storage.ErrPrefixTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ExpandHash(ctx, types.HashPrefix(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHash, got)
		})
	}
}

func TestDiskAdapter_Walk(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewAdapter(tmpDir)
	require.NoError(t, err)
	ctx := context.Background()

	want := []types.Hash{
		"1111aaaa00000000000000000000000000000000",
		"2222cccc00000000000000000000000000000000",
		helloHash,
	}
	for _, h := range want {
		require.NoError(t, store.Put(ctx, h, []byte(h)))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "pack"), 0o755))

	var got []types.Hash
	require.NoError(t, store.Walk(ctx, func(h types.Hash) error {
		got = append(got, h)
		return nil
	}))
	assert.ElementsMatch(t, want, got)
}
