package objstore

import (
	"context"
	"fmt"
	"testing"

	"gitstore/pkg/core"
	"gitstore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Clean(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := s.Write(ctx, core.NewBlob([]byte(fmt.Sprintf("blob %d", i))))
		require.NoError(t, err)
	}

	report, err := s.Verify(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, report.Checked)
	assert.True(t, report.OK())
}

func TestVerify_FindsCorruption(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()

	_, err := s.Write(ctx, core.NewBlob([]byte("good")))
	require.NoError(t, err)

	// valid encoding stored under the wrong name
	wrongName := types.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	putRecord(t, s, wrongName, core.Encode(core.NewBlob([]byte("other"))))

	// bad length under its would-be name
	badLen := types.Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	putRecord(t, s, badLen, []byte("blob 9\x00short"))

	report, err := s.Verify(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	require.Len(t, report.Corrupt, 2)

	assert.Equal(t, wrongName, report.Corrupt[0].Hash)
	assert.ErrorIs(t, report.Corrupt[0].Err, core.ErrMalformedObject)
	assert.Equal(t, badLen, report.Corrupt[1].Hash)
	assert.ErrorIs(t, report.Corrupt[1].Err, core.ErrMalformedObject)
	assert.Contains(t, report.Corrupt[1].String(), string(badLen))
}

func TestVerify_Canceled(t *testing.T) {
	_, s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Write(ctx, core.NewBlob([]byte("x")))
	require.NoError(t, err)
	cancel()

	_, err = s.Verify(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
