package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "github.com/pagedb/pagedb/internal/utils"
)

func TestDirectoryInsertLookupRemove(t *testing.T) {
	d := NewPageDirectory(8)

	require.NoError(t, d.Insert(1, 42, 3))
	frame, ok := d.Lookup(1, 42)
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(3), frame)
	assert.Equal(t, 1, d.Len())

	require.NoError(t, d.Remove(1, 42))
	_, ok = d.Lookup(1, 42)
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestDirectoryDuplicateInsert(t *testing.T) {
	d := NewPageDirectory(8)
	require.NoError(t, d.Insert(1, 42, 3))

	err := d.Insert(1, 42, 5)
	assert.ErrorIs(t, err, util.ErrDirectoryDuplicate)

	// the original mapping is untouched
	frame, ok := d.Lookup(1, 42)
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(3), frame)
}

func TestDirectoryRemoveMissing(t *testing.T) {
	d := NewPageDirectory(8)
	err := d.Remove(1, 42)
	assert.ErrorIs(t, err, util.ErrDirectoryMissing)
}

func TestDirectoryMiss(t *testing.T) {
	d := NewPageDirectory(8)
	frame, ok := d.Lookup(9, 9)
	assert.False(t, ok)
	assert.Equal(t, util.InvalidFrameID, frame)
}

func TestDirectoryKeysAreFileScoped(t *testing.T) {
	d := NewPageDirectory(8)
	require.NoError(t, d.Insert(1, 7, 0))
	require.NoError(t, d.Insert(2, 7, 1))

	f1, _ := d.Lookup(1, 7)
	f2, _ := d.Lookup(2, 7)
	assert.Equal(t, util.FrameID(0), f1)
	assert.Equal(t, util.FrameID(1), f2)
}

// Small capacity forces bucket chains; every entry must stay reachable.
func TestDirectoryCollisions(t *testing.T) {
	d := NewPageDirectory(4) // 5 buckets

	for i := util.PageID(0); i < 20; i++ {
		require.NoError(t, d.Insert(1, i, util.FrameID(i)))
	}
	assert.Equal(t, 20, d.Len())

	for i := util.PageID(0); i < 20; i++ {
		frame, ok := d.Lookup(1, i)
		require.True(t, ok, "page %d reachable", i)
		assert.Equal(t, util.FrameID(i), frame)
	}

	for i := util.PageID(0); i < 20; i += 2 {
		require.NoError(t, d.Remove(1, i))
	}
	assert.Equal(t, 10, d.Len())
	for i := util.PageID(0); i < 20; i++ {
		_, ok := d.Lookup(1, i)
		assert.Equal(t, i%2 == 1, ok, "page %d", i)
	}
}
