package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedb/pagedb/internal/storage/page"
	util "github.com/pagedb/pagedb/internal/utils"
)

func TestOpen(t *testing.T) {
	t.Run("CreatesEmptyFile", func(t *testing.T) {
		path, cleanup := util.CreateTempFile(t)
		defer cleanup()

		df, err := Open(path)
		require.NoError(t, err)
		defer df.Close()

		assert.Equal(t, path, df.Filename())
		assert.Equal(t, util.PageID(0), df.NumPages())
		assert.NotZero(t, df.ID())
	})

	t.Run("HandlesHaveDistinctIDs", func(t *testing.T) {
		path1, cleanup1 := util.CreateTempFile(t)
		defer cleanup1()
		path2, cleanup2 := util.CreateTempFile(t)
		defer cleanup2()

		df1, err := Open(path1)
		require.NoError(t, err)
		defer df1.Close()
		df2, err := Open(path2)
		require.NoError(t, err)
		defer df2.Close()

		assert.NotEqual(t, df1.ID(), df2.ID())
	})
}

func TestAllocateReadWrite(t *testing.T) {
	path, cleanup := util.CreateTempFile(t)
	defer cleanup()
	df, err := Open(path)
	require.NoError(t, err)
	defer df.Close()

	pageNo, err := df.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, util.PageID(0), pageNo)
	assert.Equal(t, util.PageID(1), df.NumPages())

	// freshly allocated pages read back zeroed
	p, err := df.ReadPage(pageNo)
	require.NoError(t, err)
	assert.Equal(t, pageNo, p.PageNo())
	assert.Equal(t, [page.DataSize]byte{}, p.Data)

	copy(p.Data[:], []byte("written through"))
	require.NoError(t, df.WritePage(p))

	got, err := df.ReadPage(pageNo)
	require.NoError(t, err)
	assert.Equal(t, "written through", string(got.Data[:15]))
}

func TestReadOutOfBounds(t *testing.T) {
	path, cleanup := util.CreateTempFile(t)
	defer cleanup()
	df, err := Open(path)
	require.NoError(t, err)
	defer df.Close()

	_, err = df.ReadPage(0)
	assert.ErrorIs(t, err, util.ErrPageOutOfBounds)

	p := page.CreateTestPage(5, nil)
	assert.ErrorIs(t, df.WritePage(p), util.ErrPageOutOfBounds)
}

func TestDeletePage(t *testing.T) {
	path, cleanup := util.CreateTempFile(t)
	defer cleanup()
	df, err := Open(path)
	require.NoError(t, err)
	defer df.Close()

	p0, err := df.AllocatePage()
	require.NoError(t, err)
	p1, err := df.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, util.PageID(1), p1)

	require.NoError(t, df.DeletePage(p0))

	// deleted storage is reused before the file grows
	reused, err := df.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, p0, reused)
	assert.Equal(t, util.PageID(2), df.NumPages())

	t.Run("DoubleDelete", func(t *testing.T) {
		require.NoError(t, df.DeletePage(p1))
		assert.ErrorIs(t, df.DeletePage(p1), util.ErrPageDeleted)
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		assert.ErrorIs(t, df.DeletePage(100), util.ErrPageOutOfBounds)
	})
}

func TestClose(t *testing.T) {
	path, cleanup := util.CreateTempFile(t)
	defer cleanup()
	df, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, df.Close())
	assert.NoError(t, df.Close(), "close is idempotent")

	var nilFile *DataFile
	assert.NoError(t, nilFile.Close())
}
