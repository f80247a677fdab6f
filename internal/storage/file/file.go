package file

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/pagedb/pagedb/internal/storage/page"
	util "github.com/pagedb/pagedb/internal/utils"
)

var nextFileID uint32

// DataFile owns the pages of one on-disk file. Pages are addressed by
// page number at fixed offsets; reads and writes go through
// ReadAt/WriteAt so no mapping or seeking state is shared.
type DataFile struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	id       util.FileID
	numPages util.PageID   // file length in pages; grows on AllocatePage
	free     []util.PageID // deleted page numbers available for reuse
}

// Open opens or creates the data file at path. Each handle gets a
// process-unique FileID used by the buffer pool's directory.
func Open(path string) (*DataFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, errors.Wrapf(err, "open file %s", path)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat file %s", path)
	}

	return &DataFile{
		file:     f,
		path:     path,
		id:       util.FileID(atomic.AddUint32(&nextFileID, 1)),
		numPages: util.PageID(stat.Size() / util.PageSize),
	}, nil
}

// ID returns the handle's stable identity.
func (df *DataFile) ID() util.FileID {
	return df.id
}

// Filename returns the path the file was opened with.
func (df *DataFile) Filename() string {
	return df.path
}

// NumPages returns the number of pages the file spans, free or not.
func (df *DataFile) NumPages() util.PageID {
	df.mu.Lock()
	defer df.mu.Unlock()
	return df.numPages
}

// ReadPage reads the page at pageNo into memory.
func (df *DataFile) ReadPage(pageNo util.PageID) (*page.Page, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	if pageNo >= df.numPages {
		return nil, errors.Wrapf(util.ErrPageOutOfBounds, "read page %d of %s (%d pages)", pageNo, df.path, df.numPages)
	}

	buf := make([]byte, util.PageSize)
	if _, err := df.file.ReadAt(buf, int64(pageNo)*util.PageSize); err != nil {
		return nil, errors.Wrapf(err, "read page %d of %s", pageNo, df.path)
	}

	p, err := page.Deserialize(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "deserialize page %d of %s", pageNo, df.path)
	}
	return p, nil
}

// WritePage writes p at the offset of its embedded page number.
func (df *DataFile) WritePage(p *page.Page) error {
	df.mu.Lock()
	defer df.mu.Unlock()
	return df.writePageLocked(p)
}

func (df *DataFile) writePageLocked(p *page.Page) error {
	pageNo := p.Header.PageNo
	if pageNo >= df.numPages {
		return errors.Wrapf(util.ErrPageOutOfBounds, "write page %d of %s (%d pages)", pageNo, df.path, df.numPages)
	}

	if _, err := df.file.WriteAt(p.Serialize(), int64(pageNo)*util.PageSize); err != nil {
		return errors.Wrapf(err, "write page %d of %s", pageNo, df.path)
	}
	return nil
}

// AllocatePage reserves storage for one new page and returns its page
// number. Deleted pages are reused before the file is extended. The
// page is zero-initialized and written through before returning.
func (df *DataFile) AllocatePage() (util.PageID, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	var pageNo util.PageID
	if n := len(df.free); n > 0 {
		pageNo = df.free[n-1]
		df.free = df.free[:n-1]
	} else {
		pageNo = df.numPages
		df.numPages++
	}

	p := &page.Page{Header: page.PageHeader{PageNo: pageNo}}
	if err := df.writePageLocked(p); err != nil {
		return 0, err
	}
	return pageNo, nil
}

// DeletePage releases the page's storage for reuse by a later
// AllocatePage. Deleting an already-deleted page is a caller error.
func (df *DataFile) DeletePage(pageNo util.PageID) error {
	df.mu.Lock()
	defer df.mu.Unlock()

	if pageNo >= df.numPages {
		return errors.Wrapf(util.ErrPageOutOfBounds, "delete page %d of %s (%d pages)", pageNo, df.path, df.numPages)
	}
	for _, freed := range df.free {
		if freed == pageNo {
			return errors.Wrapf(util.ErrPageDeleted, "delete page %d of %s", pageNo, df.path)
		}
	}

	df.free = append(df.free, pageNo)
	return nil
}

// Close syncs and closes the file. Idempotent.
func (df *DataFile) Close() error {
	if df == nil {
		return nil
	}
	df.mu.Lock()
	defer df.mu.Unlock()

	if df.file == nil {
		return nil
	}
	var err error
	if e := df.file.Sync(); e != nil {
		err = errors.Wrapf(e, "sync file %s", df.path)
	}
	if e := df.file.Close(); e != nil && err == nil {
		err = errors.Wrapf(e, "close file %s", df.path)
	}
	df.file = nil
	return err
}
