package buffer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/pagedb/pagedb/internal/logger"
	"github.com/pagedb/pagedb/internal/storage/page"
	util "github.com/pagedb/pagedb/internal/utils"
)

// BufferPool mediates all page access for the storage engine: it
// keeps a fixed number of pages resident, faults missing pages in
// from their files and evicts with the clock policy when space runs
// out. A page is never reclaimed while a caller still holds a pin.
//
// The pool-level mutex is held for the full duration of every public
// operation, including synchronous write-back and fault-in I/O, so
// two callers can never race to load the same missing page.
type BufferPool struct {
	mu        sync.Mutex
	frames    []FrameDesc
	pages     []page.Page
	directory *PageDirectory
	replacer  Replacer
}

// NewBufferPool builds a pool with size frame slots. Capacity is
// fixed for the pool's lifetime.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}

	bp := &BufferPool{
		frames:    make([]FrameDesc, size),
		pages:     make([]page.Page, size),
		directory: NewPageDirectory(size),
	}
	bp.replacer = NewClockReplacer(bp.frames, bp.evictFrame)
	return bp
}

// Size returns the pool capacity in frames.
func (bp *BufferPool) Size() int {
	return len(bp.frames)
}

// evictFrame writes the victim back if dirty, drops its directory
// entry and clears its descriptor. Called by the replacer once a
// victim is chosen.
func (bp *BufferPool) evictFrame(id util.FrameID) error {
	fd := &bp.frames[id]
	if fd.dirty {
		if err := fd.file.WritePage(&bp.pages[id]); err != nil {
			return errors.Wrapf(err, "write back page %d of %s", fd.pageNo, fd.file.Filename())
		}
		logger.Debugf("evicted dirty page %d of %s from frame %d", fd.pageNo, fd.file.Filename(), id)
	}
	if err := bp.directory.Remove(fd.file.ID(), fd.pageNo); err != nil {
		return err
	}
	fd.Clear()
	return nil
}

// FetchPage returns the resident copy of the page, faulting it in
// from f if needed. The page comes back pinned; the caller must
// UnpinPage it. At most one copy of a (file, page) pair is resident
// at any time.
func (bp *BufferPool) FetchPage(f File, pageNo util.PageID) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if id, ok := bp.directory.Lookup(f.ID(), pageNo); ok {
		fd := &bp.frames[id]
		fd.pinCount++
		fd.MarkAccessed()
		return &bp.pages[id], nil
	}

	return bp.faultIn(f, pageNo)
}

// faultIn loads the page into a fresh frame. The frame stays invalid
// if the read fails, so a failed fault leaves no residue.
func (bp *BufferPool) faultIn(f File, pageNo util.PageID) (*page.Page, error) {
	id, err := bp.replacer.Victim()
	if err != nil {
		return nil, err
	}

	p, err := f.ReadPage(pageNo)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch page %d of %s", pageNo, f.Filename())
	}
	bp.pages[id] = *p

	if err := bp.directory.Insert(f.ID(), pageNo, id); err != nil {
		return nil, err
	}
	bp.frames[id].Set(f, pageNo)

	return &bp.pages[id], nil
}

// UnpinPage releases one pin on the page. markDirty records that the
// caller modified the in-memory copy; a page once dirty stays dirty
// until written back. Unpinning a page that is no longer resident is
// a no-op: eviction by a concurrent fetch is a normal race, not a
// caller error. Unpinning a resident page whose pin count is already
// zero is a double release and fails with ErrPageNotPinned.
func (bp *BufferPool) UnpinPage(f File, pageNo util.PageID, markDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	id, ok := bp.directory.Lookup(f.ID(), pageNo)
	if !ok {
		return nil
	}

	fd := &bp.frames[id]
	if fd.pinCount == 0 {
		return errors.Wrapf(util.ErrPageNotPinned, "unpin page %d of %s", pageNo, f.Filename())
	}
	if markDirty {
		fd.dirty = true
	}
	fd.pinCount--
	return nil
}

// FlushFile writes back and drops every resident page of f. All of
// the file's pages must be unpinned first: the call fails with
// ErrPagePinned before touching any frame, so a failed flush leaves
// every page's pin and dirty state unchanged.
func (bp *BufferPool) FlushFile(f File) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	fileID := f.ID()
	for i := range bp.frames {
		fd := &bp.frames[i]
		if fd.valid && fd.file.ID() == fileID && fd.pinCount > 0 {
			return errors.Wrapf(util.ErrPagePinned, "flush %s: page %d pinned in frame %d", f.Filename(), fd.pageNo, i)
		}
	}

	for i := range bp.frames {
		fd := &bp.frames[i]
		if !fd.valid || fd.file.ID() != fileID {
			continue
		}
		if fd.dirty {
			if err := fd.file.WritePage(&bp.pages[i]); err != nil {
				return errors.Wrapf(err, "flush page %d of %s", fd.pageNo, f.Filename())
			}
			fd.dirty = false
		}
		if err := bp.directory.Remove(fileID, fd.pageNo); err != nil {
			return err
		}
		fd.Clear()
	}
	return nil
}

// NewPage allocates a fresh page of storage in f and brings it into
// the pool, pinned once. Returns the new page number and the resident
// copy.
func (bp *BufferPool) NewPage(f File) (util.PageID, *page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pageNo, err := f.AllocatePage()
	if err != nil {
		return 0, nil, errors.Wrapf(err, "allocate page in %s", f.Filename())
	}

	p, err := bp.faultIn(f, pageNo)
	if err != nil {
		return 0, nil, err
	}
	return pageNo, p, nil
}

// DisposePage deletes the page's storage. A resident copy is dropped
// unconditionally, pinned or not: deletion is authoritative, and the
// content is gone so no write-back happens either. The file's
// DeletePage is invoked exactly once.
func (bp *BufferPool) DisposePage(f File, pageNo util.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if id, ok := bp.directory.Lookup(f.ID(), pageNo); ok {
		bp.frames[id].Clear()
		if err := bp.directory.Remove(f.ID(), pageNo); err != nil {
			return err
		}
	}

	if err := f.DeletePage(pageNo); err != nil {
		return errors.Wrapf(err, "dispose page %d of %s", pageNo, f.Filename())
	}
	return nil
}

// DebugDump enumerates every slot's descriptor state. Diagnostics
// only; not part of the correctness contract.
func (bp *BufferPool) DebugDump() string {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	var b strings.Builder
	validFrames := 0
	for i := range bp.frames {
		fmt.Fprintf(&b, "frame %d: %s\n", i, bp.frames[i].String())
		if bp.frames[i].valid {
			validFrames++
		}
	}
	fmt.Fprintf(&b, "valid frames: %d/%d\n", validFrames, len(bp.frames))
	return b.String()
}
