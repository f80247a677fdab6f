package buffer

import (
	"github.com/pkg/errors"

	util "github.com/pagedb/pagedb/internal/utils"
)

type dirEntry struct {
	key   uint64
	frame util.FrameID
	next  *dirEntry
}

// PageDirectory maps (file, page number) to the frame the page is
// resident in. A bucketed hash table sized ~1.2x the pool capacity;
// it holds at most one entry per frame so it never needs to grow.
type PageDirectory struct {
	buckets []*dirEntry
	count   int
}

func NewPageDirectory(capacity int) *PageDirectory {
	return &PageDirectory{
		buckets: make([]*dirEntry, capacity*6/5+1),
	}
}

func dirKey(fileID util.FileID, pageNo util.PageID) uint64 {
	return uint64(fileID)<<32 | uint64(pageNo)
}

// Insert records that the page is resident in frame. Inserting a key
// that is already present violates the residency bijection.
func (d *PageDirectory) Insert(fileID util.FileID, pageNo util.PageID, frame util.FrameID) error {
	key := dirKey(fileID, pageNo)
	idx := key % uint64(len(d.buckets))

	for e := d.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return errors.Wrapf(util.ErrDirectoryDuplicate, "insert file %d page %d", fileID, pageNo)
		}
	}

	d.buckets[idx] = &dirEntry{key: key, frame: frame, next: d.buckets[idx]}
	d.count++
	return nil
}

// Lookup reports the frame the page is resident in. Absence is a
// normal miss signal, not an error.
func (d *PageDirectory) Lookup(fileID util.FileID, pageNo util.PageID) (util.FrameID, bool) {
	key := dirKey(fileID, pageNo)
	idx := key % uint64(len(d.buckets))

	for e := d.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return e.frame, true
		}
	}
	return util.InvalidFrameID, false
}

// Remove drops the page's entry. Removing an absent key violates the
// residency bijection.
func (d *PageDirectory) Remove(fileID util.FileID, pageNo util.PageID) error {
	key := dirKey(fileID, pageNo)
	idx := key % uint64(len(d.buckets))

	for pe := &d.buckets[idx]; *pe != nil; pe = &(*pe).next {
		if (*pe).key == key {
			*pe = (*pe).next
			d.count--
			return nil
		}
	}
	return errors.Wrapf(util.ErrDirectoryMissing, "remove file %d page %d", fileID, pageNo)
}

// Len returns the number of resident pages.
func (d *PageDirectory) Len() int {
	return d.count
}
