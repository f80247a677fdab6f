package buffer

import (
	"fmt"

	util "github.com/pagedb/pagedb/internal/utils"
)

// FrameDesc tracks the state of one buffer pool slot. Identity fields
// are meaningful only while valid is set.
type FrameDesc struct {
	file     File
	pageNo   util.PageID
	pinCount int32
	valid    bool
	dirty    bool
	refBit   bool
}

// Clear resets the descriptor to the invalid/unpinned/clean state.
// This is the only way a slot becomes eligible for reuse.
func (fd *FrameDesc) Clear() {
	*fd = FrameDesc{}
}

// Set transitions the slot to valid, pinned once, recently referenced
// and clean. Called when a page is newly brought into the slot.
func (fd *FrameDesc) Set(f File, pageNo util.PageID) {
	fd.file = f
	fd.pageNo = pageNo
	fd.pinCount = 1
	fd.valid = true
	fd.dirty = false
	fd.refBit = true
}

// MarkAccessed sets the reference bit, granting the page one extra
// sweep of protection from the clock.
func (fd *FrameDesc) MarkAccessed() {
	fd.refBit = true
}

func (fd *FrameDesc) PinCount() int32 {
	return fd.pinCount
}

func (fd *FrameDesc) Valid() bool {
	return fd.valid
}

func (fd *FrameDesc) String() string {
	if !fd.valid {
		return "invalid"
	}
	return fmt.Sprintf("file=%s pageNo=%d pinCount=%d dirty=%v refBit=%v",
		fd.file.Filename(), fd.pageNo, fd.pinCount, fd.dirty, fd.refBit)
}
