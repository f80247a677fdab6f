package buffer

import (
	"github.com/pagedb/pagedb/internal/storage/page"
	util "github.com/pagedb/pagedb/internal/utils"
)

// File is the collaborator owning page storage. *file.DataFile
// satisfies it; tests substitute in-memory doubles.
type File interface {
	ID() util.FileID
	Filename() string
	ReadPage(pageNo util.PageID) (*page.Page, error)
	WritePage(p *page.Page) error
	AllocatePage() (util.PageID, error)
	DeletePage(pageNo util.PageID) error
}

// Replacer defines the contract for page replacement policies.
type Replacer interface {
	// Victim returns a frame usable for a new page, evicting a
	// resident page if no slot is free. Returns ErrBufferExceeded
	// when every frame is pinned.
	Victim() (util.FrameID, error)
}
