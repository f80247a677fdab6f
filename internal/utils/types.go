package util

// PageID identifies a page within a single data file.
type PageID uint32

// FileID identifies an open data file handle. IDs are process-unique
// and stable for the lifetime of the handle.
type FileID uint32

// FrameID addresses a slot in the buffer pool's frame array.
type FrameID int32

// InvalidFrameID marks the absence of a frame.
const InvalidFrameID FrameID = -1

// PageSize is the standard page size (4KB)
const PageSize = 4096

// Options represents engine configuration options
type Options struct {
	DataDir  string
	PoolSize int
}

// DefaultOptions returns default engine options
func DefaultOptions() Options {
	return Options{
		DataDir:  "data",
		PoolSize: 64,
	}
}
