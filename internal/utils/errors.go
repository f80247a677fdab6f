package util

import "errors"

var (
	ErrInvalidPoolSize    = errors.New("invalid pool size")
	ErrBufferExceeded     = errors.New("buffer pool exceeded: all frames pinned")
	ErrPageNotPinned      = errors.New("page is not pinned")
	ErrPagePinned         = errors.New("page is still pinned")
	ErrDirectoryDuplicate = errors.New("page directory entry already exists")
	ErrDirectoryMissing   = errors.New("page directory entry not found")
	ErrPageOutOfBounds    = errors.New("page out of bounds")
	ErrPageDeleted        = errors.New("page is deleted")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
)
