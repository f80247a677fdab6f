package page

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	util "github.com/pagedb/pagedb/internal/utils"
)

const (
	HEADER_SIZE = 16 // PageNo(4) + Checksum(4) + Flags(2) + padding(6)

	// DataSize is the payload capacity of one page.
	DataSize = util.PageSize - HEADER_SIZE
)

// Page is the fixed-size block that is read from / written to disk.
// The buffer pool treats Data as opaque bytes.
type Page struct {
	Header PageHeader
	Data   [DataSize]byte
}

type PageHeader struct {
	PageNo   util.PageID // 4 bytes
	Checksum uint32      // 4 bytes, xxhash32 of Data
	Flags    uint16      // 2 bytes, reserved
}

// PageNo returns the page's embedded identity.
func (p *Page) PageNo() util.PageID {
	return p.Header.PageNo
}

// Serialize packs the page into a byte slice for writing. The
// checksum is recomputed over the data payload.
func (p *Page) Serialize() []byte {
	p.Header.Checksum = xxhash.Checksum32(p.Data[:])

	buf := make([]byte, util.PageSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.Header.PageNo))
	binary.LittleEndian.PutUint32(buf[4:8], p.Header.Checksum)
	binary.LittleEndian.PutUint16(buf[8:10], p.Header.Flags)
	copy(buf[HEADER_SIZE:], p.Data[:])

	return buf
}

// Deserialize unpacks from bytes and validates the checksum. A zero
// stored checksum marks a page that was never written through
// Serialize and is not verified.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != util.PageSize {
		return nil, util.ErrInvalidPageSize
	}

	p := &Page{
		Header: PageHeader{
			PageNo:   util.PageID(binary.LittleEndian.Uint32(data[0:4])),
			Checksum: binary.LittleEndian.Uint32(data[4:8]),
			Flags:    binary.LittleEndian.Uint16(data[8:10]),
		},
	}
	copy(p.Data[:], data[HEADER_SIZE:])

	if p.Header.Checksum != 0 && p.Header.Checksum != xxhash.Checksum32(p.Data[:]) {
		return nil, util.ErrChecksumMismatch
	}

	return p, nil
}
