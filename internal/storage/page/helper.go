package page

import (
	util "github.com/pagedb/pagedb/internal/utils"
)

func CreateTestPage(pageNo util.PageID, data []byte) *Page {
	p := &Page{
		Header: PageHeader{
			PageNo: pageNo,
			Flags:  0,
		},
	}
	if len(data) > len(p.Data) {
		data = data[:len(p.Data)] // Truncate to fit
	}
	copy(p.Data[:], data)
	return p
}
