package web

import (
	"fmt"
	"net/url"
	"strconv"
)

// Pagination drives the previous/next links on the entry listing pages.
// The current query values are carried so that page links preserve the
// date range filters.
type Pagination struct {
	pageLen int
	query   url.Values

	PageNo   int
	Pages    int
	Next     int // 0 means no next page
	Previous int // 0 means no previous page
}

// ErrInvalidPageNo reports a requested page beyond the listing's range.
type ErrInvalidPageNo struct {
	PageNo     int
	TotalPages int
}

func (e ErrInvalidPageNo) Error() string {
	return fmt.Sprintf("invalid page number: %d (total pages: %d)", e.PageNo, e.TotalPages)
}

// NewPagination calculates the page window for pageLen items per page
// over totalRecords records, normalising currentPage to at least 1. The
// query values are used to build the "Next" and "Previous" page URLs.
func NewPagination(pageLen, totalRecords, currentPage int, query url.Values) (*Pagination, error) {

	if pageLen < 1 {
		pageLen = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}

	totalPages := 1
	if totalRecords > 0 {
		totalPages = (totalRecords + pageLen - 1) / pageLen
	}
	if currentPage > totalPages {
		return nil, ErrInvalidPageNo{PageNo: currentPage, TotalPages: totalPages}
	}

	pg := &Pagination{
		pageLen: pageLen,
		query:   query,
		PageNo:  currentPage,
		Pages:   totalPages,
	}
	if pg.PageNo > 1 {
		pg.Previous = pg.PageNo - 1
	}
	if pg.PageNo < pg.Pages {
		pg.Next = pg.PageNo + 1
	}
	return pg, nil
}

// pageURL generates a URL query string for a specific page, preserving
// the other query values.
func (p *Pagination) pageURL(page int) string {
	q := make(url.Values, len(p.query))
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// NextURL returns the URL for the next page, or "" on the last page.
func (p *Pagination) NextURL() string {
	if p.Next == 0 {
		return ""
	}
	return p.pageURL(p.Next)
}

// PreviousURL returns the URL for the previous page, or "" on the first.
func (p *Pagination) PreviousURL() string {
	if p.Previous == 0 {
		return ""
	}
	return p.pageURL(p.Previous)
}
