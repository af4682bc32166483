package web

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestPagination(t *testing.T) {

	tests := []struct {
		name           string
		inputURL       string
		pageLen        int
		totalRecordsNo int
		currentPage    int
		nextURL        string
		previousURL    string
		err            error
	}{
		{
			name:           "valid next and previous pages",
			inputURL:       "?date-from=2025-04-01&page=2&date-to=2025-04-30",
			pageLen:        5,
			totalRecordsNo: 13,
			currentPage:    2,
			nextURL:        "?date-from=2025-04-01&date-to=2025-04-30&page=3",
			previousURL:    "?date-from=2025-04-01&date-to=2025-04-30&page=1",
		},
		{
			name:           "single page has no next or previous",
			inputURL:       "?date-from=2025-04-01&page=1",
			pageLen:        5,
			totalRecordsNo: 5,
			currentPage:    1,
			nextURL:        "",
			previousURL:    "",
		},
		{
			name:           "page length below one is normalised",
			inputURL:       "?page=1",
			pageLen:        -5,
			totalRecordsNo: 3,
			currentPage:    1,
			nextURL:        "?page=2",
			previousURL:    "",
		},
		{
			name:           "invalid page number",
			inputURL:       "?page=4",
			pageLen:        5,
			totalRecordsNo: 14,
			currentPage:    4,
			err:            ErrInvalidPageNo{PageNo: 4, TotalPages: 3},
		},
		{
			name:           "no records still has one page",
			inputURL:       "",
			pageLen:        15,
			totalRecordsNo: 0,
			currentPage:    1,
			nextURL:        "",
			previousURL:    "",
		},
	}

	for ii, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", ii, tt.name), func(t *testing.T) {

			parsedURL, err := url.Parse(tt.inputURL)
			if err != nil {
				t.Fatalf("could not parse inputURL: %v", err)
			}
			pg, err := NewPagination(tt.pageLen, tt.totalRecordsNo, tt.currentPage, parsedURL.Query())
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected error %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected pagination error: %v", err)
			}
			if got, want := pg.NextURL(), tt.nextURL; got != want {
				t.Errorf("next url got %q want %q", got, want)
			}
			if got, want := pg.PreviousURL(), tt.previousURL; got != want {
				t.Errorf("previous url got %q want %q", got, want)
			}
		})
	}
}
