package api

import "testing"

func TestNewPaginationCeilsTotalPages(t *testing.T) {
	cases := []struct {
		page, limit, total int
		wantPages          int
	}{
		{1, 12, 0, 0},
		{1, 12, 1, 1},
		{1, 12, 12, 1},
		{1, 12, 13, 2},
		{2, 6, 13, 3},
		{1, 0, 10, 0},
	}

	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.TotalPages != tc.wantPages {
			t.Fatalf("page=%d limit=%d total=%d: expected %d pages, got %d",
				tc.page, tc.limit, tc.total, tc.wantPages, p.TotalPages)
		}
		if p.Page != tc.page || p.Limit != tc.limit || p.Total != tc.total {
			t.Fatalf("pagination fields not carried through: %+v", p)
		}
	}
}
