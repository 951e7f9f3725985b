package shared

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		pageSize  int
		total     int64
		wantPage  int
		wantPages int
		wantPrev  bool
		wantNext  bool
	}{
		{"first of many", 1, 5, 12, 1, 3, false, true},
		{"middle page", 2, 5, 12, 2, 3, true, true},
		{"last page", 3, 5, 12, 3, 3, true, false},
		{"out of range clamps to last", 9, 5, 12, 3, 3, true, false},
		{"zero page clamps to first", 0, 5, 12, 1, 3, false, true},
		{"empty set", 1, 5, 0, 1, 1, false, false},
		{"exact multiple", 2, 5, 10, 2, 2, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewPagination(tc.page, tc.pageSize, tc.total)
			if got.Page != tc.wantPage {
				t.Fatalf("page: want %d, got %d", tc.wantPage, got.Page)
			}
			if got.TotalPages != tc.wantPages {
				t.Fatalf("total pages: want %d, got %d", tc.wantPages, got.TotalPages)
			}
			if got.HasPrev != tc.wantPrev || got.HasNext != tc.wantNext {
				t.Fatalf("prev/next: want %v/%v, got %v/%v", tc.wantPrev, tc.wantNext, got.HasPrev, got.HasNext)
			}
		})
	}
}

func TestNormalizePagination(t *testing.T) {
	page, pageSize := NormalizePagination(0, 0)
	if page != 1 || pageSize != 5 {
		t.Fatalf("defaults: want 1/5, got %d/%d", page, pageSize)
	}
	_, pageSize = NormalizePagination(1, 500)
	if pageSize != 100 {
		t.Fatalf("cap: want 100, got %d", pageSize)
	}
}
