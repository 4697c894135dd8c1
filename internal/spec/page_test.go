package spec

import (
	"encoding/json"
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		items     []int
		total     int64
		p         Pagination
		wantPages int
		wantFirst bool
		wantLast  bool
		wantEmpty bool
	}{
		{"middle page", []int{6, 7, 8, 9, 10}, 12, Pagination{Page: 2, Size: 5}, 3, false, false, false},
		{"last partial page", []int{11, 12}, 12, Pagination{Page: 3, Size: 5}, 3, false, true, false},
		{"single page", []int{1, 2}, 2, Pagination{Page: 1, Size: 10}, 1, true, true, false},
		{"no matches", nil, 0, Pagination{Page: 1, Size: 10}, 0, true, true, true},
		{"past the end", nil, 3, Pagination{Page: 5, Size: 10}, 1, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.items, tt.total, tt.p)
			if page.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tt.wantPages)
			}
			if page.First != tt.wantFirst || page.Last != tt.wantLast || page.Empty != tt.wantEmpty {
				t.Errorf("first/last/empty = %v/%v/%v, want %v/%v/%v",
					page.First, page.Last, page.Empty, tt.wantFirst, tt.wantLast, tt.wantEmpty)
			}
			if page.Content == nil {
				t.Error("Content must not be nil")
			}
			if page.TotalElements != tt.total {
				t.Errorf("TotalElements = %d, want %d", page.TotalElements, tt.total)
			}
		})
	}
}

func TestNewPage_UsesNormalizedPagination(t *testing.T) {
	page := NewPage([]string{"a"}, 1, Pagination{Page: 0, Size: 500})
	if page.Page != 1 || page.Size != 100 {
		t.Errorf("page=%d size=%d, want 1 and 100", page.Page, page.Size)
	}
}

func TestPage_JSON(t *testing.T) {
	raw, err := json.Marshal(EmptyPage[int](NewPagination()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"content":[],"page":1,"size":10,"totalElements":0,"totalPages":0,"first":true,"last":true,"empty":true}`
	if string(raw) != want {
		t.Errorf("json = %s\nwant %s", raw, want)
	}
}
