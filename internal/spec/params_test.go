package spec

import "testing"

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortOrder
	}{
		{"asc", Asc},
		{"ASC", Asc},
		{"desc", Desc},
		{"DeSc", Desc},
		{" desc ", Desc},
		{"", Asc},
		{"down", Asc},
	}
	for _, tt := range tests {
		if got := ParseSortOrder(tt.in); got != tt.want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortOrder_Label(t *testing.T) {
	if got := Asc.Label(); got != "sort.order.asc" {
		t.Errorf("Asc.Label() = %q", got)
	}
	if got := Desc.Label(); got != "sort.order.desc" {
		t.Errorf("Desc.Label() = %q", got)
	}
	if got := SortOrder("desc").Label(); got != "sort.order.desc" {
		t.Errorf("lower-case desc Label() = %q", got)
	}
}

func TestNewParams_Defaults(t *testing.T) {
	p := NewParams()
	if p.PageNumber() != 1 || p.PageSize() != 10 {
		t.Errorf("page=%d size=%d, want 1 and 10", p.PageNumber(), p.PageSize())
	}
	if p.Direction() != Asc {
		t.Errorf("Direction() = %q, want ASC", p.Direction())
	}
	if p.SearchTerm() != "" || p.SortBy() != "" {
		t.Errorf("expected empty search and sort, got %q and %q", p.SearchTerm(), p.SortBy())
	}
}

func TestParams_Normalization(t *testing.T) {
	p := Params{Search: "  John DOE ", Sort: " name ", Order: "desc"}
	if got := p.SearchTerm(); got != "john doe" {
		t.Errorf("SearchTerm() = %q, want %q", got, "john doe")
	}
	if got := p.SortBy(); got != "name" {
		t.Errorf("SortBy() = %q, want %q", got, "name")
	}
	if got := p.Direction(); got != Desc {
		t.Errorf("Direction() = %q, want DESC", got)
	}
}
