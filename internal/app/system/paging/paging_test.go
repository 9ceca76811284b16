package paging

import (
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"

	"github.com/dalemusser/campushub/internal/domain/models"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/wallet", 1},
		{"/wallet?page=3", 3},
		{"/wallet?page=0", 1},
		{"/wallet?page=-4", 1},
		{"/wallet?page=abc", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParsePage(r); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}

	r := httptest.NewRequest("GET", "/wallet?txPage=2&page=5", nil)
	if got := ParsePage(r, "txPage"); got != 2 {
		t.Errorf("ParsePage(txPage) = %d, want 2", got)
	}
}

func TestSlice(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		page      int
		wantFirst int
		wantLen   int
		wantPage  int
		next      bool
		prev      bool
	}{
		{"first", 1, 1, 10, 1, true, false},
		{"middle", 2, 11, 10, 2, true, true},
		{"last partial", 3, 21, 3, 3, false, true},
		{"past end clamps", 9, 21, 3, 3, false, true},
		{"zero clamps", 0, 1, 10, 1, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, p := Slice(items, tt.page, TableSize)
			if len(got) != tt.wantLen || got[0] != tt.wantFirst {
				t.Errorf("rows = %v", got)
			}
			if p.CurrentPage != tt.wantPage || p.TotalPages != 3 || p.TotalItems != 23 {
				t.Errorf("pagination = %+v", p)
			}
			if p.HasNextPage != tt.next || p.HasPrevPage != tt.prev {
				t.Errorf("next/prev = %v/%v, want %v/%v", p.HasNextPage, p.HasPrevPage, tt.next, tt.prev)
			}
		})
	}

	got, p := Slice([]string{}, 1, TableSize)
	if len(got) != 0 || p.CurrentPage != 1 || p.HasNextPage {
		t.Errorf("empty: %v %+v", got, p)
	}
}

func TestComputeRange(t *testing.T) {
	p := models.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 23}
	if got := ComputeRange(p, 10, 3); got != (Range{Start: 21, End: 23, Total: 23}) {
		t.Errorf("ComputeRange = %+v", got)
	}
	if got := ComputeRange(models.Pagination{}, 10, 0); got != (Range{}) {
		t.Errorf("empty = %+v", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cur, total, span int
		want             []int
	}{
		{1, 3, 5, []int{1, 2, 3}},
		{1, 10, 5, []int{1, 2, 3, 4, 5}},
		{6, 10, 5, []int{4, 5, 6, 7, 8}},
		{10, 10, 5, []int{6, 7, 8, 9, 10}},
		{1, 0, 5, nil},
	}
	for _, tt := range tests {
		got := Window(models.Pagination{CurrentPage: tt.cur, TotalPages: tt.total}, tt.span)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d/%d, %d) = %v, want %v", tt.cur, tt.total, tt.span, got, tt.want)
		}
	}
}

func TestNewPager(t *testing.T) {
	href := func(n int) string { return "/notes?page=" + strconv.Itoa(n) }
	p := NewPager(models.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 30}, 12, 12, href)

	if len(p.Pages) != 3 || !p.Pages[1].Current || p.Pages[0].Current {
		t.Fatalf("pages = %+v", p.Pages)
	}
	if p.PrevHref != "/notes?page=1" || p.NextHref != "/notes?page=3" {
		t.Errorf("prev/next = %q / %q", p.PrevHref, p.NextHref)
	}
	if p.Range.Start != 13 || p.Range.End != 24 || p.Range.Total != 30 {
		t.Errorf("range = %+v", p.Range)
	}

	empty := NewPager(models.Pagination{}, 12, 0, href)
	if empty.HasPrev || empty.HasNext || empty.PrevHref != "" || len(empty.Pages) != 0 {
		t.Errorf("empty pager = %+v", empty)
	}
}
