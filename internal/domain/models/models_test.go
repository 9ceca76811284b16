package models

import "testing"

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{
			name: "middle page",
			in:   Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 30},
			want: Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 30, HasNextPage: true, HasPrevPage: true},
		},
		{
			name: "last page",
			in:   Pagination{CurrentPage: 3, TotalPages: 3, HasNextPage: true},
			want: Pagination{CurrentPage: 3, TotalPages: 3, HasPrevPage: true},
		},
		{
			name: "page past the end is clamped",
			in:   Pagination{CurrentPage: 9, TotalPages: 3},
			want: Pagination{CurrentPage: 3, TotalPages: 3, HasPrevPage: true},
		},
		{
			name: "empty list",
			in:   Pagination{CurrentPage: 0, TotalPages: 0},
			want: Pagination{CurrentPage: 1, TotalPages: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestKindByName(t *testing.T) {
	k, ok := KindByName("pyqs")
	if !ok {
		t.Fatal("expected pyqs to be registered")
	}
	if !k.AllowsFilter(FilterExamType) {
		t.Error("pyqs should allow the examType filter")
	}
	if k.AllowsFilter("price") {
		t.Error("pyqs should not allow an unknown filter")
	}
	if _, ok := KindByName("nope"); ok {
		t.Error("unknown kind should not resolve")
	}
	if KindNotes.EditMode != EditDiff {
		t.Error("notes edit by diff")
	}
}

func TestItemDisplayTitle(t *testing.T) {
	if got := (Item{Name: "Calculator"}).DisplayTitle(); got != "Calculator" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := (Item{Subject: &SubjectRef{Name: "Maths"}}).DisplayTitle(); got != "Maths" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := (Item{}).DisplayTitle(); got != "Untitled" {
		t.Errorf("DisplayTitle() = %q", got)
	}
}
