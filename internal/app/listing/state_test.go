package listing

import (
	"net/url"
	"testing"

	"github.com/dalemusser/campushub/internal/domain/models"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.Kind
		query  string
		search string
		page   int
		filter map[string]string
	}{
		{"empty", models.KindNotes, "", "", 1, map[string]string{}},
		{"page and filters", models.KindNotes, "course=BTECH&branch=CSE&page=3", "", 3, map[string]string{"course": "BTECH", "branch": "CSE"}},
		{"invalid page", models.KindNotes, "page=abc", "", 1, map[string]string{}},
		{"negative page", models.KindNotes, "page=-2", "", 1, map[string]string{}},
		{"unknown filter dropped", models.KindStore, "course=BTECH&search=calc", "calc", 1, map[string]string{}},
		{"blank filter dropped", models.KindPYQs, "year=&examType=endsem", "", 1, map[string]string{"examType": "endsem"}},
		{"search trimmed", models.KindVideos, "search=++dbms++", "dbms", 1, map[string]string{}},
		{"branch kept under its course", models.KindNotes, "course=BTECH&branch=CSE&branchCourse=BTECH", "", 1, map[string]string{"course": "BTECH", "branch": "CSE"}},
		{"branch dropped when course changed", models.KindNotes, "course=MCA&branch=CSE&branchCourse=BTECH", "", 1, map[string]string{"course": "MCA"}},
		{"branch dropped when course cleared", models.KindNotes, "branch=CSE&branchCourse=BTECH", "", 1, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			s := ParseState(tt.kind, q)
			want := State{Search: tt.search, Page: tt.page, Filters: tt.filter}
			if !s.Equal(want) {
				t.Errorf("ParseState(%q) = %+v, want %+v", tt.query, s, want)
			}
		})
	}
}

func TestWithFilter_CourseChangeClearsBranch(t *testing.T) {
	s := State{Filters: map[string]string{"course": "BTECH", "branch": "CSE", "semester": "3"}, Page: 2}

	if got := s.WithFilter("course", "MCA"); got.Filter("branch") != "" || got.Filter("semester") != "3" {
		t.Errorf("new course kept %+v", got.Filters)
	}
	if got := s.WithFilter("course", ""); got.Filter("branch") != "" {
		t.Errorf("cleared course kept branch %q", got.Filter("branch"))
	}
	if got := s.WithFilter("course", "BTECH"); got.Filter("branch") != "CSE" {
		t.Errorf("same course dropped branch: %+v", got.Filters)
	}
	if got := s.WithFilter("semester", "5"); got.Filter("branch") != "CSE" {
		t.Errorf("semester change dropped branch: %+v", got.Filters)
	}
}

func TestCourseChanged(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"course=BTECH&branch=CSE", false},
		{"course=BTECH&branchCourse=BTECH", false},
		{"course=MCA&branchCourse=BTECH", true},
		{"course=MCA&branchCourse=", true},
		{"branchCourse=", false},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := CourseChanged(q); got != tt.want {
			t.Errorf("CourseChanged(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	states := []State{
		{Page: 1},
		{Search: "dbms notes", Page: 2},
		{Filters: map[string]string{"course": "BTECH", "semester": "3"}, Page: 4},
		{Search: "os", Filters: map[string]string{"isSolved": "true", "year": "2023"}, Page: 1},
	}
	for _, s := range states {
		q, err := url.ParseQuery(s.Query())
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", s.Query(), err)
		}
		got := ParseState(models.KindPYQs, q)
		if !got.Equal(s) {
			t.Errorf("round trip of %+v gave %+v (query %q)", s, got, s.Query())
		}
	}
}

func TestQueryIsCanonical(t *testing.T) {
	s := State{Search: "x", Filters: map[string]string{"semester": "3", "course": "BTECH", "branch": ""}, Page: 1}
	if got, want := s.Query(), "course=BTECH&search=x&semester=3"; got != want {
		t.Errorf("Query() = %q, want %q", got, want)
	}
	if got := (State{Page: 2}).URL("/notes"); got != "/notes?page=2" {
		t.Errorf("URL() = %q, want /notes?page=2", got)
	}
	if got := (State{Page: 1}).URL("/notes"); got != "/notes" {
		t.Errorf("URL() = %q, want /notes", got)
	}
}

func TestChangesResetPage(t *testing.T) {
	s := State{Filters: map[string]string{"course": "BTECH"}, Page: 5}

	if got := s.WithFilter("branch", "CSE"); got.Page != 1 || got.Filter("branch") != "CSE" {
		t.Errorf("WithFilter: page=%d branch=%q, want page 1 branch CSE", got.Page, got.Filter("branch"))
	}
	if got := s.WithSearch("graphs"); got.Page != 1 || got.Search != "graphs" {
		t.Errorf("WithSearch: page=%d search=%q", got.Page, got.Search)
	}
	if got := s.WithFilter("course", ""); got.Filter("course") != "" || got.Page != 1 {
		t.Errorf("clearing filter: %+v", got)
	}
	if got := s.WithPage(7); got.Page != 7 || got.Filter("course") != "BTECH" {
		t.Errorf("WithPage kept %+v", got)
	}
	if s.Page != 5 || s.Filter("branch") != "" {
		t.Errorf("receiver mutated: %+v", s)
	}

	api := s.WithFilter("branch", "CSE").APIQuery(DefaultLimit)
	if api.Get("page") != "1" {
		t.Errorf("APIQuery page = %q, want 1", api.Get("page"))
	}
}

func TestAPIQuery(t *testing.T) {
	s := State{Search: "calc", Filters: map[string]string{"course": "BTECH"}, Page: 2}
	got := s.APIQuery(0).Encode()
	if want := "course=BTECH&limit=12&page=2&search=calc"; got != want {
		t.Errorf("APIQuery = %q, want %q", got, want)
	}
}
