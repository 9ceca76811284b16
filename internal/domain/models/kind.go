package models

// URL/API filter parameter names.
const (
	FilterCourse   = "course"
	FilterBranch   = "branch"
	FilterSemester = "semester"
	FilterYear     = "year"
	FilterExamType = "examType"
	FilterIsSolved = "isSolved"
)

// EditMode says how an edit form is submitted to the backend.
type EditMode int

const (
	EditFull EditMode = iota // send every editable field
	EditDiff                 // send only fields that changed
)

// Kind describes one listable resource kind and its backend contract.
type Kind struct {
	Name     string   // URL segment and backend path, e.g. "notes"
	Label    string   // "Notes"
	Singular string   // "note"
	ItemsKey string   // key of the item array inside data
	ItemKey  string   // key of a single item inside data
	Filters  []string // allowed categorical filters
	EditMode EditMode
}

// AllowsFilter reports whether name is one of the kind's filters.
func (k Kind) AllowsFilter(name string) bool {
	for _, f := range k.Filters {
		if f == name {
			return true
		}
	}
	return false
}

var (
	KindNotes = Kind{
		Name: "notes", Label: "Notes", Singular: "note",
		ItemsKey: "notes", ItemKey: "note",
		Filters:  []string{FilterCourse, FilterBranch, FilterSemester},
		EditMode: EditDiff,
	}
	KindPYQs = Kind{
		Name: "pyqs", Label: "PYQs", Singular: "paper",
		ItemsKey: "pyqs", ItemKey: "pyq",
		Filters: []string{FilterCourse, FilterBranch, FilterSemester, FilterYear, FilterExamType, FilterIsSolved},
	}
	KindVideos = Kind{
		Name: "videos", Label: "Videos", Singular: "video",
		ItemsKey: "videos", ItemKey: "video",
		Filters: []string{FilterCourse, FilterBranch, FilterSemester},
	}
	KindOpportunities = Kind{
		Name: "opportunities", Label: "Opportunities", Singular: "opportunity",
		ItemsKey: "opportunities", ItemKey: "opportunity",
	}
	KindStore = Kind{
		Name: "store", Label: "Store", Singular: "item",
		ItemsKey: "storeItems", ItemKey: "storeItem",
	}
	KindSeniors = Kind{
		Name: "seniors", Label: "Seniors", Singular: "senior",
		ItemsKey: "seniors", ItemKey: "senior",
		Filters: []string{FilterCourse, FilterBranch, FilterYear},
	}
)

// Kinds lists every resource kind in navigation order.
var Kinds = []Kind{KindNotes, KindPYQs, KindVideos, KindOpportunities, KindStore, KindSeniors}

// KindByName looks up a kind by its URL segment.
func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}
