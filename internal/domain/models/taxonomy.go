package models

type Course struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"courseCode"`
}

type Branch struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Code       string `json:"branchCode"`
	CourseCode string `json:"courseCode,omitempty"`
}

type Subject struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Code       string `json:"subjectCode"`
	BranchCode string `json:"branchCode,omitempty"`
	Semester   int    `json:"semester,omitempty"`
}

// ResourcePreference is the course/branch pair a visitor last picked in a
// resource form. Forms pre-select it once per open.
type ResourcePreference struct {
	Course string `bson:"course" json:"course"`
	Branch string `bson:"branch" json:"branch"`
}

// IsZero reports whether nothing has been saved.
func (p ResourcePreference) IsZero() bool { return p.Course == "" && p.Branch == "" }
