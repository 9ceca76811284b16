package models

// ChatOption is one clickable choice offered by the chatbot.
type ChatOption struct {
	ID    string `bson:"id" json:"_id"`
	Label string `bson:"label" json:"name"`
}

// ChatResource is a link returned at the end of the chatbot flow.
type ChatResource struct {
	ID    string `bson:"id" json:"_id"`
	Title string `bson:"title" json:"title"`
	Slug  string `bson:"slug,omitempty" json:"slug,omitempty"`
	URL   string `bson:"url,omitempty" json:"url,omitempty"`
}

// ChatPreference is the chatbot's saved path through the decision tree.
type ChatPreference struct {
	CollegeID   string `bson:"college_id,omitempty" json:"collegeId,omitempty"`
	CollegeName string `bson:"college_name,omitempty" json:"collegeName,omitempty"`
	CourseID    string `bson:"course_id,omitempty" json:"courseId,omitempty"`
	CourseName  string `bson:"course_name,omitempty" json:"courseName,omitempty"`
	BranchID    string `bson:"branch_id,omitempty" json:"branchId,omitempty"`
	BranchName  string `bson:"branch_name,omitempty" json:"branchName,omitempty"`
	Semester    string `bson:"semester,omitempty" json:"semester,omitempty"`
	SubjectID   string `bson:"subject_id,omitempty" json:"subjectId,omitempty"`
	SubjectName string `bson:"subject_name,omitempty" json:"subjectName,omitempty"`
}

// IsZero reports whether no step has been saved.
func (p ChatPreference) IsZero() bool { return p.CollegeID == "" }

// Chat message authors.
const (
	ChatFromBot  = "bot"
	ChatFromUser = "user"
)

// ChatMessage is one bubble in the conversation.
type ChatMessage struct {
	From      string         `bson:"from"`
	Text      string         `bson:"text"`
	Resources []ChatResource `bson:"resources,omitempty"`
}

// ChatState is the persisted position of a visitor in the chatbot flow.
type ChatState struct {
	Step         int            `bson:"step"`
	Options      []ChatOption   `bson:"options,omitempty"`
	Messages     []ChatMessage  `bson:"messages,omitempty"`
	Pref         ChatPreference `bson:"pref"`
	ResourceType string         `bson:"resource_type,omitempty"`
}
