package models

import "time"

// Submission statuses set by backend moderation.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// MinPaidPrice is the lowest price (in points) a paid note or paper may ask.
const MinPaidPrice = 25

type Owner struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type SubjectRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name,omitempty"`
	Code string `json:"subjectCode,omitempty"`
}

// Item is the view model for every listable resource (note, paper, video,
// opportunity, store item, senior). Fields a kind does not use stay zero.
type Item struct {
	ID        string    `json:"_id"`
	Slug      string    `json:"slug,omitempty"`
	Owner     Owner     `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`

	SubmissionStatus string `json:"submissionStatus,omitempty"` // pending | approved | rejected
	RejectionReason  string `json:"rejectionReason,omitempty"`

	Title       string      `json:"title,omitempty"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Subject     *SubjectRef `json:"subject,omitempty"`
	Course      string      `json:"course,omitempty"`
	Branch      string      `json:"branch,omitempty"`
	Semester    int         `json:"semester,omitempty"`

	// Notes / PYQs
	FileURL  string `json:"fileUrl,omitempty"`
	Year     string `json:"year,omitempty"`
	ExamType string `json:"examType,omitempty"`
	IsSolved bool   `json:"isSolved,omitempty"`
	IsPaid   bool   `json:"isPaid,omitempty"`
	Price    int    `json:"price,omitempty"`

	// Videos / opportunities
	VideoURL string     `json:"videoUrl,omitempty"`
	Link     string     `json:"link,omitempty"`
	Category string     `json:"category,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`

	// Store
	Image    string `json:"image,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Sold     bool   `json:"isSold,omitempty"`

	// Seniors
	ProfilePicture string `json:"profilePicture,omitempty"`
	Domain         string `json:"domain,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
}

// DisplayTitle returns Title, falling back to Name and then the subject name.
func (it Item) DisplayTitle() string {
	switch {
	case it.Title != "":
		return it.Title
	case it.Name != "":
		return it.Name
	case it.Subject != nil:
		return it.Subject.Name
	}
	return "Untitled"
}

// IsRejected reports whether moderation rejected the item.
func (it Item) IsRejected() bool { return it.SubmissionStatus == SubmissionRejected }
