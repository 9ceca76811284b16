// internal/app/features/catalog/forms.go
package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/upload"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// form is the user-editable part of one kind's record. fields never
// includes moderation state, owner, slug or timestamps.
type form interface {
	decode(v url.Values)
	check() inputval.Result
	fields() map[string]any
}

// fileField describes a kind's uploaded file.
type fileField struct {
	Label            string // form label
	Rule             upload.Rule
	Folder           string // object key folder
	Target           string // wire field that receives the public URL
	RequiredOnCreate bool
}

// kindSpec binds a kind to its form.
type kindSpec struct {
	newForm  func() form
	fromItem func(models.Item) form
	file     *fileField
	taxonomy bool // course and branch selects
	subjects bool // semester and subject selects below the branch
}

var specs = map[string]kindSpec{
	models.KindNotes.Name: {
		newForm:  func() form { return &notesForm{} },
		fromItem: func(it models.Item) form { return notesFromItem(it) },
		file:     &fileField{Label: "PDF", Rule: upload.PDFRule, Folder: "notes", Target: "fileUrl", RequiredOnCreate: true},
		taxonomy: true,
		subjects: true,
	},
	models.KindPYQs.Name: {
		newForm:  func() form { return &pyqsForm{} },
		fromItem: func(it models.Item) form { return pyqsFromItem(it) },
		file:     &fileField{Label: "Question paper (PDF)", Rule: upload.PDFRule, Folder: "pyqs", Target: "fileUrl", RequiredOnCreate: true},
		taxonomy: true,
		subjects: true,
	},
	models.KindVideos.Name: {
		newForm:  func() form { return &videosForm{} },
		fromItem: func(it models.Item) form { return videosFromItem(it) },
		taxonomy: true,
		subjects: true,
	},
	models.KindOpportunities.Name: {
		newForm:  func() form { return &opportunitiesForm{} },
		fromItem: func(it models.Item) form { return opportunitiesFromItem(it) },
	},
	models.KindStore.Name: {
		newForm:  func() form { return &storeForm{} },
		fromItem: func(it models.Item) form { return storeFromItem(it) },
		file:     &fileField{Label: "Photo", Rule: upload.ImageRule, Folder: "store", Target: "image", RequiredOnCreate: true},
	},
	models.KindSeniors.Name: {
		newForm:  func() form { return &seniorsForm{} },
		fromItem: func(it models.Item) form { return seniorsFromItem(it) },
		file:     &fileField{Label: "Photo", Rule: upload.ImageRule, Folder: "seniors", Target: "profilePicture"},
		taxonomy: true,
	},
}

// ExamTypes are the exam types a paper can be filed under.
var ExamTypes = []Option{
	{Value: "midsem", Label: "Mid semester"},
	{Value: "endsem", Label: "End semester"},
	{Value: "quiz", Label: "Class test"},
}

// Option is a value/label pair for selects.
type Option struct {
	Value string
	Label string
}

func text(v url.Values, name string) string { return strings.TrimSpace(v.Get(name)) }

func number(v url.Values, name string) int {
	n, _ := strconv.Atoi(text(v, name))
	return n
}

func checked(v url.Values, name string) bool {
	switch strings.ToLower(text(v, name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func subjectID(it models.Item) string {
	if it.Subject == nil {
		return ""
	}
	return it.Subject.ID
}

// checkPaid applies the minimum price to paid resources.
func checkPaid(res *inputval.Result, isPaid bool, price int) {
	if isPaid && price < models.MinPaidPrice {
		res.Add("price", "Paid resources must cost at least "+strconv.Itoa(models.MinPaidPrice)+" points.")
	}
}

/* notes */

type notesForm struct {
	Title       string `validate:"required,max=150" label:"Title"`
	Description string `validate:"max=2000" label:"Description"`
	Course      string `validate:"required" label:"Course"`
	Branch      string `validate:"required" label:"Branch"`
	Semester    int    `validate:"required,min=1,max=8" label:"Semester"`
	Subject     string `validate:"required" label:"Subject"`
	IsPaid      bool
	Price       int `validate:"gte=0" label:"Price"`
}

func notesFromItem(it models.Item) *notesForm {
	return &notesForm{
		Title: it.Title, Description: it.Description,
		Course: it.Course, Branch: it.Branch, Semester: it.Semester, Subject: subjectID(it),
		IsPaid: it.IsPaid, Price: it.Price,
	}
}

func (f *notesForm) decode(v url.Values) {
	f.Title = text(v, "title")
	f.Description = text(v, "description")
	f.Course = text(v, "course")
	f.Branch = text(v, "branch")
	f.Semester = number(v, "semester")
	f.Subject = text(v, "subject")
	f.IsPaid = checked(v, "isPaid")
	f.Price = number(v, "price")
}

func (f *notesForm) check() inputval.Result {
	res := inputval.Validate(f)
	checkPaid(&res, f.IsPaid, f.Price)
	return res
}

func (f *notesForm) fields() map[string]any {
	price := 0
	if f.IsPaid {
		price = f.Price
	}
	return map[string]any{
		"title": f.Title, "description": f.Description,
		"course": f.Course, "branch": f.Branch, "semester": f.Semester, "subject": f.Subject,
		"isPaid": f.IsPaid, "price": price,
	}
}

/* pyqs */

type pyqsForm struct {
	Title    string `validate:"max=150" label:"Title"`
	Course   string `validate:"required" label:"Course"`
	Branch   string `validate:"required" label:"Branch"`
	Semester int    `validate:"required,min=1,max=8" label:"Semester"`
	Subject  string `validate:"required" label:"Subject"`
	Year     string `validate:"required,len=4,numeric" label:"Year"`
	ExamType string `validate:"required,oneof=midsem endsem quiz" label:"Exam type"`
	IsSolved bool
	IsPaid   bool
	Price    int `validate:"gte=0" label:"Price"`
}

func pyqsFromItem(it models.Item) *pyqsForm {
	return &pyqsForm{
		Title:  it.Title,
		Course: it.Course, Branch: it.Branch, Semester: it.Semester, Subject: subjectID(it),
		Year: it.Year, ExamType: it.ExamType, IsSolved: it.IsSolved,
		IsPaid: it.IsPaid, Price: it.Price,
	}
}

func (f *pyqsForm) decode(v url.Values) {
	f.Title = text(v, "title")
	f.Course = text(v, "course")
	f.Branch = text(v, "branch")
	f.Semester = number(v, "semester")
	f.Subject = text(v, "subject")
	f.Year = text(v, "year")
	f.ExamType = text(v, "examType")
	f.IsSolved = checked(v, "isSolved")
	f.IsPaid = checked(v, "isPaid")
	f.Price = number(v, "price")
}

func (f *pyqsForm) check() inputval.Result {
	res := inputval.Validate(f)
	checkPaid(&res, f.IsPaid, f.Price)
	return res
}

func (f *pyqsForm) fields() map[string]any {
	price := 0
	if f.IsPaid {
		price = f.Price
	}
	return map[string]any{
		"title":  f.Title,
		"course": f.Course, "branch": f.Branch, "semester": f.Semester, "subject": f.Subject,
		"year": f.Year, "examType": f.ExamType, "isSolved": f.IsSolved,
		"isPaid": f.IsPaid, "price": price,
	}
}

/* videos */

type videosForm struct {
	Title       string `validate:"required,max=150" label:"Title"`
	Description string `validate:"max=2000" label:"Description"`
	VideoURL    string `validate:"required,httpurl" label:"Video link"`
	Course      string `validate:"required" label:"Course"`
	Branch      string `validate:"required" label:"Branch"`
	Semester    int    `validate:"required,min=1,max=8" label:"Semester"`
	Subject     string `validate:"required" label:"Subject"`
}

func videosFromItem(it models.Item) *videosForm {
	return &videosForm{
		Title: it.Title, Description: it.Description, VideoURL: it.VideoURL,
		Course: it.Course, Branch: it.Branch, Semester: it.Semester, Subject: subjectID(it),
	}
}

func (f *videosForm) decode(v url.Values) {
	f.Title = text(v, "title")
	f.Description = text(v, "description")
	f.VideoURL = text(v, "videoUrl")
	f.Course = text(v, "course")
	f.Branch = text(v, "branch")
	f.Semester = number(v, "semester")
	f.Subject = text(v, "subject")
}

func (f *videosForm) check() inputval.Result { return inputval.Validate(f) }

func (f *videosForm) fields() map[string]any {
	return map[string]any{
		"title": f.Title, "description": f.Description, "videoUrl": f.VideoURL,
		"course": f.Course, "branch": f.Branch, "semester": f.Semester, "subject": f.Subject,
	}
}

/* opportunities */

type opportunitiesForm struct {
	Title       string `validate:"required,max=150" label:"Title"`
	Description string `validate:"required,max=4000" label:"Description"`
	Category    string `validate:"max=60" label:"Category"`
	Link        string `validate:"required,httpurl" label:"Link"`
	Deadline    string `validate:"omitempty,datetime=2006-01-02" label:"Deadline"`
}

func opportunitiesFromItem(it models.Item) *opportunitiesForm {
	f := &opportunitiesForm{Title: it.Title, Description: it.Description, Category: it.Category, Link: it.Link}
	if it.Deadline != nil {
		f.Deadline = it.Deadline.Format(time.DateOnly)
	}
	return f
}

func (f *opportunitiesForm) decode(v url.Values) {
	f.Title = text(v, "title")
	f.Description = text(v, "description")
	f.Category = text(v, "category")
	f.Link = text(v, "link")
	f.Deadline = text(v, "deadline")
}

func (f *opportunitiesForm) check() inputval.Result { return inputval.Validate(f) }

func (f *opportunitiesForm) fields() map[string]any {
	m := map[string]any{
		"title": f.Title, "description": f.Description, "category": f.Category, "link": f.Link,
	}
	if f.Deadline != "" {
		m["deadline"] = f.Deadline
	}
	return m
}

/* store */

type storeForm struct {
	Name        string `validate:"required,max=120" label:"Name"`
	Description string `validate:"max=2000" label:"Description"`
	Price       int    `validate:"gte=0,lte=1000000" label:"Price"`
	WhatsApp    string `validate:"required,numeric,min=10,max=15" label:"WhatsApp number"`
	Sold        bool
}

func storeFromItem(it models.Item) *storeForm {
	return &storeForm{Name: it.Name, Description: it.Description, Price: it.Price, WhatsApp: it.WhatsApp, Sold: it.Sold}
}

func (f *storeForm) decode(v url.Values) {
	f.Name = text(v, "name")
	f.Description = text(v, "description")
	f.Price = number(v, "price")
	f.WhatsApp = strings.TrimPrefix(text(v, "whatsapp"), "+")
	f.Sold = checked(v, "isSold")
}

func (f *storeForm) check() inputval.Result { return inputval.Validate(f) }

func (f *storeForm) fields() map[string]any {
	return map[string]any{
		"name": f.Name, "description": f.Description, "price": f.Price,
		"whatsapp": f.WhatsApp, "isSold": f.Sold,
	}
}

/* seniors */

type seniorsForm struct {
	Name     string `validate:"required,max=120" label:"Name"`
	Domain   string `validate:"required,max=80" label:"Domain"`
	Course   string `validate:"required" label:"Course"`
	Branch   string `validate:"required" label:"Branch"`
	Year     string `validate:"omitempty,len=4,numeric" label:"Graduation year"`
	LinkedIn string `validate:"omitempty,httpurl" label:"LinkedIn"`
	WhatsApp string `validate:"omitempty,numeric,min=10,max=15" label:"WhatsApp number"`
}

func seniorsFromItem(it models.Item) *seniorsForm {
	return &seniorsForm{
		Name: it.Name, Domain: it.Domain, Course: it.Course, Branch: it.Branch,
		Year: it.Year, LinkedIn: it.LinkedIn, WhatsApp: it.WhatsApp,
	}
}

func (f *seniorsForm) decode(v url.Values) {
	f.Name = text(v, "name")
	f.Domain = text(v, "domain")
	f.Course = text(v, "course")
	f.Branch = text(v, "branch")
	f.Year = text(v, "year")
	f.LinkedIn = text(v, "linkedin")
	f.WhatsApp = strings.TrimPrefix(text(v, "whatsapp"), "+")
}

func (f *seniorsForm) check() inputval.Result { return inputval.Validate(f) }

func (f *seniorsForm) fields() map[string]any {
	return map[string]any{
		"name": f.Name, "domain": f.Domain, "course": f.Course, "branch": f.Branch,
		"year": f.Year, "linkedin": f.LinkedIn, "whatsapp": f.WhatsApp,
	}
}

// selection returns the taxonomy selection carried by f.
func selection(f form) (course, branch string, semester int, subject string) {
	switch t := f.(type) {
	case *notesForm:
		return t.Course, t.Branch, t.Semester, t.Subject
	case *pyqsForm:
		return t.Course, t.Branch, t.Semester, t.Subject
	case *videosForm:
		return t.Course, t.Branch, t.Semester, t.Subject
	case *seniorsForm:
		return t.Course, t.Branch, 0, ""
	}
	return "", "", 0, ""
}
