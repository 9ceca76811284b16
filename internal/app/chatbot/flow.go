// Package chatbot walks a visitor through College → Course → Branch →
// Semester → Subject → resource type and shows the matching resources.
package chatbot

import (
	"errors"
	"fmt"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// ErrUnknownOption is returned when a choice is not among the options the
// current step offered.
var ErrUnknownOption = errors.New("chatbot: option not offered at this step")

// Step is a position in the decision tree.
type Step int

const (
	StepCollege Step = iota
	StepCourse
	StepBranch
	StepSemester
	StepSubject
	StepResourceType
	StepDone
)

var stepNames = [...]string{"college", "course", "branch", "semester", "subject", "resource_type", "done"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Prompt is the bot's question for the step.
func (s Step) Prompt() string {
	switch s {
	case StepCollege:
		return "Which college are you from?"
	case StepCourse:
		return "Pick your course."
	case StepBranch:
		return "Which branch?"
	case StepSemester:
		return "Which semester?"
	case StepSubject:
		return "Choose a subject."
	case StepResourceType, StepDone:
		return "What are you looking for?"
	}
	return ""
}

// ResourceTypes are the fixed choices at the last step.
var ResourceTypes = []models.ChatOption{
	{ID: "pyqs", Label: "PYQs"},
	{ID: "notes", Label: "Notes"},
	{ID: "videos", Label: "Videos"},
}

const (
	greeting     = "Hi! I can help you find notes, papers and videos for your subjects."
	welcomeBack  = "Welcome back!"
	noneFound    = "Sorry, nothing here yet."
	foundPattern = "Here are the %s for %s:"
)

// Lookup names the backend call needed to continue after a choice.
type Lookup struct {
	Step         Step // step whose options (or resources) are needed
	ID           string
	Semester     string
	ResourceType string
}

// Flow is the chatbot state machine over a persisted models.ChatState.
type Flow struct {
	st models.ChatState
}

// New starts a conversation at the college step.
func New() *Flow {
	f := &Flow{}
	f.Reset()
	return f
}

// FromState restores a persisted conversation.
func FromState(st models.ChatState) *Flow { return &Flow{st: st} }

// State returns the conversation for persisting.
func (f *Flow) State() models.ChatState { return f.st }

// Step is the current step.
func (f *Flow) Step() Step { return Step(f.st.Step) }

// Options are the choices offered at the current step.
func (f *Flow) Options() []models.ChatOption { return f.st.Options }

// Messages is the conversation so far.
func (f *Flow) Messages() []models.ChatMessage { return f.st.Messages }

// Preference is the path chosen so far.
func (f *Flow) Preference() models.ChatPreference { return f.st.Pref }

// Reset clears everything and greets again. The caller loads colleges.
func (f *Flow) Reset() {
	f.st = models.ChatState{
		Step:     int(StepCollege),
		Messages: []models.ChatMessage{{From: models.ChatFromBot, Text: greeting}},
	}
}

// Resume restores a saved path and jumps to the resource-type step. An
// incomplete preference starts over.
func (f *Flow) Resume(pref models.ChatPreference) {
	if pref.SubjectID == "" {
		f.Reset()
		return
	}
	f.st = models.ChatState{
		Step: int(StepResourceType),
		Pref: pref,
		Messages: []models.ChatMessage{
			{From: models.ChatFromBot, Text: welcomeBack + " " + summary(pref)},
			{From: models.ChatFromBot, Text: StepResourceType.Prompt()},
		},
		Options: ResourceTypes,
	}
}

// Choose accepts optionID at the current step, records it and advances.
// It returns the lookup that yields the next step's options.
func (f *Flow) Choose(optionID string) (Lookup, error) {
	opt, ok := f.find(optionID)
	if !ok {
		return Lookup{}, ErrUnknownOption
	}
	f.say(models.ChatFromUser, opt.Label)
	f.st.Options = nil

	p := &f.st.Pref
	switch f.Step() {
	case StepCollege:
		*p = models.ChatPreference{CollegeID: opt.ID, CollegeName: opt.Label}
		f.st.Step = int(StepCourse)
		return Lookup{Step: StepCourse, ID: opt.ID}, nil
	case StepCourse:
		p.CourseID, p.CourseName = opt.ID, opt.Label
		f.st.Step = int(StepBranch)
		return Lookup{Step: StepBranch, ID: opt.ID}, nil
	case StepBranch:
		p.BranchID, p.BranchName = opt.ID, opt.Label
		f.st.Step = int(StepSemester)
		return Lookup{Step: StepSemester, ID: opt.ID}, nil
	case StepSemester:
		p.Semester = opt.ID
		f.st.Step = int(StepSubject)
		return Lookup{Step: StepSubject, ID: p.BranchID, Semester: opt.ID}, nil
	case StepSubject:
		p.SubjectID, p.SubjectName = opt.ID, opt.Label
		f.st.Step = int(StepResourceType)
		f.st.Options = ResourceTypes
		f.say(models.ChatFromBot, StepResourceType.Prompt())
		return Lookup{Step: StepResourceType}, nil
	default: // StepResourceType, StepDone
		f.st.ResourceType = opt.ID
		f.st.Step = int(StepDone)
		return Lookup{Step: StepDone, ID: p.SubjectID, ResourceType: opt.ID}, nil
	}
}

// SetOptions installs the options loaded for step and asks its question.
// It reports false when the flow has moved on.
func (f *Flow) SetOptions(step Step, opts []models.ChatOption) bool {
	if step != f.Step() {
		return false
	}
	f.st.Options = opts
	if len(opts) == 0 {
		f.say(models.ChatFromBot, noneFound)
		return true
	}
	f.say(models.ChatFromBot, step.Prompt())
	return true
}

// SetResources shows the resources found and offers the resource types
// again so another kind can be picked.
func (f *Flow) SetResources(res []models.ChatResource) {
	msg := models.ChatMessage{From: models.ChatFromBot, Resources: res}
	if len(res) == 0 {
		msg.Text = noneFound
	} else {
		msg.Text = fmt.Sprintf(foundPattern, typeLabel(f.st.ResourceType), f.st.Pref.SubjectName)
	}
	f.st.Messages = append(f.st.Messages, msg)
	f.st.Options = ResourceTypes
}

// Complete reports whether the path is chosen down to a subject.
func (f *Flow) Complete() bool { return f.st.Pref.SubjectID != "" }

func (f *Flow) find(id string) (models.ChatOption, bool) {
	for _, o := range f.st.Options {
		if o.ID == id {
			return o, true
		}
	}
	return models.ChatOption{}, false
}

func (f *Flow) say(from, text string) {
	f.st.Messages = append(f.st.Messages, models.ChatMessage{From: from, Text: text})
}

func typeLabel(id string) string {
	for _, o := range ResourceTypes {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func summary(p models.ChatPreference) string {
	return fmt.Sprintf("%s · %s · %s · Semester %s · %s", p.CollegeName, p.CourseName, p.BranchName, p.Semester, p.SubjectName)
}
