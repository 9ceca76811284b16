// Package taxonomy drives the Course → Branch → Subject selectors used by
// resource forms and caches the lookups behind them.
package taxonomy

import (
	"errors"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// ErrNoCourse is returned when a branch is chosen before a course.
var ErrNoCourse = errors.New("taxonomy: select a course first")

// ErrNoBranch is returned when a subject is chosen before a branch.
var ErrNoBranch = errors.New("taxonomy: select a branch first")

// Phase is where a Cascade is in the selection sequence.
type Phase int

const (
	NoCourse Phase = iota
	CourseSelected
	BranchSelected
)

// Cascade is the selection state of one open form. Choosing a course
// clears the branch and subject below it; choosing a branch clears the
// subject. Lists arriving for a selection that is no longer current are
// ignored.
type Cascade struct {
	Course  string
	Branch  string
	Subject string

	Branches []models.Branch
	Subjects []models.Subject

	branchesLoaded bool
	subjectsLoaded bool

	courseApplied bool
	branchApplied bool
}

// Phase reports the current phase.
func (c *Cascade) Phase() Phase {
	switch {
	case c.Course == "":
		return NoCourse
	case c.Branch == "":
		return CourseSelected
	default:
		return BranchSelected
	}
}

// SelectCourse chooses a course and returns the course code whose branches
// must now be loaded ("" when the course was cleared).
func (c *Cascade) SelectCourse(code string) string {
	c.Course = code
	c.Branch, c.Subject = "", ""
	c.Branches, c.Subjects = nil, nil
	c.branchesLoaded, c.subjectsLoaded = false, false
	return code
}

// SelectBranch chooses a branch of the current course and returns the
// branch code whose subjects must now be loaded.
func (c *Cascade) SelectBranch(code string) (string, error) {
	if c.Course == "" {
		return "", ErrNoCourse
	}
	c.Branch = code
	c.Subject = ""
	c.Subjects = nil
	c.subjectsLoaded = false
	return code, nil
}

// SelectSubject chooses a subject of the current branch.
func (c *Cascade) SelectSubject(code string) error {
	if c.Branch == "" {
		return ErrNoBranch
	}
	c.Subject = code
	return nil
}

// SetBranches installs the branches loaded for course. It reports false
// when course is no longer selected.
func (c *Cascade) SetBranches(course string, branches []models.Branch) bool {
	if course != c.Course {
		return false
	}
	c.Branches = branches
	c.branchesLoaded = true
	return true
}

// SetSubjects installs the subjects loaded for branch. It reports false
// when branch is no longer selected.
func (c *Cascade) SetSubjects(branch string, subjects []models.Subject) bool {
	if branch != c.Branch || branch == "" {
		return false
	}
	c.Subjects = subjects
	c.subjectsLoaded = true
	return true
}

// ApplySaved pre-selects a saved course/branch pair. Call it after every
// load; each half is applied at most once per Cascade:
//
//   - the course, once courses are loaded, only if none is chosen yet;
//   - the branch, once that course's branches are loaded, only if no
//     branch is chosen and the saved one is among them.
//
// A manual choice made first disables the corresponding half for good.
// It returns the course code whose branches must be loaded, if any.
func (c *Cascade) ApplySaved(pref models.ResourcePreference, coursesLoaded bool) string {
	if !c.courseApplied && coursesLoaded {
		c.courseApplied = true
		if c.Course == "" && pref.Course != "" {
			return c.SelectCourse(pref.Course)
		}
		// Chosen by hand or nothing saved: the branch half is moot.
		c.branchApplied = true
		return ""
	}
	if c.courseApplied && !c.branchApplied && c.branchesLoaded {
		c.branchApplied = true
		if c.Branch == "" && c.Course == pref.Course && hasBranch(c.Branches, pref.Branch) {
			c.Branch = pref.Branch
		}
	}
	return ""
}

func hasBranch(bs []models.Branch, code string) bool {
	if code == "" {
		return false
	}
	for _, b := range bs {
		if b.Code == code {
			return true
		}
	}
	return false
}
