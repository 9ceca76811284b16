package chatbot

import (
	"context"
	"fmt"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// API is the backend surface of the chatbot. *backend.Client satisfies it.
type API interface {
	Colleges(ctx context.Context) ([]models.ChatOption, error)
	CollegeCourses(ctx context.Context, collegeID string) ([]models.ChatOption, error)
	CourseBranches(ctx context.Context, courseID string) ([]models.ChatOption, error)
	BranchSemesters(ctx context.Context, branchID string) ([]models.ChatOption, error)
	SemesterSubjects(ctx context.Context, branchID, semester string) ([]models.ChatOption, error)
	SubjectResources(ctx context.Context, subjectID, resType string) ([]models.ChatResource, error)
}

// Engine drives a Flow against the backend and reports each step to the
// tracker.
type Engine struct {
	API     API
	Tracker *Tracker
}

// Start begins a new conversation, or resumes pref when it is complete.
func (e *Engine) Start(ctx context.Context, sessionID string, pref models.ChatPreference) (*Flow, error) {
	f := New()
	if pref.SubjectID != "" {
		f.Resume(pref)
		e.Tracker.Track(sessionID, "resume", pref.SubjectID)
		return f, nil
	}
	opts, err := e.API.Colleges(ctx)
	if err != nil {
		return f, fmt.Errorf("load colleges: %w", err)
	}
	f.SetOptions(StepCollege, opts)
	e.Tracker.Track(sessionID, "start", "")
	return f, nil
}

// Choose applies optionID to f and loads what the next step shows.
func (e *Engine) Choose(ctx context.Context, sessionID string, f *Flow, optionID string) error {
	from := f.Step()
	lk, err := f.Choose(optionID)
	if err != nil {
		return err
	}
	e.Tracker.Track(sessionID, from.String(), optionID)

	switch lk.Step {
	case StepResourceType:
		return nil
	case StepDone:
		res, err := e.API.SubjectResources(ctx, lk.ID, lk.ResourceType)
		if err != nil {
			return fmt.Errorf("load resources: %w", err)
		}
		f.SetResources(res)
		return nil
	}

	var opts []models.ChatOption
	switch lk.Step {
	case StepCourse:
		opts, err = e.API.CollegeCourses(ctx, lk.ID)
	case StepBranch:
		opts, err = e.API.CourseBranches(ctx, lk.ID)
	case StepSemester:
		opts, err = e.API.BranchSemesters(ctx, lk.ID)
	case StepSubject:
		opts, err = e.API.SemesterSubjects(ctx, lk.ID, lk.Semester)
	}
	if err != nil {
		return fmt.Errorf("load %s options: %w", lk.Step, err)
	}
	f.SetOptions(lk.Step, opts)
	return nil
}

// Reset starts over at the college step.
func (e *Engine) Reset(ctx context.Context, sessionID string, f *Flow) error {
	f.Reset()
	e.Tracker.Track(sessionID, "reset", "")
	opts, err := e.API.Colleges(ctx)
	if err != nil {
		return fmt.Errorf("load colleges: %w", err)
	}
	f.SetOptions(StepCollege, opts)
	return nil
}
