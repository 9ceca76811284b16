package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/campushub/internal/domain/models"
)

func (c *Client) options(ctx context.Context, path string) ([]models.ChatOption, error) {
	var opts []models.ChatOption
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Colleges lists the colleges the assistant knows about.
func (c *Client) Colleges(ctx context.Context) ([]models.ChatOption, error) {
	return c.options(ctx, collegesPath)
}

// CollegeCourses lists the courses offered by a college.
func (c *Client) CollegeCourses(ctx context.Context, collegeID string) ([]models.ChatOption, error) {
	return c.options(ctx, collegeCoursesPath(collegeID))
}

// CourseBranches lists the branches of a course.
func (c *Client) CourseBranches(ctx context.Context, courseID string) ([]models.ChatOption, error) {
	return c.options(ctx, courseBranchesPath(courseID))
}

// BranchSemesters lists the semesters of a branch.
func (c *Client) BranchSemesters(ctx context.Context, branchID string) ([]models.ChatOption, error) {
	return c.options(ctx, branchSemestersPath(branchID))
}

// SemesterSubjects lists the subjects of one semester of a branch.
func (c *Client) SemesterSubjects(ctx context.Context, branchID, semester string) ([]models.ChatOption, error) {
	return c.options(ctx, semesterSubjectsPath(branchID, semester))
}

// SubjectResources lists resources of kind resType ("notes", "pyqs",
// "videos") for a subject.
func (c *Client) SubjectResources(ctx context.Context, subjectID, resType string) ([]models.ChatResource, error) {
	var res []models.ChatResource
	q := url.Values{"type": {resType}}
	if err := c.do(ctx, http.MethodGet, subjectResourcesPath(subjectID), q, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// TrackEvent is one analytics record of the assistant flow.
type TrackEvent struct {
	SessionID string `json:"sessionId"`
	Step      string `json:"step"`
	Value     string `json:"value,omitempty"`
}

// Track reports a flow event. Callers treat failures as non-fatal.
func (c *Client) Track(ctx context.Context, ev TrackEvent) error {
	return c.do(ctx, http.MethodPost, trackPath, nil, ev, nil)
}
