package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// Courses lists every course.
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var data struct {
		Courses []models.Course `json:"courses"`
	}
	if err := c.do(ctx, http.MethodGet, coursesPath, nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Courses, nil
}

// Branches lists the branches of a course code.
func (c *Client) Branches(ctx context.Context, courseCode string) ([]models.Branch, error) {
	var data struct {
		Branches []models.Branch `json:"branches"`
	}
	q := url.Values{"course": {courseCode}}
	if err := c.do(ctx, http.MethodGet, branchesPath, q, nil, &data); err != nil {
		return nil, err
	}
	return data.Branches, nil
}

// Subjects lists the subjects of a branch code, optionally for one semester
// (semester <= 0 means all).
func (c *Client) Subjects(ctx context.Context, branchCode string, semester int) ([]models.Subject, error) {
	var data struct {
		Subjects []models.Subject `json:"subjects"`
	}
	q := url.Values{"branch": {branchCode}}
	if semester > 0 {
		q.Set("semester", strconv.Itoa(semester))
	}
	if err := c.do(ctx, http.MethodGet, subjectsPath, q, nil, &data); err != nil {
		return nil, err
	}
	return data.Subjects, nil
}
