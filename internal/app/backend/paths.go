package backend

import (
	"net/url"
	"strconv"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// URL builders for every backend endpoint the portal calls. Paths are
// relative to the configured API base URL.

func listPath(k models.Kind) string            { return "/" + k.Name }
func itemPath(k models.Kind, id string) string { return "/" + k.Name + "/" + url.PathEscape(id) }
func slugPath(k models.Kind, slug string) string {
	return "/" + k.Name + "/slug/" + url.PathEscape(slug)
}

const (
	coursesPath  = "/courses"
	branchesPath = "/branches"
	subjectsPath = "/subjects"

	presignPath      = "/aws/presigned-url"
	deleteObjectPath = "/aws/delete-object"

	loginPath  = "/auth/login"
	mePath     = "/auth/me"
	logoutPath = "/auth/logout"

	createOrderPath     = "/payment/create-order"
	initiatePaymentPath = "/payment/initiate"
	balancePath         = "/wallet/balance"
	transactionsPath    = "/wallet/transactions"
	redemptionsPath     = "/wallet/redemptions"
	redeemPath          = "/wallet/redeem"

	collegesPath = "/chatbot/colleges"
	trackPath    = "/chatbot/track"
)

func collegeCoursesPath(collegeID string) string {
	return "/chatbot/colleges/" + url.PathEscape(collegeID) + "/courses"
}

func courseBranchesPath(courseID string) string {
	return "/chatbot/courses/" + url.PathEscape(courseID) + "/branches"
}

func branchSemestersPath(branchID string) string {
	return "/chatbot/branches/" + url.PathEscape(branchID) + "/semesters"
}

func semesterSubjectsPath(branchID, semester string) string {
	return branchSemestersPath(branchID) + "/" + url.PathEscape(semester) + "/subjects"
}

func subjectResourcesPath(subjectID string) string {
	return "/chatbot/subjects/" + url.PathEscape(subjectID) + "/resources"
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
