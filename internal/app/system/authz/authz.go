// internal/app/system/authz/authz.go
//
// Package authz answers "what may the current visitor do" for rendering.
// These checks only decide which controls are shown. The backend repeats
// every check on the request itself and is the only authority.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), username, backend user id,
// and a found flag. Without a signed-in user (or with an empty id) it
// returns "visitor", "", "", false.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || strings.TrimSpace(user.ID) == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Username, user.ID, true
}

// IsSignedIn reports whether a user is present.
func IsSignedIn(r *http.Request) bool {
	_, _, _, ok := UserCtx(r)
	return ok
}

// CanManage reports whether user owns item and so may see its edit and
// delete controls. Anonymous users and items without an owner id never
// match.
func CanManage(user *auth.SessionUser, item models.Item) bool {
	if user == nil || user.ID == "" || item.Owner.ID == "" {
		return false
	}
	return user.ID == item.Owner.ID
}

// CanManageItem is CanManage for the request's user.
func CanManageItem(r *http.Request, item models.Item) bool {
	u, _ := auth.CurrentUser(r)
	return CanManage(u, item)
}
