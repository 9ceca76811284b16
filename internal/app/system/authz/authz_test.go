package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/domain/models"
)

func TestCanManage(t *testing.T) {
	item := models.Item{ID: "n1", Owner: models.Owner{ID: "u1", Username: "asha"}}

	tests := []struct {
		name string
		user *auth.SessionUser
		item models.Item
		want bool
	}{
		{"owner", &auth.SessionUser{ID: "u1"}, item, true},
		{"different user", &auth.SessionUser{ID: "u2"}, item, false},
		{"anonymous", nil, item, false},
		{"empty user id", &auth.SessionUser{ID: ""}, models.Item{}, false},
		{"item without owner id", &auth.SessionUser{ID: "u1"}, models.Item{Owner: models.Owner{Username: "asha"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.CanManage(tt.user, tt.item); got != tt.want {
				t.Errorf("CanManage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageItem_FromRequest(t *testing.T) {
	item := models.Item{Owner: models.Owner{ID: "u1"}}

	req := httptest.NewRequest("GET", "/notes", nil)
	if authz.CanManageItem(req, item) {
		t.Error("anonymous request can manage")
	}
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "u1"})
	if !authz.CanManageItem(req, item) {
		t.Error("owner cannot manage")
	}
}

func TestUserCtx(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	role, name, id, ok := authz.UserCtx(req)
	if ok || role != "visitor" || name != "" || id != "" {
		t.Errorf("anonymous UserCtx = %q %q %q %v", role, name, id, ok)
	}

	req = auth.WithTestUser(req, &auth.SessionUser{ID: "u1", Username: "asha", Role: "Admin"})
	role, name, id, ok = authz.UserCtx(req)
	if !ok || role != "admin" || name != "asha" || id != "u1" {
		t.Errorf("UserCtx = %q %q %q %v", role, name, id, ok)
	}
	if !authz.IsSignedIn(req) {
		t.Error("IsSignedIn false for a signed-in user")
	}
}
