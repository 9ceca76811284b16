// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "CampusHub"

// NavItem is one entry of the top navigation.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn     bool
	Role           string
	UserName       string
	ProfilePicture string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Nav         []NavItem

	// CSRF protection
	CSRFToken string

	// One-shot notifications queued by earlier requests
	Flashes []auth.Flash
}

// FlashSource pops queued notifications for a request. Set by bootstrap.
type FlashSource func(w http.ResponseWriter, r *http.Request) []auth.Flash

var flashSource FlashSource

// SetFlashSource installs the function that pops flashes.
// Call this once at startup from bootstrap.
func SetFlashSource(fn FlashSource) {
	flashSource = fn
}

// NewBaseVM creates a fully populated BaseVM for a page. It pops pending
// flashes, so call it once per rendered page.
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = strings.ToLower(u.Role)
		vm.UserName = u.Username
		vm.ProfilePicture = u.ProfilePicture
	}
	vm.Nav = Nav(vm.CurrentPath, vm.IsLoggedIn)
	if flashSource != nil && w != nil {
		vm.Flashes = flashSource(w, r)
	}
	return vm
}

// Nav builds the top navigation, marking the section containing path.
func Nav(path string, signedIn bool) []NavItem {
	items := make([]NavItem, 0, len(models.Kinds)+2)
	for _, k := range models.Kinds {
		items = append(items, NavItem{Label: k.Label, Href: "/" + k.Name})
	}
	items = append(items, NavItem{Label: "Ask", Href: "/chatbot"})
	if signedIn {
		items = append(items, NavItem{Label: "Wallet", Href: "/wallet"})
	}
	for i := range items {
		h := items[i].Href
		items[i].Active = path == h || strings.HasPrefix(path, h+"/")
	}
	return items
}
