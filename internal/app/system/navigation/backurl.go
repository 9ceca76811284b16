// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g. "/notes").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths reject return URLs that point back at action pages.
	ExcludedSubpaths []string

	// Fallback is used when no valid return URL is found.
	Fallback string
}

// SafeBackURL reads "return" from the query string or form and validates it
// against opts. Only local paths are ever returned.
//
//	url := navigation.SafeBackURL(r, navigation.KindBackURL(models.KindNotes))
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" {
		return opts.Fallback
	}

	if opts.AllowedPrefix != "" && !hasPathPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}

// hasPathPrefix is a segment-aware prefix match: "/notes" matches "/notes",
// "/notes?page=2" and "/notes/abc" but not "/notesx".
func hasPathPrefix(u, prefix string) bool {
	if !strings.HasPrefix(u, prefix) {
		return false
	}
	rest := u[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#'
}

// KindBackURL returns options that keep a user inside one kind's listing,
// preserving its search/filter/page query.
func KindBackURL(k models.Kind) BackURLOptions {
	return BackURLOptions{
		AllowedPrefix:    "/" + k.Name,
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/" + k.Name,
	}
}

// WalletBackURL keeps redirects inside the wallet.
var WalletBackURL = BackURLOptions{
	AllowedPrefix: "/wallet",
	Fallback:      "/wallet",
}
