// Package formutil provides helpers for form re-rendering with validation errors.
//
// A failed submission re-renders the form with the values the user entered,
// a message, and whatever option lists the form needs. Embed Base for the
// common fields:
//
//	type noteForm struct {
//		formutil.Base
//		Title   string
//		Cascade taxonomy.Cascade
//	}
//
//	form := noteForm{Title: title}
//	formutil.SetBase(&form.Base, w, r, "Add Note", "/notes")
//	form.SetError("Title is required.")
//	templates.Render(w, r, "catalog_form", form)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/viewdata"
)

// Base is the page chrome plus the form-level error message.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the page chrome from the request.
func SetBase(b *Base, w http.ResponseWriter, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(w, r, title, backDefault)
}

// SetError sets an escaped error message.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// HasError reports whether an error is set.
func (b *Base) HasError() bool { return b.Error != "" }
