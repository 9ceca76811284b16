// internal/app/features/catalog/new.go
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/upload"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeNew renders the empty form. Signed-out visitors are told to sign in
// and sent back to the list.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !h.requireSignIn(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d := h.baseForm(w, r, h.spec.newForm(), false, h.listPath())
	h.loadCascade(ctx, r, &d, true)
	templates.Render(w, r, "catalog_form", d)
}

// HandleCreate validates the form, uploads the file if the kind has one,
// and creates the record. When the record cannot be created the uploaded
// object is deleted again.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireSignIn(w, r) {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	f := h.spec.newForm()
	f.decode(r.Form)
	d := h.baseForm(w, r, f, false, h.listPath())

	if res := f.check(); res.HasErrors() {
		h.renderForm(w, r, &d, res.First())
		return
	}
	file, err := h.readFile(r, h.spec.file != nil && h.spec.file.RequiredOnCreate)
	if err != nil {
		h.renderForm(w, r, &d, upload.UserMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	body := f.fields()
	up, err := h.store(ctx, file, body)
	if err != nil {
		h.Log.Error("upload failed", zap.String("kind", h.Kind.Name), zap.Error(err))
		h.renderForm(w, r, &d, "Failed to upload file. Please try again.")
		return
	}

	if _, err := h.API.Create(ctx, h.Kind, body); err != nil {
		h.discard(r, up)
		h.Log.Warn("create failed", zap.String("kind", h.Kind.Name), zap.Error(err))
		h.renderForm(w, r, &d, backend.UserMessage(err, "Failed to create "+h.Kind.Singular+"."))
		return
	}

	course, branch, _, _ := selection(f)
	h.rememberPreference(ctx, r, course, branch)
	h.flash(w, r, auth.FlashSuccess, "Thanks! Your "+h.Kind.Singular+" was submitted for review.")
	redirect(w, r, h.listPath())
}

// requireSignIn flashes a sign-in prompt and redirects to the list when
// nobody is signed in.
func (h *Handler) requireSignIn(w http.ResponseWriter, r *http.Request) bool {
	if authz.IsSignedIn(r) {
		return true
	}
	h.flash(w, r, auth.FlashInfo, "Please sign in to add to "+h.Kind.Label+".")
	redirect(w, r, h.listPath())
	return false
}

// parseForm reads a urlencoded or multipart body bounded by limits.MaxUploadFormSize.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadFormSize)
	err := r.ParseMultipartForm(limits.MaxUploadFormSize)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		if errors.Is(err, http.ErrNotMultipart) {
			err = r.ParseForm()
		}
		if err == nil {
			return true
		}
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		h.ErrLog.LogBadRequest(w, r, "form too large", err, "That file is too large.", h.listPath())
		return false
	}
	h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", h.listPath())
	return false
}

// readFile checks the kind's uploaded file. It returns nil when the kind
// has no file or none was chosen and it is optional.
func (h *Handler) readFile(r *http.Request, required bool) (*upload.File, error) {
	ff := h.spec.file
	if ff == nil {
		return nil, nil
	}
	fh := firstFile(r)
	if fh == nil {
		if required {
			return nil, upload.ErrNoFile
		}
		return nil, nil
	}
	f, err := upload.Read(fh, ff.Rule)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// store uploads file, if any, and records its public URL in body.
func (h *Handler) store(ctx context.Context, file *upload.File, body map[string]any) (upload.Uploaded, error) {
	if file == nil {
		return upload.Uploaded{}, nil
	}
	up, err := h.Uploader.Upload(ctx, h.spec.file.Folder, *file)
	if err != nil {
		return upload.Uploaded{}, err
	}
	body[h.spec.file.Target] = up.PublicURL
	return up, nil
}

// discard deletes an object no record refers to. It runs on
// its own deadline so a cancelled request still cleans up.
func (h *Handler) discard(r *http.Request, up upload.Uploaded) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Short())
	defer cancel()
	up.Discard(ctx)
}

// baseForm builds the form view model around f.
func (h *Handler) baseForm(w http.ResponseWriter, r *http.Request, f form, editing bool, back string) formData {
	d := formData{
		Kind:      h.Kind,
		Editing:   editing,
		Form:      f,
		File:      h.spec.file,
		Taxonomy:  h.spec.taxonomy,
		Subjects:  h.spec.subjects,
		Semesters: semesters(),
		ExamTypes: ExamTypes,
		Return:    back,
	}
	title := "Add " + strings.ToLower(h.Kind.Label)
	d.Action = h.listPath() + "/new"
	d.Submit = "Submit"
	if editing {
		title = "Edit " + h.Kind.Singular
		d.Submit = "Save changes"
	}
	formutil.SetBase(&d.Base, w, r, title, back)
	return d
}

// loadCascade fills the taxonomy selects: the saved pair for a fresh form,
// the submitted or stored selection otherwise.
func (h *Handler) loadCascade(ctx context.Context, r *http.Request, d *formData, fresh bool) {
	if !h.spec.taxonomy || h.Taxonomy == nil {
		return
	}
	var err error
	if fresh {
		d.Courses, err = h.Taxonomy.Load(ctx, &d.Cascade, h.savedPreference(ctx, r))
	} else {
		course, branch, sem, subject := selection(d.Form)
		d.Semester = sem
		d.Courses, err = h.Taxonomy.Restore(ctx, &d.Cascade, course, branch, sem, subject)
	}
	if err != nil {
		h.Log.Warn("load taxonomy failed", zap.String("kind", h.Kind.Name), zap.Error(err))
	}
}

// renderForm re-renders d with msg. No backend write has happened.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, d *formData, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	d.SetError(msg)
	h.loadCascade(ctx, r, d, false)
	templates.Render(w, r, "catalog_form", d)
}
