// Package inputval validates decoded form input with struct tags and turns
// failures into English messages for re-rendered forms.
//
// Field names in messages come from the `label` tag, falling back to the
// Go field name:
//
//	type noteInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	}
//	if res := inputval.Validate(in); res.HasErrors() {
//	    reRender(res.First())
//	}
package inputval

import (
	"errors"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if l := fld.Tag.Get("label"); l != "" {
			return l
		}
		return fld.Name
	})

	_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return urlutil.IsValidAbsHTTPURL(fl.Field().String())
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("httpurl", trans,
		func(u ut.Translator) error {
			return u.Add("httpurl", "{0} must be a valid link starting with http:// or https://", true)
		},
		func(u ut.Translator, fe validator.FieldError) string {
			s, _ := u.T("httpurl", fe.Field())
			return s
		})
}

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Add appends a failure not expressible as a tag.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Validate checks v (a struct or pointer to struct) against its tags.
func Validate(v any) Result {
	once.Do(setup)

	var res Result
	err := validate.Struct(v)
	if err == nil {
		return res
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		res.Add("", "Invalid input.")
		return res
	}
	for _, fe := range ve {
		msg := fe.Translate(trans)
		if !strings.HasSuffix(msg, ".") {
			msg += "."
		}
		res.Add(fe.Field(), msg)
	}
	return res
}

// IsValidEmail reports whether s is a bare address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	a, err := mail.ParseAddress(s)
	if err != nil || a.Address != s {
		return false
	}
	local, domain, _ := strings.Cut(s, "@")
	return !strings.HasPrefix(local, ".") && !strings.HasSuffix(local, ".") &&
		!strings.Contains(local, "..") && !strings.HasPrefix(domain, ".") &&
		!strings.Contains(domain, "..")
}
