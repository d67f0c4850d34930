// Package validate enforces form-boundary rules before any request leaves the front-end.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSpecials = "@$!%*#?&"

// Errors is a ValidationFailure: field name (JSON) to user-facing message.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failure for field unless one is already present.
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// AsErrors unwraps err into *Errors.
func AsErrors(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password enforces the account password policy: at least 8 characters drawn from
// letters, digits and @$!%*#?&, with at least one of each class.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return letter && digit && special
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
			return Email(fl.Field().String())
		})
		_ = v.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
			return Password(fl.Field().String())
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return v
}

// Struct validates s against its `validate` tags and returns *Errors on failure.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Errors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch fe.Tag() {
	case "required", "notblank":
		if fe.Field() == "role" {
			return "Please select a role"
		}
		return label + " is required"
	case "email_address":
		return "Please enter a valid email address"
	case "password_policy":
		return "Password must be at least 8 characters and contain letters, numbers, and a special character"
	case "gt":
		return label + " must be positive"
	case "finite":
		return label + " must be a number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	}
	return label + " is invalid"
}
