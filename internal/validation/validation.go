// Package validation checks Student payloads with go-playground/validator.
//
// Rules live as validate:"..." tags on types.Student. Three of them are not
// built into the validator and are registered here:
//
//	notblank   — non-empty after trimming whitespace (validator's non-standard NotBlank)
//	emailshape — trimmed value looks like local@domain.tld
//	pastdate   — calendar date strictly before today (UTC)
//
// All failing fields are reported, one entry per field, in struct order.
package validation

import (
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/types"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PayloadField names the field reported when the whole payload is missing.
const PayloadField = "student"

// Validator wraps a configured *validator.Validate.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock overrides the clock used by the pastdate rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New returns a Validator with the custom rules registered.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	// Report JSON names ("firstName") instead of Go names ("FirstName").
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Let validator see types.Date through its driver.Valuer: a supplied
	// date becomes its YYYY-MM-DD string, a missing one nil, which
	// "required" rejects.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if valuer, ok := field.Interface().(driver.Valuer); ok {
			if val, err := valuer.Value(); err == nil {
				return val
			}
		}
		return nil
	}, types.Date{})

	// Registration only fails on an empty tag or nil func, neither possible here.
	_ = v.validate.RegisterValidation("notblank", validators.NotBlank)
	_ = v.validate.RegisterValidation("emailshape", isEmailShape)
	_ = v.validate.RegisterValidation("pastdate", v.isPastDate)

	return v
}

// Student validates a payload. It returns nil or an *apperr.Error of
// KindValidation listing every rejected field.
func (v *Validator) Student(s *types.Student) error {
	if s == nil {
		return apperr.Validation(apperr.FieldError{Field: PayloadField, Tag: "required"})
	}

	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:         fe.Field(),
			Tag:           fe.Tag(),
			RejectedValue: rejectedValue(fe),
		})
	}
	return apperr.Validation(fields...)
}

// Normalize returns a copy with the text fields trimmed.
func Normalize(s types.Student) types.Student {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	return s
}

func isEmailShape(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func (v *Validator) isPastDate(fl validator.FieldLevel) bool {
	d, err := types.ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return d.Before(types.DateOf(v.now()))
}

// rejectedValue is what the client sent, in a JSON-friendly form.
func rejectedValue(fe validator.FieldError) any {
	switch val := fe.Value().(type) {
	case types.Date:
		if val.IsZero() {
			return nil
		}
		return val.String()
	case string:
		if fe.Tag() == "emailshape" {
			return strings.TrimSpace(val)
		}
		return val
	default:
		return val
	}
}
