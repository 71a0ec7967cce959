package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"cnc-ops/internal/storage"
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether v is a 24-hour HH:MM (or H:MM) time.
func ValidClock(v string) bool {
	return clockPattern.MatchString(v)
}

// New returns a validator that knows the "hhmm" and "surface" tags and
// reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return ValidClock(fl.Field().String())
	})
	_ = v.RegisterValidation("surface", func(fl validator.FieldLevel) bool {
		return storage.IsSurfaceProcess(fl.Field().String())
	})

	return v
}

// Describe turns validator errors into one readable line.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()

		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "gte":
			msg = fmt.Sprintf("%s must be at least %s", field, e.Param())
		case "hhmm":
			msg = fmt.Sprintf("%s must be a 24-hour time HH:MM", field)
		case "datetime":
			msg = fmt.Sprintf("%s must be a date YYYY-MM-DD", field)
		case "surface":
			msg = fmt.Sprintf("%s is not a known surface process", field)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", field, e.Param())
		default:
			msg = fmt.Sprintf("%s failed on %s", field, e.Tag())
		}

		msgs = append(msgs, msg)
	}

	return strings.Join(msgs, "; ")
}
