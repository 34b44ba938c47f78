// Package validation checks request payloads against struct tags and reports the
// first failing field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// ClockLayout is the HH:MM format used by availability windows.
const ClockLayout = "15:04"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(ClockLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.Weekdays, fl.Field().String())
	})
	return v
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp and
// returns the UTC calendar day it falls on.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, err
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Messages maps "Field.tag" (or just "Field") to the message reported for it.
// Field is the Go struct field name without slice indexes.
type Messages map[string]string

func (m Messages) lookup(fe validator.FieldError) string {
	field, _, _ := strings.Cut(fe.StructField(), "[")
	if msg, ok := m[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// Struct validates s. On failure it returns a ValidationError for the first
// failing field in declaration order.
func Struct(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewInternalError(err)
	}
	fe := fieldErrs[0]
	return apperrors.NewValidationError(messages.lookup(fe), map[string]any{"field": fe.Field()})
}

// Var validates a single value against tag.
func Var(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}
