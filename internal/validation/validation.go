// Package validation reports recoverable, field-level input errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindDuplicate
)

type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

// Error collects every failing field of one submission.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Add(field string, kind Kind, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Kind: kind, Message: message})
}

// ByField maps each field to its first message, for templates.
func (e *Error) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

func (e *Error) Has(kind Kind) bool {
	for _, f := range e.Fields {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

func Duplicate(field, message string) *Error {
	e := &Error{}
	e.Add(field, KindDuplicate, message)
	return e
}

// Messages holds user-facing text keyed by "field.tag" or by "field" alone.
type Messages map[string]string

func (m Messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid (%s)", field, tag)
}

type Validator struct {
	v *validator.Validate
}

// New returns a validator that names fields after their `form` tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns *Error when any field fails. Only the first
// failing rule of each field is reported.
func (v *Validator) Struct(s any, messages Messages) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &Error{}
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Add(fe.Field(), KindInvalid, messages.lookup(fe.Field(), fe.Tag()))
	}
	return out
}
