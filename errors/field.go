package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field returns an error describing a problem with a single attribute of a
// record. It returns nil if err is nil.
//
// Nested attributes use dot notation, ie. Lender.PubKey. Elements of a list
// are named by their index, ie. Produced.0.Amount.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds a field error to errs. Nothing is added if err is nil.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors returns all errors created for the given field name. Wrapped
// and appended errors are searched as well. A branch is not searched any
// deeper once a match is found, so the outermost match is returned.
func FieldErrors(err error, name string) []error {
	var res []error
	walk(err, func(e error) bool {
		if f, ok := e.(fielder); ok && f.Field() == name {
			res = append(res, e)
			return false
		}
		return true
	})
	return res
}

// walk calls fn for err and every error it wraps, depth first. Descending
// into an error stops when fn returns false.
func walk(err error, fn func(error) bool) {
	for !isNilErr(err) {
		if !fn(err) {
			return
		}
		if u, ok := err.(unpacker); ok {
			// A collection has no single cause.
			for _, e := range u.Unpack() {
				walk(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type fielder interface {
	Field() string
}
