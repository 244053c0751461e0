// Package assert provides the few assertions used across package tests. All
// of them stop the test on failure.
package assert

import (
	"reflect"
	"strings"

	"github.com/iov-one/iou/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil. Typed nil values, ie. a nil
// *errors.Error, are nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of an error.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test if two values are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is of the kind of want. A nil want
// expects no error.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails the test unless err carries exactly one error for given
// field and that error is of the kind of want. A nil want expects no error
// for the field.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("want no %q error, got %s", field, describe(errs))
	case len(errs) == 0:
		t.Fatalf("want %q error for %q, got none", want, field)
	case len(errs) > 1:
		t.Fatalf("want one %q error, got %s", field, describe(errs))
	case !want.Is(errs[0]):
		t.Fatalf("want %q error for %q, got %q", want, field, errs[0])
	}
}

func describe(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "[" + strings.Join(msgs, "; ") + "]"
}
