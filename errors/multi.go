package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only nil errors were provided, nil is returned. If exactly one
// non nil error is provided, it is returned as it is.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr represents a collection of errors. Its root cause is undefined,
// use Is or FieldErrors to inspect it.
type multiErr []error

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}

	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}

	return fmt.Sprintf(
		"%d errors occurred:\n\t%s",
		len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns the list of all errors that this collection contains.
func (errs multiErr) Unpack() []error {
	return errs
}

// unpacker is implemented by errors that are a collection of other errors.
type unpacker interface {
	Unpack() []error
}
