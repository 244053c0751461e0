package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Every error returned by the iou packages wraps one of them,
// so its kind can be tested with Is and transmitted by code to the other
// party.
var (
	// ErrUnauthorized is returned for missing or invalid signatures and
	// for a party asked to sign for somebody else.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a party, record or route is unknown.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a structurally invalid transition. Such
	// transition must be neither signed nor finalized.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for a record that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique name or key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is a coding error. It should never be returned.
	ErrHuman = Register(7, "coding error")

	ErrEmpty  = Register(9, "value is empty")
	ErrState  = Register(10, "invalid state")
	ErrType   = Register(11, "invalid type")
	ErrAmount = Register(13, "invalid amount")
	ErrInput  = Register(14, "invalid input")

	// ErrTimeout is returned when an operation did not complete before
	// its deadline.
	ErrTimeout = Register(15, "timeout")

	// ErrRejected is returned when the counterparty refused to sign. The
	// reason it gave is kept in the message.
	ErrRejected = Register(16, "rejected")

	// ErrProtocol is returned when a session breaks or a message arrives
	// out of order. The outcome of the exchange is unknown.
	ErrProtocol = Register(17, "protocol failure")

	// ErrConflict is returned by the notary for a transition that was
	// already committed or that consumes an already consumed record.
	ErrConflict = Register(18, "conflict")

	ErrDatabase = Register(19, "database")

	// ErrPanic is only used for recovered panics.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by its code.
var registry = map[uint32]*Error{}

// Register declares a new root error. Codes must be unique, reusing one
// panics. Call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if e, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Lookup returns the root error registered under given code or nil. Use it
// to rebuild the kind of an error received from a remote party.
func Lookup(code uint32) *Error {
	return registry[code]
}

// Error is a root error. Its instances are compared by identity.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the code this root error was registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error of this kind. It is the same as
//   Wrap(e, description)
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is returns true if err is of this kind, that is this root error is found
// in its chain of causes. For an appended error it is enough that one of
// the errors matches. A nil root error matches only nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	found := false
	walk(err, func(cause error) bool {
		found = found || cause == error(e)
		return !found
	})
	return found
}

// Is returns true if err is of given kind.
func Is(err error, kind *Error) bool {
	return kind.Is(err)
}

// Wrap extends err with a description. It returns nil if err is nil.
//
// A stack trace is attached by the innermost Wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// internalCode is the code of every error that does not wrap a root error.
const internalCode uint32 = 1

// Code returns the code of the root error err wraps. Nil has code 0, any
// error not wrapping a root error has code 1.
func Code(err error) uint32 {
	if isNilErr(err) {
		return 0
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalCode
}

// Recover turns a panic into an ErrPanic assigned to err. Use it with
// defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// isNilErr returns true for nil and for a typed nil, ie. (*Error)(nil).
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	switch v := reflect.ValueOf(err); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

type causer interface {
	Cause() error
}

type coder interface {
	Code() uint32
}
