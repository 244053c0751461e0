package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrRejected, "nope"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*wrappedError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrConflict,
			wantIs: false,
		},
		"multi error contains the error": {
			a:      ErrConflict,
			b:      Append(ErrAmount, Wrap(ErrConflict, "spent")),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestRegisterPanicsOnDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering an already used code must panic")
		}
	}()
	Register(ErrRejected.Code(), "again")
}

func TestCodeAndLookup(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode uint32
	}{
		"nil error": {
			err:      nil,
			wantCode: 0,
		},
		"root error": {
			err:      ErrRejected,
			wantCode: 16,
		},
		"wrapped error": {
			err:      Wrap(Wrap(ErrConflict, "spent"), "notary"),
			wantCode: 18,
		},
		"stdlib error is internal": {
			err:      stdlib.New("boom"),
			wantCode: internalCode,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, got)
			}
			if tc.wantCode > internalCode {
				if root := Lookup(tc.wantCode); !root.Is(tc.err) {
					t.Fatalf("lookup returned %v", root)
				}
			}
		})
	}
}

func TestWrapKeepsReason(t *testing.T) {
	err := Wrap(ErrMsg, "no inputs allowed")
	if !strings.Contains(err.Error(), "no inputs allowed") {
		t.Fatalf("reason lost: %q", err)
	}
	if Wrap(nil, "whatever") != nil {
		t.Fatal("wrapping nil must return nil")
	}
	if got := fmt.Sprintf("%s", err); got != "no inputs allowed: invalid message" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("oh no")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestAppend(t *testing.T) {
	if Append(nil, nil) != nil {
		t.Fatal("only nil errors must produce nil")
	}
	if err := Append(nil, ErrAmount); err != ErrAmount {
		t.Fatalf("single error must be returned as is, got %v", err)
	}
	err := Append(ErrAmount, Append(ErrInput, ErrEmpty))
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want a multi error, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want flattened 3 errors, got %d", n)
	}
}
