package assert

import (
	"testing"

	"github.com/iov-one/iou/errors"
)

type testerMock struct {
	failed bool
}

func (t *testerMock) Helper() {}

func (t *testerMock) Fatal(...interface{}) {
	t.failed = true
}

func (t *testerMock) Fatalf(string, ...interface{}) {
	t.failed = true
}

func TestNil(t *testing.T) {
	var nilErr *errors.Error
	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"nil":           {value: nil},
		"typed nil":     {value: nilErr},
		"nil slice":     {value: []byte(nil)},
		"error":         {value: errors.ErrAmount, wantFail: true},
		"integer value": {value: 0, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var m testerMock
			Nil(&m, tc.value)
			if m.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, m.failed)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	var m testerMock
	Equal(&m, []byte("a"), []byte("a"))
	if m.failed {
		t.Fatal("equal values reported as different")
	}
	Equal(&m, 1, int64(1))
	if !m.failed {
		t.Fatal("different types must not be equal")
	}
}

func TestPanics(t *testing.T) {
	var m testerMock
	Panics(&m, func() { panic("boom") })
	if m.failed {
		t.Fatal("panic not recovered")
	}
	Panics(&m, func() {})
	if !m.failed {
		t.Fatal("missing panic not reported")
	}
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		wantFail bool
	}{
		"both nil":       {},
		"same kind":      {want: errors.ErrAmount, got: errors.Wrap(errors.ErrAmount, "issue")},
		"other kind":     {want: errors.ErrAmount, got: errors.ErrInput, wantFail: true},
		"unexpected err": {want: nil, got: errors.ErrInput, wantFail: true},
		"missing err":    {want: errors.ErrInput, got: nil, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var m testerMock
			IsErr(&m, tc.want, tc.got)
			if m.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, m.failed)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	err := errors.Append(
		errors.Field("Amount", errors.ErrAmount, "must be positive"),
		errors.Field("Borrower", errors.ErrInput, "lender and borrower must differ"),
		errors.Field("Borrower", errors.ErrEmpty, ""),
	)
	cases := map[string]struct {
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"match":             {field: "Amount", want: errors.ErrAmount},
		"wrong kind":        {field: "Amount", want: errors.ErrInput, wantFail: true},
		"no error expected": {field: "Lender", want: nil},
		"unexpected error":  {field: "Amount", want: nil, wantFail: true},
		"missing error":     {field: "Lender", want: errors.ErrEmpty, wantFail: true},
		"more than one":     {field: "Borrower", want: errors.ErrInput, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var m testerMock
			FieldError(&m, err, tc.field, tc.want)
			if m.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, m.failed)
			}
		})
	}
}
