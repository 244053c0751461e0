package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Compared with DeepEqual, so every instance is created once.
	var (
		amountErr   = Field("Amount", ErrAmount, "must be positive, got %d", -1)
		lenderErr   = Field("Lender", ErrEmpty, "")
		borrowerErr = Field("Borrower", ErrInput, "lender and borrower must differ")
		lenderKey   = Field("PubKey", ErrInput, "")
		nestedErr   = Field("Lender", lenderKey, "party")
		outputErr   = Field("Produced.0", Append(amountErr, nestedErr), "output")
	)

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"nil error": {
			err:   nil,
			field: "Amount",
			want:  nil,
		},
		"root error is not a field error": {
			err:   ErrAmount,
			field: "Amount",
			want:  nil,
		},
		"single match": {
			err:   amountErr,
			field: "Amount",
			want:  []error{amountErr},
		},
		"different field": {
			err:   amountErr,
			field: "Borrower",
			want:  nil,
		},
		"appended errors": {
			err:   Append(amountErr, lenderErr, borrowerErr),
			field: "Borrower",
			want:  []error{borrowerErr},
		},
		"two matches": {
			err:   Append(lenderErr, borrowerErr, nestedErr),
			field: "Lender",
			want:  []error{lenderErr, nestedErr},
		},
		"wrapped field error": {
			err:   Wrap(Wrap(borrowerErr, "inner"), "outer"),
			field: "Borrower",
			want:  []error{borrowerErr},
		},
		"outermost match is returned": {
			err:   nestedErr,
			field: "Lender",
			want:  []error{nestedErr},
		},
		"nested field found through its parent": {
			err:   Wrap(nestedErr, "issue"),
			field: "PubKey",
			want:  []error{lenderKey},
		},
		"collection under a field": {
			err:   outputErr,
			field: "Amount",
			want:  []error{amountErr},
		},
		"collection under a field, deeply nested": {
			err:   Wrap(outputErr, "transition"),
			field: "PubKey",
			want:  []error{lenderKey},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestFieldMessage(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"no description": {
			err:  Field("Notary", ErrEmpty, ""),
			want: `field "Notary": value is empty`,
		},
		"formatted description": {
			err:  Field("Amount", ErrAmount, "must be positive, got %d", 0),
			want: `field "Amount": must be positive, got 0: invalid amount`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}

	if Field("Amount", nil, "ignored") != nil {
		t.Fatal("a field error of nil must be nil")
	}
	if !ErrAmount.Is(Field("Amount", ErrAmount, "")) {
		t.Fatal("field error must keep its kind")
	}
}
