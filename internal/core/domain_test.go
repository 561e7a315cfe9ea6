package core

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldsValidate(t *testing.T) {
	good := Fields{Description: "Coffee", Amount: 3.5, Category: "Food", Date: "2024-03-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name    string
		fields  Fields
		missing string
	}{
		{"no description", Fields{Amount: 1, Category: "c", Date: "2024-01-01"}, "description"},
		{"zero amount", Fields{Description: "a", Category: "c", Date: "2024-01-01"}, "amount"},
		{"no category", Fields{Description: "a", Amount: 1, Date: "2024-01-01"}, "category"},
		{"no date", Fields{Description: "a", Amount: 1, Category: "c"}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.missing) {
				t.Fatalf("error %q does not name %q", err, tc.missing)
			}
		})
	}
}

func TestFieldsValidateListsEveryMissingField(t *testing.T) {
	err := Fields{}.Validate()
	want := "missing required fields: description, amount, category, date"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestFieldsValidateAcceptsNegativeAndBlankText(t *testing.T) {
	// Only emptiness is checked: sign and whitespace pass through.
	f := Fields{Description: " ", Amount: -2, Category: " ", Date: "2024-02-31"}
	if err := f.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestFieldsRoundTripWithID(t *testing.T) {
	f := Fields{Description: "Rent", Amount: 900, Category: "Rent", Date: "2024-01-01"}
	e := f.WithID(7)
	if e.ID != 7 || e.Fields() != f {
		t.Fatalf("unexpected record %+v", e)
	}
}

func TestStoreError(t *testing.T) {
	inner := errors.New("database is locked")
	err := error(&StoreError{Op: "insert expense", Err: inner})
	if err.Error() != "insert expense: database is locked" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) || !IsStoreError(err) {
		t.Fatalf("expected wrapped store error")
	}
	if IsStoreError(ErrNotFound) {
		t.Fatalf("ErrNotFound is not a store error")
	}
}
