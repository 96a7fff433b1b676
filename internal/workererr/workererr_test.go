package workererr

import (
	"errors"
	"testing"
)

func TestClassificationPredicates(t *testing.T) {
	cause := errors.New("boom")

	if !IsTransient(Transient(cause)) {
		t.Fatal("Transient() should satisfy IsTransient")
	}
	if !IsMissingData(MissingData(cause)) {
		t.Fatal("MissingData() should satisfy IsMissingData")
	}
	if !IsMissingData(Malformed(cause)) {
		t.Fatal("Malformed() should satisfy IsMissingData per §7 kind 3")
	}
	if IsTransient(MissingData(cause)) {
		t.Fatal("MissingData() should not satisfy IsTransient")
	}
}

func TestFatalErrorUnwraps(t *testing.T) {
	cause := errors.New("db unreachable")
	err := Fatal(cause)

	if !errors.Is(err, cause) {
		t.Fatal("Fatal() should unwrap to its cause")
	}
}
