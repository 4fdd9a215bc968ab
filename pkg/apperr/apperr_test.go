package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
		pred func(error) bool
	}{
		{NotFound("corporation", "c1"), KindNotFound, IsNotFound},
		{EmptyRequiredField("identity", "username"), KindEmptyRequiredField, IsEmptyRequiredField},
		{InvalidReference("office key missing address"), KindInvalidReference, IsInvalidReference},
		{NotAuthenticated(), KindNotAuthenticated, IsNotAuthenticated},
		{NotAuthorized(""), KindNotAuthorized, IsNotAuthorized},
		{NotDirector("c1"), KindNotDirector, IsNotDirector},
		{NotEmployeeOfScope(""), KindNotEmployeeOfScope, IsNotEmployeeOfScope},
		{ConflictingNoOp("already enabled"), KindConflictingNoOp, IsConflictingNoOp},
		{StorageIntegrity(errors.New("duplicate key")), KindStorageIntegrity, IsStorageIntegrity},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Errorf("KindOf(%v) = %d, want %d", c.err, got, c.want)
		}
		if !c.pred(c.err) {
			t.Errorf("predicate rejected %v", c.err)
		}
		if IsNotFound(c.err) && c.want != KindNotFound {
			t.Errorf("IsNotFound matched %v", c.err)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create identity: %w", EmptyRequiredField("identity", "email"))
	if !IsEmptyRequiredField(err) {
		t.Fatalf("wrapped error lost its kind: %v", err)
	}
	if got := FieldOf(err); got != "email" {
		t.Fatalf("FieldOf = %q, want %q", got, "email")
	}
}

func TestForeignErrorsAreUnknown(t *testing.T) {
	err := errors.New("plain")
	if KindOf(err) != KindUnknown {
		t.Fatalf("plain error classified as %d", KindOf(err))
	}
	if IsNotFound(err) || IsConflictingNoOp(err) {
		t.Fatal("predicate matched a foreign error")
	}
}
