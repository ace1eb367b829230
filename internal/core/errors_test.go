package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("edit: %w", NewError(KindManufacturerNotFound, 0, "manufacturer %d", 4))

	if !errors.Is(err, ErrManufacturerNotFound) {
		t.Error("errors.Is(err, ErrManufacturerNotFound) = false, want true")
	}
	if errors.Is(err, ErrAddressNotFound) {
		t.Error("errors.Is(err, ErrAddressNotFound) = true, want false")
	}

	coded := NewError(KindDeleteManufacturer, CodeFailedBulkDelete, "bulk")
	if !errors.Is(coded, &Error{Kind: KindDeleteManufacturer}) {
		t.Error("zero-code target should match every code")
	}
	if errors.Is(coded, &Error{Kind: KindDeleteManufacturer, Code: CodeFailedDelete}) {
		t.Error("different code should not match")
	}
}

func TestAsDomain(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("upload: %w", WrapError(KindImageUpload, 0, cause))

	de, ok := AsDomain(err)
	if !ok {
		t.Fatal("AsDomain() ok = false, want true")
	}
	if de.Kind != KindImageUpload {
		t.Errorf("Kind = %v, want %v", de.Kind, KindImageUpload)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should stay reachable")
	}

	if _, ok := AsDomain(context.Canceled); ok {
		t.Error("AsDomain(context.Canceled) ok = true, want false")
	}
}

func TestKind_Family(t *testing.T) {
	tests := []struct {
		kind Kind
		want Family
	}{
		{KindManufacturerNotFound, FamilyManufacturer},
		{KindUpdateManufacturer, FamilyManufacturer},
		{KindAddressConstraint, FamilyAddress},
		{KindInvalidAddressField, FamilyAddress},
		{KindMemoryLimit, FamilyImage},
		{KindCannotDeleteImage, FamilyImage},
		{KindUnknown, FamilyOther},
	}

	for _, tt := range tests {
		if got := tt.kind.Family(); got != tt.want {
			t.Errorf("%v.Family() = %v, want %v", tt.kind, got, tt.want)
		}
	}

	if !InFamily(NewError(KindDeleteAddress, CodeFailedDelete, "x"), FamilyAddress) {
		t.Error("InFamily(DeleteAddress, FamilyAddress) = false, want true")
	}
	if !IsKind(NewError(KindDeleteAddress, CodeFailedDelete, "x"), KindDeleteAddress) {
		t.Error("IsKind(DeleteAddress) = false, want true")
	}
}

func TestError_Message(t *testing.T) {
	err := WrapError(KindDeleteManufacturer, CodeFailedDelete, errors.New("row locked"))
	got := err.Error()
	for _, want := range []string{"DeleteManufacturerException", "code 1", "row locked"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}
