package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A record with this ID already exists",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("violates foreign key constraint \"address_manufacturer_fk\""),
			wantCode:    "DB003",
			wantMessage: "Referenced record does not exist",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "deadline before generic timeout",
			err:         errors.New("query: context deadline exceeded (timeout)"),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "redis maps to session store",
			err:         errors.New("redis: connection pool timeout"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
		},
		{
			name:        "redis nil reply maps to session store",
			err:         errors.New("load session: redis: nil"),
			wantCode:    "SES001",
			wantMessage: "Session storage is unavailable",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this ID already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestBrandErrorMessages_Resolve(t *testing.T) {
	table := BrandErrorMessages(2097152)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "flat entry",
			err:  NewError(KindImageUpload, 0, "write failed"),
			want: "An error occurred while uploading the image.",
		},
		{
			name: "coded entry single delete",
			err:  NewError(KindDeleteManufacturer, CodeFailedDelete, "delete 3"),
			want: "An error occurred while deleting the object.",
		},
		{
			name: "coded entry bulk delete",
			err:  NewError(KindDeleteManufacturer, CodeFailedBulkDelete, "bulk delete"),
			want: "An error occurred while deleting this selection.",
		},
		{
			name: "address delete shares manufacturer messages",
			err:  NewError(KindDeleteAddress, CodeFailedBulkDelete, "bulk delete"),
			want: "An error occurred while deleting this selection.",
		},
		{
			name: "bulk status update",
			err:  NewError(KindUpdateManufacturer, CodeFailedBulkUpdateStatus, "bulk status"),
			want: "An error occurred while updating the status.",
		},
		{
			name: "single status update",
			err:  NewError(KindUpdateManufacturer, CodeFailedUpdateStatus, "status"),
			want: "An error occurred while updating the status for an object.",
		},
		{
			name: "not found shares text",
			err:  NewError(KindAddressNotFound, 0, "address 9"),
			want: "The object cannot be loaded (or found).",
		},
		{
			name: "parameterized size",
			err:  NewError(KindUploadedImageConstraint, CodeExceededSize, "too big"),
			want: `Max file size allowed is "2097152" bytes.`,
		},
		{
			name: "unrecognized format",
			err:  NewError(KindUploadedImageConstraint, CodeUnrecognizedFormat, "bmp"),
			want: "Image format not recognized, allowed formats are: .gif, .jpg, .png, .webp",
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("handler: %w", NewError(KindImageOptimization, 0, "resize")),
			want: "Unable to resize one or more of your pictures.",
		},
		{
			name: "unmapped kind falls back",
			err:  NewError(KindManufacturerConstraint, CodeInvalidName, "bad name"),
			want: "An unexpected error occurred. [ManufacturerConstraintException code 2]",
		},
		{
			name: "unlisted code falls back",
			err:  NewError(KindDeleteManufacturer, 7, "odd"),
			want: "An unexpected error occurred. [DeleteManufacturerException code 7]",
		},
		{
			name: "infrastructure error uses pattern table",
			err:  errors.New("dial tcp: connection refused"),
			want: "Unable to connect to database (Code: DB004). Please try again in a few moments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Resolve(tt.err, Passthrough())
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageTable_ResolveNil(t *testing.T) {
	if got := BrandErrorMessages(1).Resolve(nil, nil); got != "" {
		t.Errorf("Resolve(nil) = %q, want empty", got)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("duplicate key"))
	want := "A record with this ID already exists (Code: DB001). Reload the page and check the existing record"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
	if !IsUserFacing(errors.New("deadlock detected")) {
		t.Error("IsUserFacing(deadlock) = false, want true")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("IsUserFacing(boom) = true, want false")
	}
}
