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
			name:        "missing column maps correctly",
			err:         &MissingColumnError{Retailer: Mercado, Column: "product_url"},
			wantCode:    "VAL004",
			wantMessage: "A required column is missing from the file",
		},
		{
			name:        "retailer mismatch maps correctly",
			err:         &MismatchError{Validation: Validation{Message: "nope"}},
			wantCode:    "VAL010",
			wantMessage: "The file does not match the selected retailer",
		},
		{
			name:        "unknown retailer maps correctly",
			err:         fmt.Errorf("%w: %q", ErrUnknownRetailer, "target"),
			wantCode:    "TBL002",
			wantMessage: "Unknown retailer",
		},
		{
			name:        "empty file maps correctly",
			err:         fmt.Errorf("read upload: %w", ErrEmptyFile),
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "unsupported file maps correctly",
			err:         fmt.Errorf("%w: .pdf", ErrUnsupportedFile),
			wantCode:    "FILE006",
			wantMessage: "Only .xlsx and .csv files are accepted",
		},
		{
			name:        "limiter error maps correctly",
			err:         ErrTooManyRuns,
			wantCode:    "UPL002",
			wantMessage: "System is busy cleaning other files",
		},
		{
			name:        "unexpected processing falls back to default",
			err:         fmt.Errorf("%w: index out of range", ErrUnexpectedProcessing),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("MISSING REQUIRED COLUMN url"),
			wantCode:    "VAL004",
			wantMessage: "A required column is missing from the file",
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

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(&MissingColumnError{Retailer: Mercado, Column: "product_url"})

	expected := "A required column is missing from the file (Code: VAL004). Check that the file is an unmodified crawler export for this retailer"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrEmptyFile,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypedErrorsUnwrap(t *testing.T) {
	if !errors.Is(&MissingColumnError{Column: "x"}, ErrMissingRequiredColumn) {
		t.Error("MissingColumnError should unwrap to ErrMissingRequiredColumn")
	}
	if !errors.Is(&MismatchError{}, ErrRetailerMismatch) {
		t.Error("MismatchError should unwrap to ErrRetailerMismatch")
	}
}
