package core

import (
	"errors"
	"fmt"
)

// Table-level failures. Per-cell extraction never produces an error; a cell
// that does not match its pattern simply comes back absent.
var (
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrRetailerMismatch      = errors.New("retailer mismatch")
	ErrUnknownRetailer       = errors.New("unknown retailer")
	ErrUnexpectedProcessing  = errors.New("unexpected processing error")
	ErrEmptyFile             = errors.New("empty file")
	ErrUnsupportedFile       = errors.New("unsupported file type")
)

// MissingColumnError reports a mandatory input column absent from a raw table.
type MissingColumnError struct {
	Retailer Retailer
	Column   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q in the %s file", e.Column, e.Retailer)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingRequiredColumn
}

// MismatchError is returned when a table does not look like the declared retailer.
type MismatchError struct {
	Validation Validation
}

func (e *MismatchError) Error() string {
	return "retailer mismatch: " + e.Validation.Message
}

func (e *MismatchError) Unwrap() error {
	return ErrRetailerMismatch
}
