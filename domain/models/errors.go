package models

import (
	"errors"
	"fmt"
)

// DataFormatError reports a source that cannot be read as a table. It is
// the only failure the ingestion and normalization path raises; missing
// fields degrade instead.
type DataFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := "data format error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// NewDataFormatError builds a DataFormatError with a formatted reason.
func NewDataFormatError(source string, err error, format string, args ...interface{}) *DataFormatError {
	return &DataFormatError{Source: source, Reason: fmt.Sprintf(format, args...), Err: err}
}

// IsDataFormat reports whether err is or wraps a DataFormatError.
func IsDataFormat(err error) bool {
	var dfe *DataFormatError
	return errors.As(err, &dfe)
}
