package indexer

import (
	"errors"
	"fmt"
)

// Error codes for categorizing indexer errors
const (
	ErrCodeConfiguration = "CONFIG_ERROR"
	ErrCodeNotFound      = "NOT_FOUND_ERROR"
	ErrCodeConflict      = "CONFLICT_ERROR"
)

// IndexerError represents a categorized error from an indexer operation.
type IndexerError struct {
	Code      string
	Message   string
	IndexerID int64
	Cause     error
}

// Error implements the error interface.
func (e *IndexerError) Error() string {
	if e.IndexerID != 0 {
		return fmt.Sprintf("[%s] indexer %d: %s", e.Code, e.IndexerID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *IndexerError) Unwrap() error {
	return e.Cause
}

// Is matches any IndexerError with the same code.
func (e *IndexerError) Is(target error) bool {
	var t *IndexerError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrIndexerNotFound = &IndexerError{Code: ErrCodeNotFound, Message: "indexer not found"}
	ErrInvalidIndexer  = &IndexerError{Code: ErrCodeConfiguration, Message: "invalid indexer configuration"}
	ErrDuplicateURL    = &IndexerError{Code: ErrCodeConflict, Message: "an indexer with this url already exists"}
)

// NewNotFoundError creates a not found error for id.
func NewNotFoundError(id int64) *IndexerError {
	return &IndexerError{
		Code:      ErrCodeNotFound,
		Message:   "indexer not found",
		IndexerID: id,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *IndexerError {
	return &IndexerError{
		Code:    ErrCodeConfiguration,
		Message: message,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var indexerErr *IndexerError
	if errors.As(err, &indexerErr) {
		return indexerErr.Code
	}
	return ""
}
