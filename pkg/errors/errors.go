package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport-level fetch failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStatus represents non-success upstream status codes
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeParsing represents page parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents admission denials
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeHistory represents search-log persistence errors
	ErrorTypeHistory ErrorType = "history"
)

// SearchError represents a search pipeline error
type SearchError struct {
	Type    ErrorType
	Region  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *SearchError) Error() string {
	if e.Region != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Region, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Region, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *SearchError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new SearchError
func New(errType ErrorType, region, message string, err error) *SearchError {
	return &SearchError{
		Type:    errType,
		Region:  region,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(region, message string, err error) *SearchError {
	return New(ErrorTypeNetwork, region, message, err)
}

// NewStatus creates a new upstream status error
func NewStatus(region string, statusCode int) *SearchError {
	message := fmt.Sprintf("unexpected status code: %d", statusCode)
	return New(ErrorTypeStatus, region, message, nil)
}

// NewParsing creates a new parsing error
func NewParsing(region, message string, err error) *SearchError {
	return New(ErrorTypeParsing, region, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(clientID string) *SearchError {
	message := fmt.Sprintf("too many requests from %s", clientID)
	return New(ErrorTypeRateLimit, "", message, nil)
}

// NewValidation creates a new validation error
func NewValidation(message string) *SearchError {
	return New(ErrorTypeValidation, "", message, nil)
}

// NewCache creates a new cache error
func NewCache(message string, err error) *SearchError {
	return New(ErrorTypeCache, "", message, err)
}

// NewHistory creates a new history error
func NewHistory(message string, err error) *SearchError {
	return New(ErrorTypeHistory, "", message, err)
}
