package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeExtraction represents listing extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeChallenge represents anti-bot challenge pages served instead of content
	ErrorTypeChallenge ErrorType = "challenge"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypePrice represents price parsing/adjustment errors
	ErrorTypePrice ErrorType = "price"
	// ErrorTypeComposition represents offer image composition errors
	ErrorTypeComposition ErrorType = "composition"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents an error from the extract/compose pipeline
type PipelineError struct {
	Type    ErrorType
	Site    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		if e.Site != "" {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Site, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	if e.Site != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Site, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying by the caller
func (e *PipelineError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeChallenge:
		return false
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, site, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Site:    site,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(site, message string, err error) *PipelineError {
	return New(ErrorTypeNetwork, site, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(site, message string) *PipelineError {
	return New(ErrorTypeExtraction, site, message, nil)
}

// NewChallenge creates a new challenge-detected error
func NewChallenge(site, marker string) *PipelineError {
	return New(ErrorTypeChallenge, site, fmt.Sprintf("challenge marker %q detected", marker), nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(site string, duration time.Duration) *PipelineError {
	return New(ErrorTypeRateLimit, site, fmt.Sprintf("rate limited for %v", duration), nil)
}

// NewPrice creates a new invalid-price error
func NewPrice(message string) *PipelineError {
	return New(ErrorTypePrice, "", message, nil)
}

// NewComposition creates a new composition error
func NewComposition(message string, err error) *PipelineError {
	return New(ErrorTypeComposition, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a PipelineError of the given type
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}
