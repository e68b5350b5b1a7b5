// Package businessflow contains the core business logic and use cases for the estimation platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Lead-related errors
	ErrLeadNotFound            = errors.New("lead not found")
	ErrInvalidStatusTransition = errors.New("invalid lead status transition")
	ErrContactMissing          = errors.New("lead has no contact email")
	ErrInvalidJobType          = errors.New("invalid job type")

	// Estimate-related errors
	ErrEstimateNotFound = errors.New("estimate not found")

	// Admin-related errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminInactive     = errors.New("admin account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Pricing rule errors
	ErrPricingRuleNotFound = errors.New("pricing rule not found")

	// Invoice-related errors
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidInvoiceState  = errors.New("invalid invoice state for this operation")
	ErrInvoiceItemsRequired = errors.New("invoice requires at least one line item")

	// Job-related errors
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJobState  = errors.New("invalid job state for this operation")
	ErrScheduleRequired = errors.New("scheduled time is required")

	// Financing errors
	ErrFinancingNotFound = errors.New("financing application not found")
	ErrFinancingDecided  = errors.New("financing application already decided")

	// Insurance claim errors
	ErrClaimNotFound          = errors.New("insurance claim not found")
	ErrInvalidClaimTransition = errors.New("invalid claim status transition")

	// Infrastructure errors
	ErrCacheNotAvailable = errors.New("cache not available")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 200")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsEstimateNotFound(err error) bool {
	return errors.Is(err, ErrEstimateNotFound)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsPricingRuleNotFound(err error) bool {
	return errors.Is(err, ErrPricingRuleNotFound)
}

func IsInvoiceNotFound(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}

func IsInvalidInvoiceState(err error) bool {
	return errors.Is(err, ErrInvalidInvoiceState)
}

func IsJobNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}

func IsFinancingNotFound(err error) bool {
	return errors.Is(err, ErrFinancingNotFound)
}

func IsClaimNotFound(err error) bool {
	return errors.Is(err, ErrClaimNotFound)
}
