// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const defaultRequestTimeout = 30 * time.Second

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validateRequest runs struct validation and renders the failure, returning
// true when the handler should stop.
func validateRequest(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := v.Struct(req); err != nil {
		var validationErrors []string
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				validationErrors = append(validationErrors, getValidationErrorMessage(fieldErr))
			}
		}
		return true, errorResponse(c, fiber.StatusBadRequest, "Validation failed", dto.ErrorValidation, validationErrors)
	}
	return false, nil
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get(businessflow.RequestIDKey))
}

// createRequestContext creates a context with a timeout and request-scoped
// values for observability
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)

	ctx = context.WithValue(ctx, "request_id", c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}

// businessErrorResponse maps a flow error onto an HTTP status by its code.
func businessErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	var bizErr *businessflow.BusinessError
	if !errors.As(err, &bizErr) {
		return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
	}

	status := fiber.StatusInternalServerError
	switch bizErr.Code {
	case dto.ErrorLeadNotFound, dto.ErrorEstimateNotFound, dto.ErrorAdminNotFound,
		dto.ErrorPricingRuleNotFound, dto.ErrorInvoiceNotFound, dto.ErrorJobNotFound,
		dto.ErrorFinancingNotFound, dto.ErrorClaimNotFound:
		status = fiber.StatusNotFound
	case dto.ErrorInvalidTransition, dto.ErrorInvoiceState, dto.ErrorJobState,
		dto.ErrorFinancingState, dto.ErrorClaimState:
		status = fiber.StatusConflict
	case dto.ErrorIncorrectPassword, dto.ErrorAccountInactive, dto.ErrorInvalidToken:
		status = fiber.StatusUnauthorized
	case dto.ErrorInvalidIntake, dto.ErrorContactMissing:
		status = fiber.StatusBadRequest
	default:
		if isValidationCode(bizErr.Code) {
			status = fiber.StatusBadRequest
		}
	}

	return errorResponse(c, status, bizErr.Message, bizErr.Code, nil)
}

func isValidationCode(code string) bool {
	const suffix = "_VALIDATION_FAILED"
	return len(code) > len(suffix) && code[len(code)-len(suffix):] == suffix
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "uuid4":
		return err.Field() + " must be a valid UUID"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	case "dive":
		return err.Field() + " contains an invalid entry"
	default:
		return err.Field() + " is invalid"
	}
}
