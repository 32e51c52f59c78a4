package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	PMSErrorBadInput          = "PMS_BAD_INPUT"
	PMSErrorAuthFailed        = "PMS_AUTH_FAILED"
	PMSErrorVendorNotFound    = "PMS_VENDOR_NOT_FOUND"
	PMSErrorVendorUnavailable = "PMS_VENDOR_UNAVAILABLE"
	PMSErrorRateLimited       = "PMS_RATE_LIMITED"
	PMSErrorCircuitOpen       = "PMS_CIRCUIT_OPEN"
	PMSErrorWriteRejected     = "PMS_WRITE_REJECTED"
	PMSErrorWebhookRejected   = "PMS_WEBHOOK_REJECTED"
	PMSErrorInternal          = "PMS_INTERNAL_ERROR"
)

// AuthError marks authentication and token-grant failures. These are
// surfaced to the caller and not retried beyond the refresh → fallback
// grant chain.
func AuthError(vendorID string, operation string, source error) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryAuth, "pms: authentication failed").
		WithCode(http.StatusUnauthorized).
		WithTextCode(PMSErrorAuthFailed).
		WithMetadata(operationMetadata(vendorID, operation))
}

// VendorError wraps a vendor HTTP or transport failure with vendor and
// operation identity for diagnostics.
func VendorError(vendorID string, operation string, source error) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryExternal, "pms: vendor operation failed").
		WithCode(http.StatusBadGateway).
		WithTextCode(PMSErrorVendorUnavailable).
		WithMetadata(operationMetadata(vendorID, operation))
}

// WriteRejectedError marks a vendor-side rejection of a push operation.
func WriteRejectedError(vendorID string, operation string, source error) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryOperation, "pms: vendor rejected write").
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(PMSErrorWriteRejected).
		WithMetadata(operationMetadata(vendorID, operation))
}

// RateLimitedError marks client-side throttling.
func RateLimitedError(vendorID string, operation string, source error) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryRateLimit, "pms: rate limited").
		WithCode(http.StatusTooManyRequests).
		WithTextCode(PMSErrorRateLimited).
		WithMetadata(operationMetadata(vendorID, operation))
}

// BadInputError marks caller mistakes (missing ids, malformed filters).
func BadInputError(vendorID string, operation string, message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(PMSErrorBadInput).
		WithMetadata(operationMetadata(vendorID, operation))
}

// MapError normalizes an arbitrary error into the PMS error envelope.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensurePMSErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "circuit") && strings.Contains(msg, "open"):
		return newPMSError(err.Error(), goerrors.CategoryRateLimit, PMSErrorCircuitOpen)
	case strings.Contains(msg, "throttl"), strings.Contains(msg, "rate limit"):
		return newPMSError(err.Error(), goerrors.CategoryRateLimit, PMSErrorRateLimited)
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "invalid_client"),
		strings.Contains(msg, "invalid_grant"), strings.Contains(msg, "token"):
		return newPMSError(err.Error(), goerrors.CategoryAuth, PMSErrorAuthFailed)
	case strings.Contains(msg, "signature"), strings.Contains(msg, "webhook"):
		return newPMSError(err.Error(), goerrors.CategoryAuthz, PMSErrorWebhookRejected)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newPMSError(err.Error(), goerrors.CategoryBadInput, PMSErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensurePMSErrorEnvelope(mapped)
}

func newPMSError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensurePMSErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensurePMSErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = pmsHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultPMSTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultPMSTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return PMSErrorBadInput
	case goerrors.CategoryNotFound:
		return PMSErrorVendorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return PMSErrorAuthFailed
	case goerrors.CategoryRateLimit:
		return PMSErrorRateLimited
	case goerrors.CategoryExternal:
		return PMSErrorVendorUnavailable
	case goerrors.CategoryOperation:
		return PMSErrorWriteRejected
	default:
		return PMSErrorInternal
	}
}

func pmsHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func operationMetadata(vendorID string, operation string) map[string]any {
	return map[string]any{
		"vendor_id": strings.TrimSpace(vendorID),
		"operation": strings.TrimSpace(operation),
	}
}
