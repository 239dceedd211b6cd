package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeMethodNotAllowed   ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Sentinel codes.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Patent Module Error Codes
const (
	ErrCodePatentNotFound    ErrorCode = "PAT_001"
	ErrCodePatentFetchFailed ErrorCode = "PAT_005"
	ErrCodePatentParseFailed ErrorCode = "PAT_006"
)

// Data Source Error Codes. SRC_001..SRC_004 cover the external patent API,
// SRC_005 covers the litigation graph store.
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeDataSourceAuthFailed  ErrorCode = "SRC_003"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
	ErrCodeStoreUnavailable      ErrorCode = "SRC_005"
)

// Account Module Error Codes
const (
	ErrCodeEmailExists        ErrorCode = "AUTH_001"
	ErrCodeUsernameExists     ErrorCode = "AUTH_002"
	ErrCodePasswordMismatch   ErrorCode = "AUTH_003"
	ErrCodeInvalidCredentials ErrorCode = "AUTH_004"
	ErrCodeTokenExpired       ErrorCode = "AUTH_005"
	ErrCodeTokenInvalid       ErrorCode = "AUTH_006"
	ErrCodeTokenRevoked       ErrorCode = "AUTH_007"
)

// Patent Holder Module Error Codes
const (
	ErrCodeHolderInvalidScore ErrorCode = "HLD_001"
	ErrCodeHolderInvalidQuery ErrorCode = "HLD_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodePatentNotFound:    http.StatusNotFound,
	ErrCodePatentFetchFailed: http.StatusBadGateway,
	ErrCodePatentParseFailed: http.StatusBadGateway,

	ErrCodeDataSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeDataSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeDataSourceAuthFailed:  http.StatusBadGateway,
	ErrCodeDataSourceParseError:  http.StatusBadGateway,
	ErrCodeStoreUnavailable:      http.StatusServiceUnavailable,

	ErrCodeEmailExists:        http.StatusConflict,
	ErrCodeUsernameExists:     http.StatusConflict,
	ErrCodePasswordMismatch:   http.StatusBadRequest,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeHolderInvalidScore: http.StatusUnprocessableEntity,
	ErrCodeHolderInvalidQuery: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeMethodNotAllowed:   "method not allowed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodePatentNotFound:    "patent not found",
	ErrCodePatentFetchFailed: "failed to fetch patent data",
	ErrCodePatentParseFailed: "failed to parse patent data",

	ErrCodeDataSourceUnavailable: "patent data source unavailable",
	ErrCodeDataSourceRateLimited: "patent data source rate limited",
	ErrCodeDataSourceAuthFailed:  "patent data source authentication failed",
	ErrCodeDataSourceParseError:  "malformed patent data source response",
	ErrCodeStoreUnavailable:      "litigation store unavailable",

	ErrCodeEmailExists:        "email already exists",
	ErrCodeUsernameExists:     "username already exists",
	ErrCodePasswordMismatch:   "passwords do not match",
	ErrCodeInvalidCredentials: "invalid username or password",
	ErrCodeTokenExpired:       "token has expired",
	ErrCodeTokenInvalid:       "invalid token",
	ErrCodeTokenRevoked:       "token has been revoked",

	ErrCodeHolderInvalidScore: "score must be within range",
	ErrCodeHolderInvalidQuery: "invalid patent holder query",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
