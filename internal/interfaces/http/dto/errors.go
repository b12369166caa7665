package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	// ErrCodeRequestInFlight is used when a request with the same idempotency key is still running
	ErrCodeRequestInFlight = "ERR_REQUEST_IN_FLIGHT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Billing error codes
const (
	ErrCodeInvalidAmount       = "ERR_INVALID_AMOUNT"
	ErrCodeInvalidBill         = "ERR_INVALID_BILL"
	ErrCodeInvalidBillNumber   = "ERR_INVALID_BILL_NUMBER"
	ErrCodeInvalidCustomerName = "ERR_INVALID_CUSTOMER_NAME"
	ErrCodeInvalidFoodItem     = "ERR_INVALID_FOOD_ITEM"
	ErrCodeInvalidQuantity     = "ERR_INVALID_QUANTITY"
	ErrCodeInvalidPrice        = "ERR_INVALID_PRICE"
)

// Receipt printing error codes
const (
	ErrCodeInvalidPaperSize = "ERR_INVALID_PAPER_SIZE"
	ErrCodeInvalidCopies    = "ERR_INVALID_COPIES"
	ErrCodeInvalidMargins   = "ERR_INVALID_MARGINS"
	ErrCodeTemplateNotFound = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeRenderTimeout    = "ERR_RENDER_TIMEOUT"
	ErrCodeStorageFailed    = "ERR_STORAGE_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRequestInFlight: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Bill content errors -> 400 Bad Request
	ErrCodeInvalidAmount:       http.StatusBadRequest,
	ErrCodeInvalidBill:         http.StatusBadRequest,
	ErrCodeInvalidBillNumber:   http.StatusBadRequest,
	ErrCodeInvalidCustomerName: http.StatusBadRequest,
	ErrCodeInvalidFoodItem:     http.StatusBadRequest,
	ErrCodeInvalidQuantity:     http.StatusBadRequest,
	ErrCodeInvalidPrice:        http.StatusBadRequest,

	// Receipt options -> 400, rendering -> 5xx
	ErrCodeInvalidPaperSize: http.StatusBadRequest,
	ErrCodeInvalidCopies:    http.StatusBadRequest,
	ErrCodeInvalidMargins:   http.StatusBadRequest,
	ErrCodeTemplateNotFound: http.StatusInternalServerError,
	ErrCodeRenderFailed:     http.StatusInternalServerError,
	ErrCodeRenderTimeout:    http.StatusGatewayTimeout,
	ErrCodeStorageFailed:    http.StatusBadGateway,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the codes raised by the domain and the
// printing infrastructure to the API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"FILE_NOT_FOUND":         ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"CONFLICT":               ErrCodeConflict,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"INVALID_AMOUNT":         ErrCodeInvalidAmount,
	"INVALID_BILL":           ErrCodeInvalidBill,
	"INVALID_BILL_NUMBER":    ErrCodeInvalidBillNumber,
	"INVALID_CUSTOMER_NAME":  ErrCodeInvalidCustomerName,
	"INVALID_FOOD_ITEM":      ErrCodeInvalidFoodItem,
	"INVALID_FOOD_ITEM_NAME": ErrCodeInvalidFoodItem,
	"INVALID_QUANTITY":       ErrCodeInvalidQuantity,
	"INVALID_PRICE":          ErrCodeInvalidPrice,
	"INVALID_PAPER_SIZE":     ErrCodeInvalidPaperSize,
	"INVALID_COPIES":         ErrCodeInvalidCopies,
	"INVALID_MARGINS":        ErrCodeInvalidMargins,
	"INVALID_PDF_URL":        ErrCodeInvalidInput,
	"TEMPLATE_NOT_FOUND":     ErrCodeTemplateNotFound,
	"INVALID_HTML":           ErrCodeRenderFailed,
	"RENDER_FAILED":          ErrCodeRenderFailed,
	"RENDER_TIMEOUT":         ErrCodeRenderTimeout,
	"STORAGE_FAILED":         ErrCodeStorageFailed,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
