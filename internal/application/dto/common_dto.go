// Package dto holds the request and response shapes of the shipment API.
// Every response is wrapped in an APIResponse envelope so clients can
// branch on Success before looking at Data or Error.
package dto

// Error codes returned in APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeTrackingExhausted  = "TRACKING_NUMBER_EXHAUSTED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	CodeTimeout            = "TIMEOUT"
)

// APIResponse is the envelope around every payload the API returns.
type APIResponse[T any] struct {
	Success bool          `json:"success"`
	Data    T             `json:"data,omitempty"`
	Error   *APIError     `json:"error,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// APIError describes why a request failed.
type APIError struct {
	// Code is one of the Code* constants and is stable across releases.
	Code string `json:"code"`

	Message string `json:"message"`

	// ValidationErrors is set for CodeValidation only.
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// ValidationError points at a single rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ResponseMeta carries request correlation data.
type ResponseMeta struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PaginateResponse is one page of a shipment listing.
type PaginateResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewSuccessResponse wraps data in a successful envelope.
//
// Parameters:
//   - data: The payload
//
// Returns:
//   - APIResponse[T]: envelope with Success set
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: data}
}

// NewErrorResponse builds a failed envelope with a code and message.
func NewErrorResponse[T any](code, message string) APIResponse[T] {
	return APIResponse[T]{Error: &APIError{Code: code, Message: message}}
}

// NewValidationErrorResponse builds a CodeValidation envelope listing the
// rejected fields.
func NewValidationErrorResponse[T any](fields []ValidationError) APIResponse[T] {
	return APIResponse[T]{
		Error: &APIError{
			Code:             CodeValidation,
			Message:          "Request validation failed",
			ValidationErrors: fields,
		},
	}
}

// WithMeta returns a copy of the response carrying meta.
func (r APIResponse[T]) WithMeta(meta *ResponseMeta) APIResponse[T] {
	r.Meta = meta
	return r
}

// NewPaginateResponse builds a page of items.
//
// Parameters:
//   - items: the items in this page
//   - total: the number of items across all pages
//   - limit: page size
//   - offset: index of the first item
//
// Returns:
//   - PaginateResponse[T]: the page
func NewPaginateResponse[T any](items []T, total int64, limit, offset int) PaginateResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PaginateResponse[T]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	}
}

// HealthResponse is returned by /health and /ready.
type HealthResponse struct {
	// Status is "healthy" for /health, "ready" or "not_ready" for /ready.
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Checks is keyed by dependency name (database, redis).
	Checks map[string]HealthCheckResult `json:"checks,omitempty"`
}

// HealthCheckResult is the outcome of pinging one dependency.
type HealthCheckResult struct {
	// Status is "up" or "down".
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime int64  `json:"response_time_ms,omitempty"`
}
