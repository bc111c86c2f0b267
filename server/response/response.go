package response

import (
	"errors"
	"net/http"

	"latency_optimizer/server/logger"
	"latency_optimizer/server/optimizer"

	"github.com/labstack/echo/v4"
)

// ErrorCode represents application error codes
type ErrorCode string

const (
	// General errors
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeTooManyRequests     ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"

	// Auth errors
	ErrCodeTokenInvalid ErrorCode = "TOKEN_INVALID"

	// Network input errors
	ErrCodeInvalidNodeCount ErrorCode = "INVALID_NODE_COUNT"
	ErrCodeInvalidEdge      ErrorCode = "INVALID_EDGE"
	ErrCodeSelfLoop         ErrorCode = "SELF_LOOP_NOT_ALLOWED"
	ErrCodeNotATree         ErrorCode = "NOT_A_TREE"
	ErrCodeGraphTooLarge    ErrorCode = "GRAPH_TOO_LARGE"
	ErrCodeInvalidEdgeList  ErrorCode = "INVALID_EDGE_LIST"
)

// Response is the envelope of every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody contains error details
type ErrorBody struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta carries list and cache information
type Meta struct {
	Total  int  `json:"total"`
	Cached bool `json:"cached,omitempty"`
}

func errorJSON(c echo.Context, status int, code ErrorCode, message string, details interface{}) error {
	return c.JSON(status, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// --- Error Response Helpers ---

// BadRequest returns a 400 Bad Request error response
func BadRequest(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Bad Request: %s", code, message)
	return errorJSON(c, http.StatusBadRequest, code, message, getDetails(details))
}

// Unauthorized returns a 401 Unauthorized error response
func Unauthorized(c echo.Context, code ErrorCode, message string) error {
	logger.Warnf("[%s] Unauthorized: %s", code, message)
	return errorJSON(c, http.StatusUnauthorized, code, message, nil)
}

// NotFound returns a 404 Not Found error response
func NotFound(c echo.Context, message string) error {
	logger.Warnf("[%s] Not Found: %s", ErrCodeNotFound, message)
	return errorJSON(c, http.StatusNotFound, ErrCodeNotFound, message, nil)
}

// PayloadTooLarge returns a 413 response for graphs above the configured limits
func PayloadTooLarge(c echo.Context, message string, details interface{}) error {
	logger.Warnf("[%s] Payload Too Large: %s", ErrCodeGraphTooLarge, message)
	return errorJSON(c, http.StatusRequestEntityTooLarge, ErrCodeGraphTooLarge, message, details)
}

// TooManyRequests returns a 429 response with the retry delay in seconds
func TooManyRequests(c echo.Context, message string, retryAfter float64) error {
	logger.Warnf("[%s] %s", ErrCodeTooManyRequests, message)
	return errorJSON(c, http.StatusTooManyRequests, ErrCodeTooManyRequests, message, echo.Map{"retry_after": retryAfter})
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c echo.Context, message string, err error) error {
	if err != nil {
		logger.ErrorErr(err, message)
	} else {
		logger.Errorf("[%s] Internal Server Error: %s", ErrCodeInternalServerError, message)
	}
	return errorJSON(c, http.StatusInternalServerError, ErrCodeInternalServerError, message, nil)
}

// ValidationError returns a 400 Bad Request with validation details
func ValidationError(c echo.Context, message string, details interface{}) error {
	logger.Warnf("[VALIDATION] %s: %v", message, details)
	return errorJSON(c, http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// --- Success Response Helpers ---

// Success returns a 200 OK success response with data
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a 200 OK success response with data and meta
func SuccessWithMeta(c echo.Context, data interface{}, meta *Meta) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func getDetails(details []interface{}) interface{} {
	if len(details) > 0 {
		return details[0]
	}
	return nil
}

// --- Custom Error Type ---

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FromOptimizerError translates a core validation failure into an AppError.
// Anything the core does not define is treated as internal.
func FromOptimizerError(err error) *AppError {
	var details interface{}
	var edgeErr *optimizer.EdgeError
	if errors.As(err, &edgeErr) {
		details = echo.Map{"index": edgeErr.Index, "edge": edgeErr.Edge}
	}

	switch {
	case errors.Is(err, optimizer.ErrInvalidNodeCount):
		return &AppError{Code: ErrCodeInvalidNodeCount, Message: "Node count must be a positive integer", Err: err}
	case errors.Is(err, optimizer.ErrSelfLoopNotAllowed):
		return &AppError{Code: ErrCodeSelfLoop, Message: "Self-loops are not allowed", Err: err, Details: details}
	case errors.Is(err, optimizer.ErrInvalidEdge):
		return &AppError{Code: ErrCodeInvalidEdge, Message: "Invalid edge", Err: err, Details: details}
	case errors.Is(err, optimizer.ErrNotATree):
		return &AppError{Code: ErrCodeNotATree, Message: "Network must be a single tree", Err: err, Details: err.Error()}
	default:
		return &AppError{Code: ErrCodeInternalServerError, Message: "Optimization failed", Err: err}
	}
}

// HandleAppError handles AppError and returns appropriate HTTP response
func HandleAppError(c echo.Context, appErr *AppError) error {
	switch appErr.Code {
	case ErrCodeBadRequest, ErrCodeValidationFailed, ErrCodeInvalidNodeCount,
		ErrCodeInvalidEdge, ErrCodeSelfLoop, ErrCodeNotATree, ErrCodeInvalidEdgeList:
		return BadRequest(c, appErr.Code, appErr.Message, appErr.Details)
	case ErrCodeGraphTooLarge:
		return PayloadTooLarge(c, appErr.Message, appErr.Details)
	case ErrCodeUnauthorized, ErrCodeTokenInvalid:
		return Unauthorized(c, appErr.Code, appErr.Message)
	case ErrCodeNotFound:
		return NotFound(c, appErr.Message)
	default:
		return InternalServerError(c, appErr.Message, appErr.Err)
	}
}
