package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the standardized API response envelope.
type Response struct {
	Data       interface{} `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	// Redirect tells the client where to navigate, e.g. the sign-in page
	// after the session ended.
	Redirect string `json:"redirect,omitempty"`
}

// Pagination holds pagination information.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Metadata includes request tracing, timing and user notifications.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
	Notice    Notice `json:"notice,omitempty"`
	// Refetch is set after a successful mutation: the list the client holds
	// is stale and must be requested again.
	Refetch bool `json:"refetch,omitempty"`
}

// Option decorates a Response before it is written.
type Option func(*Response)

// WithNotice attaches a user notification.
func WithNotice(n Notice) Option {
	return func(r *Response) { r.Metadata.Notice = n }
}

// WithRefetch marks the client's list as stale.
func WithRefetch() Option {
	return func(r *Response) { r.Metadata.Refetch = true }
}

// WithFields attaches field-level validation details to an error.
func WithFields(fields map[string]string) Option {
	return func(r *Response) {
		if r.Error != nil {
			r.Error.Fields = fields
		}
	}
}

// WithRedirect tells the client where to navigate next.
func WithRedirect(path string) Option {
	return func(r *Response) {
		if r.Error != nil {
			r.Error.Redirect = path
		}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful JSON response with the given status code and data.
func Success(c *gin.Context, statusCode int, data interface{}, opts ...Option) {
	c.JSON(statusCode, build(c, data, nil, opts))
}

// SuccessWithPagination sends a successful response with pagination metadata.
func SuccessWithPagination(c *gin.Context, statusCode int, data interface{}, pagination *Pagination, opts ...Option) {
	r := build(c, data, nil, opts)
	r.Pagination = pagination
	c.JSON(statusCode, r)
}

// Fail sends an error response with an error code.
func Fail(c *gin.Context, statusCode int, code ErrCode, opts ...Option) {
	c.JSON(statusCode, build(c, nil, &ErrorBody{Code: code, Message: GetMessage(code)}, opts))
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string, opts ...Option) {
	Fail(c, statusCode, code, append(opts, WithFields(fields))...)
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode, opts ...Option) {
	c.AbortWithStatusJSON(statusCode, build(c, nil, &ErrorBody{Code: code, Message: GetMessage(code)}, opts))
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func build(c *gin.Context, data interface{}, errBody *ErrorBody, opts []Option) Response {
	r := Response{Data: data, Error: errBody, Metadata: buildMetadata(c)}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func buildMetadata(c *gin.Context) Metadata {
	id := RequestID(c)
	if id == "" {
		id = uuid.NewString()
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
