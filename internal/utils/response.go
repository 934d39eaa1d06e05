package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key carrying the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader lets callers correlate their own ids with ours.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 64
)

// WAT is West Africa Time (UTC+1), the storefront's display timezone.
var WAT = time.FixedZone("WAT", 1*3600)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo names the machine readable failure.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope(c, status, message, data, nil))
}

func Error(c *gin.Context, status int, errCode, message string) {
	ErrorWithData(c, status, errCode, message, nil)
}

// ErrorWithData writes a failure that still carries a payload, e.g. the
// purchase snapshot alongside a validation reason.
func ErrorWithData(c *gin.Context, status int, errCode, message string, data interface{}) {
	c.JSON(status, envelope(c, status, message, data, &ErrorInfo{Code: errCode, Message: message}))
}

// AbortWithError writes a failure and stops the handler chain.
func AbortWithError(c *gin.Context, status int, errCode, message string) {
	c.AbortWithStatusJSON(status, envelope(c, status, message, nil, &ErrorInfo{Code: errCode, Message: message}))
}

func envelope(c *gin.Context, status int, message string, data interface{}, errInfo *ErrorInfo) Response {
	return Response{
		Success: errInfo == nil,
		Code:    status,
		Message: message,
		Data:    data,
		Error:   errInfo,
		Meta: Meta{
			RequestID: RequestID(c),
			Timestamp: NowISO(),
		},
	}
}

// RequestID returns the id stored on c, adopting the caller's X-Request-ID
// header or minting a short one on first use.
func RequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()[:8]
	}
	c.Set(RequestIDKey, id)
	return id
}

// NowISO formats the current time in WAT.
func NowISO() string {
	return time.Now().In(WAT).Format(time.RFC3339)
}
