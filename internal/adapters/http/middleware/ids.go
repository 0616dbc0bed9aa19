// Package middleware provides the gin middleware chain of the HTTP adapter.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boostclient/boostclient-service/internal/platform/logging"
)

// Request and correlation id headers and their gin context keys. The request
// id identifies one exchange; the correlation id is propagated from upstream
// callers and spans the whole business transaction.
const (
	HeaderRequestID     = "X-Request-ID"
	ContextKeyRequestID = "request_id"

	HeaderCorrelationID     = "X-Correlation-ID"
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds inbound ids so a client cannot bloat every log line.
const maxIDLength = 128

const unknownID = "unknown"

// RequestID echoes X-Request-ID, generating a UUID when the client sent none.
func RequestID() gin.HandlerFunc {
	return echoID(HeaderRequestID, ContextKeyRequestID, logging.WithRequestID)
}

// CorrelationID echoes X-Correlation-ID, generating a UUID when this request
// starts the transaction.
func CorrelationID() gin.HandlerFunc {
	return echoID(HeaderCorrelationID, ContextKeyCorrelationID, logging.WithCorrelationID)
}

// echoID stores the id under key, returns it in the response header and
// attaches it to the request logger.
func echoID(header, key string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}

// acceptableID rejects empty and oversized ids as well as anything outside
// printable ASCII.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

// GetRequestID returns the request id, or "" outside the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyRequestID)
}

// MustGetRequestID is GetRequestID with an "unknown" fallback.
func MustGetRequestID(c *gin.Context) string {
	return orUnknown(GetRequestID(c))
}

// GetCorrelationID returns the correlation id, or "" outside the
// CorrelationID middleware.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

// MustGetCorrelationID is GetCorrelationID with an "unknown" fallback.
func MustGetCorrelationID(c *gin.Context) string {
	return orUnknown(GetCorrelationID(c))
}

func getIDFromContext(c *gin.Context, key string) string {
	return c.GetString(key)
}

func orUnknown(id string) string {
	if id == "" {
		return unknownID
	}

	return id
}
