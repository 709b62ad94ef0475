package internal

import (
	"log/slog"
	"net/http"
	"strings"
)

// errorResponse is the JSON body written for clients that accept JSON.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Code      int    `json:"code"`
}

// DefaultErrorHandler renders errors returned by the chain or by handlers.
// HTTPError headers are copied verbatim before the status line is written.
// Errors that carry no HTTPError are rendered as 500 without exposing the cause.
func DefaultErrorHandler(c Context, err error) error {
	if c.Written() {
		return nil
	}

	he := AsHTTPError(err)
	if he == nil {
		he = ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
	}

	code := he.Code
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}

	attrs := []any{
		slog.Int("status", code),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", err),
	}
	if he.Detail != "" {
		attrs = append(attrs, slog.String("detail", he.Detail))
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogWarn("request rejected", attrs...)
	}

	h := c.Response().Header()
	for name, values := range he.Headers {
		h.Del(name)
		for _, v := range values {
			h.Add(name, v)
		}
	}

	msg := he.Message
	if msg == "" {
		msg = http.StatusText(code)
	}

	if strings.Contains(c.Header("Accept"), "application/json") {
		return c.JSON(code, errorResponse{Error: msg, RequestID: he.RequestID, Code: code})
	}
	return c.String(code, msg)
}
