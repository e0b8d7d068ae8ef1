// Package http exposes the JSON API over net/http.
//
// This file implements the builder used by every handler to produce the
// {"status": ..., "message": ...} envelope the clients expect.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
// Fields are written at the top level next to "status" and "message".
type JSONResponseBuilder struct {
	statusCode int
	fields     map[string]any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		fields:     make(map[string]any),
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Field sets a top-level key of the body.
func (b *JSONResponseBuilder) Field(key string, value any) *JSONResponseBuilder {
	b.fields[key] = value
	return b
}

func (b *JSONResponseBuilder) Message(msg string) *JSONResponseBuilder {
	return b.Field("message", msg)
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(b.fields)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","message":"Internal server error"}`))
		return
	}

	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
}

// Success starts a 200 response with status "success".
func Success() *JSONResponseBuilder {
	return NewJSONResponse().Field("status", statusSuccess)
}

// SuccessMessage is Success with a human readable message.
func SuccessMessage(msg string) *JSONResponseBuilder {
	return Success().Message(msg)
}

// ErrorResponse creates a standard error envelope.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Field("status", statusError).
		Message(message)
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "Internal server error")
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}
