// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for reading JSON bodies and query
// parameters. Clients send ids and amounts either as JSON numbers or as
// strings, so every value is read back as text and parsed by the domain.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// maxBodyBytes bounds request bodies; every payload of this API is tiny.
const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed JSON body")

// RequestBodyParser reads a JSON object body once and exposes its fields.
type RequestBodyParser struct {
	data map[string]any
}

// ParseJSONBody decodes r's body. An empty body yields an empty object, like
// a client that sent no fields at all.
func ParseJSONBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	p := &RequestBodyParser{data: map[string]any{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&p.data); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if p.data == nil {
		p.data = map[string]any{}
	}
	return p, nil
}

// Get returns the trimmed text of key, or "" when absent or null.
func (p *RequestBodyParser) Get(key string) string {
	val, ok := p.data[key]
	if !ok {
		return ""
	}
	return sanitizeInput(stringValue(val))
}

// Has reports whether key is present with a non-null value.
func (p *RequestBodyParser) Has(key string) bool {
	val, ok := p.data[key]
	return ok && val != nil
}

// UserID parses the user_id field.
func (p *RequestBodyParser) UserID() (int64, error) {
	return parseUserID(p.Get("user_id"))
}

// QueryUserID parses the user_id query parameter.
func QueryUserID(r *http.Request) (int64, error) {
	return parseUserID(sanitizeInput(r.URL.Query().Get("user_id")))
}

// parseUserID accepts positive integers only; anything else is treated as a
// missing id.
func parseUserID(s string) (int64, error) {
	if s == "" {
		return 0, core.ErrMissingField
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user_id %q: %w", s, core.ErrMissingField)
	}
	return id, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
