package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func parse(t *testing.T, body string) (*RequestBodyParser, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return ParseJSONBody(httptest.NewRecorder(), r)
}

func TestParseJSONBody(t *testing.T) {
	p, err := parse(t, `{"user_id": 42, "amount": 12.50, "name": "  Ada\u0007 ", "flag": true, "nothing": null, "big": 12345678901234567890}`)
	require.NoError(t, err)

	id, err := p.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "12.50", p.Get("amount"), "numbers keep their literal text")
	assert.Equal(t, "Ada", p.Get("name"))
	assert.Equal(t, "true", p.Get("flag"))
	assert.Equal(t, "", p.Get("nothing"))
	assert.False(t, p.Has("nothing"))
	assert.True(t, p.Has("amount"))
	assert.Equal(t, "12345678901234567890", p.Get("big"))
	assert.Equal(t, "", p.Get("absent"))
}

func TestParseJSONBodyEdgeCases(t *testing.T) {
	p, err := parse(t, "")
	require.NoError(t, err)
	_, err = p.UserID()
	assert.ErrorIs(t, err, core.ErrMissingField)

	p, err = parse(t, "null")
	require.NoError(t, err)
	assert.False(t, p.Has("user_id"))

	for _, bad := range []string{"{", "[1,2]", `"str"`} {
		_, err := parse(t, bad)
		assert.ErrorIs(t, err, errMalformedBody, bad)
	}

	_, err = parse(t, `{"x":"`+strings.Repeat("a", maxBodyBytes)+`"}`)
	assert.ErrorIs(t, err, errMalformedBody)
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseUserID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrMissingField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/get_budget?user_id=%2012%20", nil)
	id, err := QueryUserID(r)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}

func TestResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(http.StatusTeapot, "short and stout").Header("X-Test", "1").Write(rr)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "1", rr.Header().Get("X-Test"))
	assert.JSONEq(t, `{"status":"error","message":"short and stout"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	Success().Field("labels", []string{}).Write(rr)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","labels":[]}`, rr.Body.String())
}
