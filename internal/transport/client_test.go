package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, constants.DefaultHTTPTimeout, c.Timeout())
	assert.Equal(t, constants.UserAgent, c.userAgent)

	c = New(WithTimeout(3*time.Second), WithUserAgent("test-agent"))
	assert.Equal(t, 3*time.Second, c.Timeout())
	assert.Equal(t, "test-agent", c.userAgent)
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "bag", "count": 3}`))
	}))
	defer server.Close()

	c := New(WithUserAgent("test-agent"))
	var got payload
	require.NoError(t, c.GetJSON(context.Background(), "catalog", server.URL, &got))
	assert.Equal(t, payload{Name: "bag", Count: 3}, got)
}

func TestGetJSON_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
	}{
		{"server error", http.StatusInternalServerError, "boom", false},
		{"not found", http.StatusNotFound, "", false},
		{"rate limited", http.StatusTooManyRequests, "slow down", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var got payload
			err := New().GetJSON(context.Background(), "prices", server.URL, &got)
			require.Error(t, err)

			var fetchErr *errors.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, "prices", fetchErr.Source)
			assert.True(t, errors.Is(err, errors.ErrFetchFailed))
			assert.Equal(t, tt.rateLimited, errors.Is(err, errors.ErrRateLimited))
			assert.False(t, errors.IsTimeout(err))
			if tt.body == "" {
				assert.Equal(t, http.StatusText(tt.status), fetchErr.Message)
			}
		})
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name": `))
	}))
	defer server.Close()

	var got payload
	err := New().GetJSON(context.Background(), "catalog", server.URL, &got)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))

	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestGetJSON_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	var got payload
	err := New(WithTimeout(50*time.Millisecond)).GetJSON(context.Background(), "catalog", server.URL, &got)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.True(t, errors.IsTimeout(err))
}

func TestGetJSON_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var got payload
	err := New().GetJSON(ctx, "catalog", server.URL, &got)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

func TestGetJSON_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	var got payload
	err := New().GetJSON(context.Background(), "catalog", url, &got)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.False(t, errors.IsTimeout(err))
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(errors.New("plain")))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
}
