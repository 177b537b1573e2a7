package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0).bucket)
	assert.Nil(t, NewRateLimiter(-1).bucket)

	r := NewRateLimiter(0.5)
	require.NotNil(t, r.bucket)
	assert.Equal(t, 1, r.bucket.Burst())

	assert.Equal(t, 4, NewRateLimiter(4).bucket.Burst())
}

func TestRateLimiter_Wait_Throttles(t *testing.T) {
	r := NewRateLimiter(20)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 40; i++ {
		require.NoError(t, r.Wait(ctx))
	}

	// 20 burst tokens, then 20 more at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 800*time.Millisecond)
}

func TestRateLimiter_Wait_Cancelled(t *testing.T) {
	r := NewRateLimiter(0)
	r.pausedUntil = time.Now().Add(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status int
		header string
		want   time.Time
	}{
		{"seconds on 429", http.StatusTooManyRequests, "30", now.Add(30 * time.Second)},
		{"http date on 503", http.StatusServiceUnavailable, "Mon, 10 Mar 2025 12:05:00 GMT", now.Add(5 * time.Minute)},
		{"ignored on 200", http.StatusOK, "30", time.Time{}},
		{"missing header", http.StatusTooManyRequests, "", time.Time{}},
		{"garbage header", http.StatusTooManyRequests, "soon", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(0)
			r.now = func() time.Time { return now }

			resp := &http.Response{StatusCode: tt.status, Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set(HeaderRetryAfter, tt.header)
			}
			r.UpdateFromResponse(resp)

			assert.True(t, tt.want.Equal(r.PausedUntil()), "got %v want %v", r.PausedUntil(), tt.want)
		})
	}

	t.Run("nil response", func(t *testing.T) {
		NewRateLimiter(0).UpdateFromResponse(nil)
	})
}

func TestSource_RetryAfterPausesLaterRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s, err := New(srv.URL, "manifest.json", "docs")
	require.NoError(t, err)

	_, err = s.Fetch(context.Background(), "a.docx")
	require.Error(t, err)
	assert.True(t, s.limiter.PausedUntil().After(time.Now()))
}
