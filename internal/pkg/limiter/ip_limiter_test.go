package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestLimiter(t *testing.T, r rate.Limit, b int) *IPRateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewIPRateLimiter(ctx, r, b, time.Hour)
}

func TestIPRateLimiter_BurstThenReject(t *testing.T) {
	req := require.New(t)
	l := newTestLimiter(t, rate.Limit(0.001), 2)

	req.True(l.Allow("10.0.0.1"))
	req.True(l.Allow("10.0.0.1"))
	req.False(l.Allow("10.0.0.1"))

	// a different IP has its own bucket
	req.True(l.Allow("10.0.0.2"))
	req.Equal(2, l.Size())
}

func TestIPRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	req := require.New(t)
	l := newTestLimiter(t, rate.Limit(1), 1)

	req.True(l.Allow("10.0.0.1"))
	l.GetLimiter("10.0.0.2")

	removed, remaining := l.sweep(time.Now())
	req.Equal(1, removed)
	req.Equal(1, remaining)

	removed, remaining = l.sweep(time.Now().Add(time.Minute))
	req.Equal(1, removed)
	req.Zero(remaining)
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	req := require.New(t)
	l := newTestLimiter(t, rate.Limit(0.001), 1)

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ws", nil))
	req.Equal(http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ws", nil))
	req.Equal(http.StatusTooManyRequests, second.Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:4000"
	require.Equal(t, "192.0.2.10", ClientIP(r))

	r.RemoteAddr = ""
	require.Equal(t, "unknown_ip", ClientIP(r))
}
