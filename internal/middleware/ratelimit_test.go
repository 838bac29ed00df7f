package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name        string
		burst       int
		requests    int
		path        string
		apiKey      string
		expectedOK  int
		expect429At int
	}{
		{
			name:        "Within burst",
			burst:       3,
			requests:    3,
			path:        "/api/reports/unique-product-codes",
			apiKey:      "client-a",
			expectedOK:  3,
			expect429At: -1,
		},
		{
			name:        "Over burst",
			burst:       2,
			requests:    4,
			path:        "/api/reports/unique-product-codes",
			apiKey:      "client-a",
			expectedOK:  2,
			expect429At: 2,
		},
		{
			name:        "Health is never limited",
			burst:       1,
			requests:    5,
			path:        "/health",
			expectedOK:  5,
			expect429At: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewLimiterStore(0.001, tt.burst)
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := RateLimit(store, "client-a", logger)(testHandler)

			ok := 0
			first429 := -1
			for i := 0; i < tt.requests; i++ {
				req := httptest.NewRequest(http.MethodGet, tt.path, nil)
				if tt.apiKey != "" {
					req.Header.Set("X-API-Key", tt.apiKey)
				}
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					ok++
				case http.StatusTooManyRequests:
					if first429 < 0 {
						first429 = i
						assert.NotEmpty(t, w.Header().Get("Retry-After"))
						assert.Contains(t, w.Body.String(), "RATE_LIMITED")
					}
				default:
					t.Fatalf("unexpected status %d", w.Code)
				}
			}

			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expect429At, first429)
		})
	}
}

func TestRateLimit_SeparateBucketsPerClient(t *testing.T) {
	store := NewLimiterStore(0.001, 1)
	handler := RateLimit(store, "secret", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		apiKey     string
		remoteAddr string
	}{
		{name: "Configured key", apiKey: "secret", remoteAddr: "10.0.0.1:1000"},
		{name: "Anonymous host", remoteAddr: "10.0.0.1:1001"},
		{name: "Other host", remoteAddr: "10.0.0.2:1000"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/unique-product-codes", nil)
		req.RemoteAddr = tt.remoteAddr
		if tt.apiKey != "" {
			req.Header.Set("X-API-Key", tt.apiKey)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, tt.name)
	}

	assert.Equal(t, 3, store.Len())
}

func TestRateLimit_UnknownKeysShareHostBucket(t *testing.T) {
	store := NewLimiterStore(0.001, 2)
	handler := RateLimit(store, "secret", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/unique-product-codes", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-API-Key", fmt.Sprintf("guess-%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 18, limited)
	assert.Equal(t, 1, store.Len())
}

func TestRateLimit_NilStoreDisables(t *testing.T) {
	called := 0
	handler := RateLimit(nil, "secret", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
	}))

	for i := 0; i < 10; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))
	}

	assert.Equal(t, 10, called)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		configured string
		remoteAddr string
		expected   string
	}{
		{name: "Configured key", apiKey: "abc", configured: "abc", remoteAddr: "10.0.0.1:1234", expected: "key"},
		{name: "Unknown key falls back to host", apiKey: "nope", configured: "abc", remoteAddr: "10.0.0.1:1234", expected: "ip:10.0.0.1"},
		{name: "No server key configured", apiKey: "abc", configured: "", remoteAddr: "10.0.0.1:1234", expected: "ip:10.0.0.1"},
		{name: "Remote host", configured: "abc", remoteAddr: "10.0.0.1:1234", expected: "ip:10.0.0.1"},
		{name: "Remote addr without port", remoteAddr: "10.0.0.2", expected: "ip:10.0.0.2"},
		{name: "Nothing known", remoteAddr: "", expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			assert.Equal(t, tt.expected, clientKey(req, tt.configured))
		})
	}
}

func TestLimiterStore_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewLimiterStore(1, 1)
	store.now = func() time.Time { return now }

	store.Get("old")
	now = now.Add(20 * time.Minute)
	store.Get("fresh")

	store.Cleanup()

	assert.Equal(t, 1, store.Len())
	store.mu.Lock()
	_, ok := store.entries["fresh"]
	store.mu.Unlock()
	require.True(t, ok)
}

func TestLimiterStore_JanitorStops(t *testing.T) {
	store := NewLimiterStore(1, 1)
	store.cleanupEvery = time.Millisecond
	store.idleTTL = 0

	ctx, cancel := context.WithCancel(context.Background())
	store.Get("a")
	store.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}
