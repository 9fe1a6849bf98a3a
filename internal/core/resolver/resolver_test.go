package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cargofree/cargo-free/internal/core"
)

func newRegistry(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestResolverClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected core.Availability
		timeout  bool
	}{
		{"taken", http.StatusOK, core.AvailabilityUnavailable, false},
		{"free", http.StatusNotFound, core.AvailabilityAvailable, false},
		{"request-timeout", http.StatusRequestTimeout, core.AvailabilityUnknown, true},
		{"server-error", http.StatusInternalServerError, core.AvailabilityUnknown, false},
		{"rate-limited", http.StatusTooManyRequests, core.AvailabilityUnknown, false},
		{"forbidden", http.StatusForbidden, core.AvailabilityUnknown, false},
		{"redirect-free", http.StatusNoContent, core.AvailabilityUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			resolver := &Resolver{Client: server.Client(), BaseURL: server.URL}
			availability, err := resolver.Resolve(context.Background(), "some-crate", time.Second)
			require.Equal(t, int32(1), atomic.LoadInt32(calls))
			require.Equal(t, tt.expected, availability)
			if tt.timeout {
				var timeoutErr *core.TimeoutError
				require.ErrorAs(t, err, &timeoutErr)
				require.Equal(t, time.Second, timeoutErr.Timeout)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolverEmptyNameSkipsNetwork(t *testing.T) {
	server, calls := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL}
	for _, timeout := range []time.Duration{0, -time.Second, time.Millisecond, DefaultTimeout} {
		_, err := resolver.Resolve(context.Background(), "", timeout)
		require.ErrorIs(t, err, core.ErrEmptyName)
	}
	require.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestResolverTimeout(t *testing.T) {
	server, _ := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL}
	startedAt := time.Now()
	result := resolver.Lookup(context.Background(), "slow", 20*time.Millisecond)
	require.Less(t, time.Since(startedAt), time.Second)

	require.ErrorIs(t, result.Err, core.ErrTimeout)
	var timeoutErr *core.TimeoutError
	require.ErrorAs(t, result.Err, &timeoutErr)
	require.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
	require.Equal(t, "slow", result.Name)
}

func TestResolverTransportFailureIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	resolver := &Resolver{BaseURL: baseURL}
	availability, err := resolver.Resolve(context.Background(), "serde", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.AvailabilityUnknown, availability)
}

func TestResolverEscapesPathSegment(t *testing.T) {
	seen := make(chan string, 1)
	server, _ := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		seen <- r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL + "/"}
	availability, err := resolver.Resolve(context.Background(), "a/b c?d#e", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.AvailabilityAvailable, availability)
	require.Equal(t, "/api/v1/crates/a%2Fb%20c%3Fd%23e", <-seen)
}

func TestResolverSendsWhitespaceNameAsIs(t *testing.T) {
	seen := make(chan string, 1)
	server, calls := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		seen <- r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL}
	_, err := resolver.Resolve(context.Background(), "  ", time.Second)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(calls))
	require.Equal(t, "/api/v1/crates/%20%20", <-seen)
}

func TestResolverHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	server, _ := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL, ToolVersion: "1.2.3"}
	_, err := resolver.Resolve(context.Background(), "serde", time.Second)
	require.NoError(t, err)

	got := <-headers
	require.Equal(t, "cargo-free/1.2.3", got.Get("User-Agent"))
	require.Equal(t, "application/json", got.Get("Accept"))

	resolver.UserAgent = "custom-agent (ops@example.com)"
	_, err = resolver.Resolve(context.Background(), "serde", time.Second)
	require.NoError(t, err)
	require.Equal(t, "custom-agent (ops@example.com)", (<-headers).Get("User-Agent"))
}

func TestResolverLookupReportsStatusAndElapsed(t *testing.T) {
	server, _ := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ticks := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, int(150*time.Millisecond), time.UTC),
	}
	clock := func() time.Time {
		next := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return next
	}

	resolver := &Resolver{Client: server.Client(), BaseURL: server.URL, Clock: clock}
	result := resolver.Lookup(context.Background(), "fresh", time.Second)
	require.True(t, result.OK())
	require.Equal(t, http.StatusNotFound, result.StatusCode)
	require.Equal(t, 150*time.Millisecond, result.Elapsed)
}

func TestResolverDefaultsTimeout(t *testing.T) {
	var deadline time.Time
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		deadline, _ = r.Context().Deadline()
		return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody, Request: r}, nil
	})}

	resolver := &Resolver{Client: client}
	startedAt := time.Now()
	availability, err := resolver.Resolve(context.Background(), "fresh", 0)
	require.NoError(t, err)
	require.Equal(t, core.AvailabilityAvailable, availability)
	require.WithinDuration(t, startedAt.Add(DefaultTimeout), deadline, time.Second)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestCrateURLDefaultsToCratesIO(t *testing.T) {
	resolver := &Resolver{}
	require.Equal(t, "https://crates.io/api/v1/crates/serde", resolver.CrateURL("serde"))
}

func TestNewHTTPClientResolvesThroughCache(t *testing.T) {
	server, _ := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewHTTPClient(ctx, WithDNSRefresh(time.Minute), WithDialTimeout(time.Second))
	resolver := &Resolver{Client: client, BaseURL: server.URL}
	availability, err := resolver.Resolve(ctx, "serde", time.Second)
	require.NoError(t, err)
	require.Equal(t, core.AvailabilityUnavailable, availability)
}
