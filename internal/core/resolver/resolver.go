// Package resolver performs single-name availability lookups against a
// crates.io compatible registry.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cargofree/cargo-free/internal/core"
)

const (
	// DefaultBaseURL is the public crates.io registry.
	DefaultBaseURL = "https://crates.io"

	// DefaultTimeout bounds a lookup when the caller supplies none.
	DefaultTimeout = 5 * time.Second

	crateEndpoint = "/api/v1/crates/"
	maxDrainBytes = 64 << 10
)

// Resolver looks up crate names on a registry.
type Resolver struct {
	Client      *http.Client
	BaseURL     string
	UserAgent   string
	ToolVersion string
	Clock       func() time.Time
}

// Resolve returns the availability of name, or core.ErrEmptyName / a
// *core.TimeoutError. Every other transport failure yields
// core.AvailabilityUnknown with a nil error.
func (r *Resolver) Resolve(ctx context.Context, name string, timeout time.Duration) (core.Availability, error) {
	result := r.Lookup(ctx, name, timeout)
	return result.Availability, result.Err
}

// Lookup performs one registry request for name and reports the verdict
// together with the observed status code and elapsed time.
func (r *Resolver) Lookup(ctx context.Context, name string, timeout time.Duration) (result core.LookupResult) {
	result = core.LookupResult{Name: name, Availability: core.AvailabilityUnknown}
	if name == "" {
		result.Err = core.ErrEmptyName
		return result
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	startedAt := r.now()
	defer func() {
		result.Elapsed = r.now().Sub(startedAt)
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.CrateURL(name), nil)
	if err != nil {
		return result
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent())

	resp, err := r.client().Do(req)
	if err != nil {
		if isTimeout(err) {
			result.Err = &core.TimeoutError{Timeout: timeout}
		}
		return result
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	result.StatusCode = resp.StatusCode
	availability, err := Classify(resp.StatusCode, timeout)
	result.Availability = availability
	result.Err = err
	return result
}

// Classify maps a registry status code to a verdict. 408 is reported as a
// timeout error rather than a verdict.
func Classify(statusCode int, timeout time.Duration) (core.Availability, error) {
	switch statusCode {
	case http.StatusOK:
		return core.AvailabilityUnavailable, nil
	case http.StatusNotFound:
		return core.AvailabilityAvailable, nil
	case http.StatusRequestTimeout:
		return core.AvailabilityUnknown, &core.TimeoutError{Timeout: timeout}
	default:
		return core.AvailabilityUnknown, nil
	}
}

// CrateURL builds the lookup target for name. The name is percent-encoded
// as a single path segment.
func (r *Resolver) CrateURL(name string) string {
	return r.baseURL() + crateEndpoint + url.PathEscape(name)
}

func (r *Resolver) baseURL() string {
	if r != nil && strings.TrimSpace(r.BaseURL) != "" {
		return strings.TrimSuffix(strings.TrimSpace(r.BaseURL), "/")
	}
	return DefaultBaseURL
}

func (r *Resolver) client() *http.Client {
	if r != nil && r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *Resolver) userAgent() string {
	if r != nil && strings.TrimSpace(r.UserAgent) != "" {
		return r.UserAgent
	}
	return fmt.Sprintf("cargo-free/%s", r.toolVersion())
}

func (r *Resolver) toolVersion() string {
	if r != nil && r.ToolVersion != "" {
		return r.ToolVersion
	}
	return "unknown"
}

func (r *Resolver) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
