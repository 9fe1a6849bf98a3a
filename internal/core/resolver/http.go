package resolver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

const (
	defaultDNSRefresh  = 5 * time.Minute
	defaultDialTimeout = 10 * time.Second
)

type clientOptions struct {
	dnsRefresh  time.Duration
	dialTimeout time.Duration
}

// ClientOption configures NewHTTPClient.
type ClientOption func(*clientOptions)

// WithDNSRefresh sets how often cached DNS entries are refreshed.
// Zero or negative disables the refresh loop.
func WithDNSRefresh(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.dnsRefresh = d
	}
}

// WithDialTimeout bounds connection establishment.
func WithDialTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.dialTimeout = d
		}
	}
}

// NewHTTPClient returns a client whose dialer resolves hosts through a
// shared DNS cache. The client sets no overall timeout; each lookup is
// bounded by its own context.
func NewHTTPClient(ctx context.Context, opts ...ClientOption) *http.Client {
	options := clientOptions{
		dnsRefresh:  defaultDNSRefresh,
		dialTimeout: defaultDialTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	resolver := &dnscache.Resolver{}
	if options.dnsRefresh > 0 {
		if ctx == nil {
			ctx = context.Background()
		}
		go func() {
			ticker := time.NewTicker(options.dnsRefresh)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					resolver.Refresh(true)
				}
			}
		}()
	}

	dialer := &net.Dialer{
		Timeout:   options.dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := resolver.LookupHost(ctx, host)
				if err != nil {
					return nil, err
				}
				var lastErr error
				for _, ip := range ips {
					conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
					if err == nil {
						return conn, nil
					}
					lastErr = err
				}
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, fmt.Errorf("no addresses resolved for %s", host)
			},
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}
