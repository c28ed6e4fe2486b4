package swpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/dnscache"

	swx "github.com/solweather/swxgate/internal"
)

// maxPayload caps an upstream response body. The historical solar-cycle
// series is the largest feed at well under a megabyte; anything bigger is a
// misbehaving upstream.
const maxPayload = 8 << 20

// Client retrieves SWPC products over HTTP. It makes exactly one request
// per call: no retries, and concurrent calls for the same product are not
// coalesced.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

var _ swx.Retriever = (*Client)(nil)

// New creates a Client. If baseURL is empty it defaults to the public SWPC
// host. If client is nil a pooled client with DNS caching is built.
func New(baseURL, userAgent string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{
			Transport: NewTransport(&dnscache.Resolver{}),
			Timeout:   10 * time.Second,
		}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      client,
	}
}

// Retrieve performs one GET for the product and returns the raw payload.
// A non-2xx status yields *swx.UpstreamError with a drained body; transport
// failures are returned wrapped for the caller to classify.
func (c *Client) Retrieve(ctx context.Context, p swx.Product) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+p.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("swpc: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("swpc: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &swx.UpstreamError{
			ProductID:  p.ID,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("swpc: read response: %w", err)
	}
	return body, nil
}

// NewTransport returns a tuned *http.Transport with connection pooling and
// DNS caching. The SWPC host sits behind a CDN whose records rotate, so
// resolved addresses are reused across requests instead of re-resolved.
func NewTransport(resolver *dnscache.Resolver) *http.Transport {
	t := &http.Transport{
		MaxIdleConnsPerHost: 16,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if resolver != nil {
		t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var d net.Dialer
			return d.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
		}
	}
	return t
}
