package providers

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// maxErrorBody caps how much of an upstream error body is kept for the
// attempt trail.
const maxErrorBody = 2048

// httpClient is a small wrapper around http.Client shared by the adapters.
type httpClient struct {
	http *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &httpClient{http: &http.Client{Timeout: timeout, Transport: transport}}
}

// do executes one upstream call and returns the raw body on 2xx. Any other
// outcome becomes an *UpstreamError carrying the truncated body.
func (c *httpClient) do(ctx context.Context, provider, method, url string, headers map[string]string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, URL: url, Body: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, URL: url, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Provider: provider, URL: url, Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b := data
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return nil, &UpstreamError{Provider: provider, URL: url, Status: resp.StatusCode, Body: string(b)}
	}
	return data, nil
}
