// Package transport provides the shared HTTP client used by the marketplace
// and supplier collaborators. It applies authentication, sets JSON headers,
// and maps transport failures and non-2xx responses to SourceErrors so
// callers surface a uniform "source unavailable" taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopsync/shopsync/pkg/errors"
)

// DefaultTimeout bounds every request made through the client.
const DefaultTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	source string
}

// New creates a new transport client for the named source with the
// specified authenticator.
func New(source string, auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		auth:   auth,
		source: source,
	}
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewSourceError(c.source, req.URL.String(), 0, err)
	}
	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, url, in, out)
}

// PutJSON performs a PUT request with a JSON body and decodes the JSON
// response into out.
func (c *Client) PutJSON(ctx context.Context, url string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, url, in, out)
}

// Download performs a GET request and returns the raw response body.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapSource(c.source, url, err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close on read path

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewSourceError(c.source, url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapSource(c.source, url, err)
	}
	return body, nil
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.WrapSource(c.source, url, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.WrapSource(c.source, url, err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close on read path

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewSourceError(c.source, url, resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapSource(c.source, url, err)
	}
	return nil
}
