// Package spravportal provides a client for the SpravPortal "whocalls" phone
// reputation API.
package spravportal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultURL is the whocalls check endpoint.
const DefaultURL = "https://b2b-api-stage-05.spravportal.ru/whocalls/check"

// Client defines the SpravPortal operations used by the classifier.
type Client interface {
	// Check submits one phone number and returns the raw per-phone entry.
	Check(ctx context.Context, phone string) (*CheckResponse, error)
}

// CheckRequest is the body sent to the check endpoint.
type CheckRequest struct {
	Phones []string    `json:"phones"`
	Params CheckParams `json:"params"`
}

// CheckParams are the display flags requested with every check.
type CheckParams struct {
	AllowOrganizations bool `json:"allowOrganizations"`
	ShowPhoneInfo      bool `json:"showPhoneInfo"`
	ShowOrganization   bool `json:"showOrganization"`
}

// CheckResponse is the parsed check response. Phone entries are kept raw
// because their layout differs between API versions.
type CheckResponse struct {
	Phones []json.RawMessage `json:"phones"`
}

// Entry returns the first phone entry, or an empty object when the response
// carried none.
func (r *CheckResponse) Entry() json.RawMessage {
	if r == nil || len(r.Phones) == 0 || len(r.Phones[0]) == 0 || string(r.Phones[0]) == "null" {
		return json.RawMessage(`{}`)
	}
	return r.Phones[0]
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spravportal: unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus exposes the response status for error classification.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// Option configures the SpravPortal client.
type Option func(*httpClient)

// WithURL sets the check endpoint URL.
func WithURL(u string) Option {
	return func(c *httpClient) {
		c.url = u
	}
}

// WithTimeout bounds every check call.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey string
	url    string
	http   *http.Client
}

// NewClient creates a new SpravPortal client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey: apiKey,
		url:    DefaultURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Check(ctx context.Context, phone string) (*CheckResponse, error) {
	payload, err := json.Marshal(CheckRequest{
		Phones: []string{phone},
		Params: CheckParams{
			AllowOrganizations: true,
			ShowPhoneInfo:      true,
			ShowOrganization:   true,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "spravportal: marshal request")
	}

	reqURL, err := url.Parse(c.url)
	if err != nil {
		return nil, eris.Wrap(err, "spravportal: parse url")
	}
	q := reqURL.Query()
	q.Set("apiKey", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "spravportal: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "spravportal: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "spravportal: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result CheckResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "spravportal: unmarshal response")
	}
	return &result, nil
}
