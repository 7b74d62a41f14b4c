// Package amocrm provides bearer-authenticated access to the amoCRM v4 REST API.
package amocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the amoCRM operations used by the triage pipeline.
type Client interface {
	// GetLead fetches a lead, optionally embedding its linked contacts.
	GetLead(ctx context.Context, id int64, withContacts bool) (*Lead, error)
	// UpdateLead applies a partial update to a lead.
	UpdateLead(ctx context.Context, id int64, patch LeadPatch) error
	// AddNote appends a common text note to a lead.
	AddNote(ctx context.Context, leadID int64, text string) error
	// GetContact fetches a contact with its custom fields.
	GetContact(ctx context.Context, id int64) (*Contact, error)
	// ListPipelines returns all lead pipelines with their statuses.
	ListPipelines(ctx context.Context) ([]Pipeline, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("amocrm: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// HTTPStatus exposes the response status for error classification.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// Option configures the amoCRM client.
type Option func(*httpClient)

// WithTimeout bounds every API call.
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
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the account at domain, e.g.
// "https://example.amocrm.ru".
func NewClient(domain, token string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(domain, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GetLead(ctx context.Context, id int64, withContacts bool) (*Lead, error) {
	path := fmt.Sprintf("/api/v4/leads/%d", id)
	if withContacts {
		path += "?with=contacts"
	}
	var lead Lead
	if err := c.do(ctx, http.MethodGet, path, nil, &lead); err != nil {
		return nil, eris.Wrapf(err, "amocrm: get lead %d", id)
	}
	return &lead, nil
}

func (c *httpClient) UpdateLead(ctx context.Context, id int64, patch LeadPatch) error {
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v4/leads/%d", id), patch, nil); err != nil {
		return eris.Wrapf(err, "amocrm: update lead %d", id)
	}
	return nil
}

func (c *httpClient) AddNote(ctx context.Context, leadID int64, text string) error {
	notes := []Note{{NoteType: "common", Params: NoteParams{Text: text}}}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v4/leads/%d/notes", leadID), notes, nil); err != nil {
		return eris.Wrapf(err, "amocrm: add note to lead %d", leadID)
	}
	return nil
}

func (c *httpClient) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var contact Contact
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v4/contacts/%d", id), nil, &contact); err != nil {
		return nil, eris.Wrapf(err, "amocrm: get contact %d", id)
	}
	return &contact, nil
}

func (c *httpClient) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	var resp struct {
		Embedded struct {
			Pipelines []Pipeline `json:"pipelines"`
		} `json:"_embedded"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v4/leads/pipelines", nil, &resp); err != nil {
		return nil, eris.Wrap(err, "amocrm: list pipelines")
	}
	return resp.Embedded.Pipelines, nil
}

// do sends one request. A nil in skips the body; a nil out discards the
// response. 204 responses leave out untouched.
func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
