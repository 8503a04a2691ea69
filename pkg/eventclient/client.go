// Package eventclient posts inbound events to a bridge endpoint the way the
// gateway does, and decodes the actions it answers with.
package eventclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bridge HTTP %d", e.StatusCode)
}

// Client posts events to one endpoint URL.
type Client struct {
	url  string
	http *http.Client
}

// New creates a Client for the given event URL (e.g. http://127.0.0.1:8000/event).
func New(url string) *Client {
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// URL returns the endpoint this client posts to.
func (c *Client) URL() string { return c.url }

// Post sends ev and returns the validated response.
func (c *Client) Post(ctx context.Context, ev *protocol.InboundEvent) (*protocol.Response, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshalling event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending event: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	out, err := protocol.DecodeResponse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}
