// Package partner posts publication events to external partner systems.
package partner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/rest"
)

// PublicationEvent is the payload delivered to every partner endpoint.
type PublicationEvent struct {
	Action      string    `json:"action"`
	IsPublished bool      `json:"is_published"`
	FacultyID   *int64    `json:"faculty_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Client delivers events to a fixed set of webhook URLs.
type Client struct {
	urls   []string
	apiKey string
	rest   *rest.Client
}

// NewClient constructs a webhook client.
func NewClient(urls []string, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		urls:   urls,
		apiKey: apiKey,
		rest:   &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

// Endpoints returns the configured partner URLs.
func (c *Client) Endpoints() []string {
	out := make([]string, len(c.urls))
	copy(out, c.urls)
	return out
}

// Publish posts the event to every endpoint. All endpoints are attempted; the
// returned error joins every failure.
func (c *Client) Publish(ctx context.Context, event PublicationEvent) error {
	if len(c.urls) == 0 {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal publication event: %w", err)
	}

	var errs []error
	for _, url := range c.urls {
		if err := c.post(ctx, url, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	res, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: strings.TrimRight(url, "/"),
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post %s: status %d", url, res.StatusCode)
	}
	return nil
}
