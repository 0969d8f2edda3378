// Package deliverysync triggers the remote delivery sync for a project sheet.
package deliverysync

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the production delivery sync function.
const DefaultEndpoint = "https://us-central1-send-to-client-app.cloudfunctions.net/delivery-sync"

// StatusError is returned when the sync endpoint answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "An error occurred: " + e.Body
}

// NewClient creates a Client calling endpoint. A zero timeout means no timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type Client struct {
	endpoint string
	http     *http.Client
}

// Sync asks the endpoint to sync sheetName of projectName and returns the response body.
func (c *Client) Sync(ctx context.Context, projectName, sheetName string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("url.Parse failed: %w", err)
	}
	q := u.Query()
	q.Set("project_name", projectName)
	q.Set("sheet_name", sheetName)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext failed: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http.Do failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Println(fmt.Errorf("resp.Body.Close failed: %w", err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	log.Printf("Delivery sync done for project %q sheet %q\n", projectName, sheetName)
	return string(body), nil
}
