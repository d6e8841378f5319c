// Package microscope talks to the microscope control server over its REST
// API: objective moves and the forbidden-area list.
package microscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"platenav/internal/plate"
)

const (
	moveToPath         = "/api/action/move_to"
	forbiddenAreasPath = "/api/forbidden_areas"
	maxBodyBytes       = 1 << 20
)

// ErrNoServer is returned when the client has no base URL configured.
var ErrNoServer = errors.New("microscope: no server configured")

// APIError is a non-2xx answer from the server. Detail carries the server's
// own explanation, e.g. why a move was refused.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("microscope: %s: %s", e.Op, http.StatusText(e.Status))
	}
	return fmt.Sprintf("microscope: %s: %s (%d)", e.Op, e.Detail, e.Status)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the HTTP implementation of the movement requester and the
// forbidden-area provider.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the server at cfg.BaseURL.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type moveRequest struct {
	XMM float64 `json:"x_mm"`
	YMM float64 `json:"y_mm"`
}

// MoveObjectiveTo asks the stage to bring the objective over (xMM, yMM) in
// plate coordinates. The server may refuse, e.g. for a forbidden area; the
// refusal comes back as an *APIError.
func (c *Client) MoveObjectiveTo(ctx context.Context, xMM, yMM float64) error {
	body, err := json.Marshal(moveRequest{XMM: xMM, YMM: yMM})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, moveToPath, "move_to", bytes.NewReader(body))
	return err
}

// FetchForbiddenAreas returns the areas the objective must stay out of.
// Malformed entries are dropped with a logged warning.
func (c *Client) FetchForbiddenAreas(ctx context.Context) ([]plate.ForbiddenArea, error) {
	data, err := c.do(ctx, http.MethodGet, forbiddenAreasPath, "forbidden_areas", nil)
	if err != nil {
		return nil, err
	}
	return plate.ParseForbiddenAreas(data)
}

func (c *Client) do(ctx context.Context, method, path, op string, body io.Reader) ([]byte, error) {
	if c.base == "" {
		return nil, ErrNoServer
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("microscope: %s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("microscope: %s: %w", op, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("microscope: %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: op, Status: resp.StatusCode, Detail: detail(data)}
	}
	return data, nil
}

// detail pulls a human message out of an error body. Servers answer with
// {"detail": "..."}, {"error": "..."} or plain text.
func detail(data []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		switch d := body.Detail.(type) {
		case string:
			return d
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(data))
}
