package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

// StatusError is a non-2xx gateway answer.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Client reads product data from the gateway.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Verify fetches GET /api/verify/{id} as user; an empty user gets the public view.
func (c *Client) Verify(ctx context.Context, id int64, user string) (domain.View, error) {
	url := c.base + "/api/verify/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.View{}, fmt.Errorf("build verify request: %w", err)
	}
	if user != "" {
		req.Header.Set(identity.Header, user)
	}
	req.Header.Set(identity.RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.View{}, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.View{}, fmt.Errorf("read verify response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.View{}, statusError(resp.StatusCode, body)
	}

	var v domain.View
	if err := json.Unmarshal(body, &v); err != nil {
		return domain.View{}, fmt.Errorf("decode verify response: %w", err)
	}
	return v, nil
}

func statusError(status int, body []byte) *StatusError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("verify failed (HTTP %d)", status)
	if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Error) != "" {
		msg = strings.TrimSpace(payload.Error)
	}
	return &StatusError{Status: status, Message: msg}
}
