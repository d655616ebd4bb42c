package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

// maxBody bounds how much of an error body is read.
const maxBody = 64 << 10

type Options struct {
	BaseURL string
	// Token, when set, is sent as a bearer token next to X-User.
	Token   string
	Timeout time.Duration
	Client  *http.Client
}

// Purchaser calls POST {base}/api/products/{id}/purchase.
type Purchaser struct {
	base   string
	token  string
	client *http.Client
}

func NewPurchaser(opts Options) *Purchaser {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Purchaser{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		token:  strings.TrimSpace(opts.Token),
		client: client,
	}
}

func (p *Purchaser) Purchase(ctx context.Context, productID int64, user string) error {
	url := p.base + "/api/products/" + strconv.FormatInt(productID, 10) + "/purchase"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("build purchase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.Header, user)
	req.Header.Set(identity.RequestIDHeader, uuid.NewString())
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PurchaseError{
			Status:  resp.StatusCode,
			Message: ExtractErrorMessage(resp.StatusCode, body),
		}
	}
	return nil
}
