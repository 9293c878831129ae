package remote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/ports"
)

const (
	bookStateLoaned    = "loaned"
	bookStateAvailable = "available"
)

// BookClient implements ports.BookCatalog against the book service.
type BookClient struct {
	baseURL string
	client  *http.Client
}

// NewBookClient constructs the adapter for the given base URL.
func NewBookClient(baseURL string, timeout time.Duration) *BookClient {
	return &BookClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

type bookPayload struct {
	ID          string `json:"id"`
	IsAvailable bool   `json:"is_available"`
	IsDeleted   bool   `json:"is_deleted"`
}

type bookStatusPayload struct {
	Status string `json:"status"`
}

// Get fetches a catalog entry. A 404 maps to ports.ErrNotFound.
func (c *BookClient) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	url := fmt.Sprintf("%s/books/%s", c.baseURL, bookID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ports.ErrNotFound
	case res.StatusCode != http.StatusOK:
		return nil, unexpectedStatus("book", res)
	}

	var payload bookPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode book response: %w", err)
	}
	return &domain.Book{
		ID:        payload.ID,
		Available: payload.IsAvailable,
		Deleted:   payload.IsDeleted,
	}, nil
}

// MarkLoaned flips the remote availability flag to loaned. The transition is
// idempotent on the book service side.
func (c *BookClient) MarkLoaned(ctx context.Context, bookID string) error {
	return c.patchStatus(ctx, bookID, bookStateLoaned)
}

// MarkAvailable flips the remote availability flag back to available.
func (c *BookClient) MarkAvailable(ctx context.Context, bookID string) error {
	return c.patchStatus(ctx, bookID, bookStateAvailable)
}

func (c *BookClient) patchStatus(ctx context.Context, bookID, status string) error {
	body, err := json.Marshal(bookStatusPayload{Status: status})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/books/%s/status", c.baseURL, bookID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ports.ErrNotFound
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return unexpectedStatus("book", res)
	}
	return nil
}
