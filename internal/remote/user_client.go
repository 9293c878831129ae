package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/ports"
)

// UserClient implements ports.UserDirectory against the user service.
type UserClient struct {
	baseURL string
	client  *http.Client
}

// NewUserClient constructs the adapter for the given base URL.
func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

type userPayload struct {
	ID          string `json:"id"`
	IsActive    bool   `json:"is_active"`
	IsSuspended bool   `json:"is_suspended"`
}

// Get fetches a user record. A 404 maps to ports.ErrNotFound; any transport
// failure or unexpected status is returned as-is for the coordinator to treat
// as an unavailable upstream.
func (c *UserClient) Get(ctx context.Context, userID string) (*domain.User, error) {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, userID)
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
		return nil, unexpectedStatus("user", res)
	}

	var payload userPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &domain.User{
		ID:        payload.ID,
		Active:    payload.IsActive,
		Suspended: payload.IsSuspended,
	}, nil
}
