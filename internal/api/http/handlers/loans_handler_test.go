package handlers_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/loan-service/internal/api/http"
	"github.com/spec-kit/loan-service/internal/api/http/handlers"
	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/observability"
	"github.com/spec-kit/loan-service/internal/ports"
	"github.com/spec-kit/loan-service/internal/workflow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// stubPorts backs the coordinator with one eligible user, one available book
// and an in-memory loan map; individual calls can be failed per test.
type stubPorts struct {
	mu               sync.Mutex
	loans            map[string]domain.Loan
	markAvailableErr error
}

func newStubPorts() *stubPorts {
	return &stubPorts{loans: make(map[string]domain.Loan)}
}

func (s *stubPorts) Get(_ context.Context, id string) (*domain.User, error) {
	if id != "u1" {
		return nil, ports.ErrNotFound
	}
	return &domain.User{ID: "u1", Active: true}, nil
}

type stubBooks struct{ parent *stubPorts }

func (s stubBooks) Get(_ context.Context, id string) (*domain.Book, error) {
	if id != "b1" {
		return nil, ports.ErrNotFound
	}
	return &domain.Book{ID: "b1", Available: true}, nil
}

func (s stubBooks) MarkLoaned(context.Context, string) error { return nil }

func (s stubBooks) MarkAvailable(context.Context, string) error {
	return s.parent.markAvailableErr
}

type stubStore struct{ parent *stubPorts }

func (s stubStore) Save(_ context.Context, loan *domain.Loan) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	loan.ID = "loan-1"
	s.parent.loans[loan.ID] = *loan
	return nil
}

func (s stubStore) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	loan, ok := s.parent.loans[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &loan, nil
}

func (s stubStore) FindActiveByUser(_ context.Context, userID string) ([]domain.Loan, error) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	active := []domain.Loan{}
	for _, loan := range s.parent.loans {
		if loan.UserID == userID && loan.ReturnDate == nil {
			active = append(active, loan)
		}
	}
	return active, nil
}

func (s stubStore) ListAllActive(ctx context.Context) ([]domain.Loan, error) {
	return s.FindActiveByUser(ctx, "u1")
}

func (s stubStore) Update(_ context.Context, loan *domain.Loan) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.loans[loan.ID] = *loan
	return nil
}

func (s stubStore) Delete(_ context.Context, id string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.loans, id)
	return nil
}

func newTestApp(stub *stubPorts) *fiber.App {
	coordinator := workflow.NewCoordinator(workflow.Dependencies{
		UserDirectory: stub,
		BookCatalog:   stubBooks{parent: stub},
		LoanStore:     stubStore{parent: stub},
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Loans:  handlers.NewLoansHandler(coordinator),
		Health: handlers.NewHealthHandler("loan-service", "test", nil, nil),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]any{}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return res, payload
}

func Test_CreateLoanEndpoint(t *testing.T) {
	app := newTestApp(newStubPorts())

	res, payload := doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"u1","book_id":"b1"}`)

	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "loan-1", data["id"])
	assert.Equal(t, "active", data["status"])
}

func Test_CreateLoanEndpoint_Validation(t *testing.T) {
	app := newTestApp(newStubPorts())

	res, payload := doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"u1"}`)

	require.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func Test_CreateLoanEndpoint_UserNotFound(t *testing.T) {
	app := newTestApp(newStubPorts())

	res, payload := doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"ghost","book_id":"b1"}`)

	require.Equal(t, fiber.StatusNotFound, res.StatusCode)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, string(workflow.KindUserNotFound), errBody["code"])
}

func Test_ReturnLoanEndpoint(t *testing.T) {
	app := newTestApp(newStubPorts())

	_, _ = doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"u1","book_id":"b1"}`)
	res, payload := doJSON(t, app, http.MethodPost, "/loans/loan-1/return", "")

	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "returned", data["status"])
	assert.NotContains(t, payload, "warning")

	res, payload = doJSON(t, app, http.MethodPost, "/loans/loan-1/return", "")
	require.Equal(t, fiber.StatusConflict, res.StatusCode)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, string(workflow.KindLoanAlreadyReturned), errBody["code"])
}

func Test_ReturnLoanEndpoint_PartialSuccessCarriesWarning(t *testing.T) {
	stub := newStubPorts()
	app := newTestApp(stub)

	_, _ = doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"u1","book_id":"b1"}`)
	stub.markAvailableErr = errors.New("book service down")

	res, payload := doJSON(t, app, http.MethodPost, "/loans/loan-1/return", "")

	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "returned", data["status"])

	warning := payload["warning"].(map[string]any)
	assert.Equal(t, string(workflow.KindBookUpdateFailed), warning["code"])
}

func Test_ListActiveLoansEndpoints(t *testing.T) {
	app := newTestApp(newStubPorts())

	_, _ = doJSON(t, app, http.MethodPost, "/loans/", `{"user_id":"u1","book_id":"b1"}`)

	res, payload := doJSON(t, app, http.MethodGet, "/users/u1/loans/active", "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Len(t, payload["data"].([]any), 1)

	res, payload = doJSON(t, app, http.MethodGet, "/loans/active", "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Len(t, payload["data"].([]any), 1)

	_, _ = doJSON(t, app, http.MethodPost, "/loans/loan-1/return", "")

	res, payload = doJSON(t, app, http.MethodGet, "/users/u1/loans/active", "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Empty(t, payload["data"].([]any))
}
