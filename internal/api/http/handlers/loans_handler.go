package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/loan-service/internal/api/dto"
	"github.com/spec-kit/loan-service/internal/workflow"
	"github.com/spec-kit/loan-service/pkg/errorutil"
)

// LoansHandler exposes the loan workflow over HTTP.
type LoansHandler struct {
	coordinator *workflow.Coordinator
}

// NewLoansHandler constructs handler.
func NewLoansHandler(coordinator *workflow.Coordinator) *LoansHandler {
	return &LoansHandler{coordinator: coordinator}
}

// CreateLoan POST /loans.
func (h *LoansHandler) CreateLoan(c *fiber.Ctx) error {
	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.BookID == "" {
		return errorutil.NewValidationError("user_id and book_id required", nil)
	}

	loan, err := h.coordinator.CreateLoan(c.UserContext(), req.UserID, req.BookID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromLoan(loan)})
}

// ReturnLoan POST /loans/:id/return.
//
// A partial success (loan returned, remote book flag not restored) still
// responds 200 with the returned loan, plus a warning block the caller and
// operators can distinguish from a clean return.
func (h *LoansHandler) ReturnLoan(c *fiber.Ctx) error {
	result, err := h.coordinator.ReturnLoan(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	response := fiber.Map{"data": dto.FromLoan(result.Loan)}
	if result.BookSyncPending {
		response["warning"] = dto.Warning{
			Code:    string(workflow.KindBookUpdateFailed),
			Message: "loan returned but book availability was not restored; queued for reconciliation",
		}
	}
	return c.JSON(response)
}

// GetLoan GET /loans/:id.
func (h *LoansHandler) GetLoan(c *fiber.Ctx) error {
	loan, err := h.coordinator.GetLoan(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoan(loan)})
}

// ListActiveLoans GET /loans/active.
func (h *LoansHandler) ListActiveLoans(c *fiber.Ctx) error {
	loans, err := h.coordinator.ListAllActiveLoans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoans(loans)})
}

// ListUserActiveLoans GET /users/:id/loans/active.
func (h *LoansHandler) ListUserActiveLoans(c *fiber.Ctx) error {
	loans, err := h.coordinator.ListActiveLoansForUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoans(loans)})
}
