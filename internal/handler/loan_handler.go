package handler

import (
	"errors"
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	MemberID        int32   `json:"memberId"`
	Amount          string  `json:"amount"`
	RepaymentMonths int32   `json:"repaymentMonths"`
	IssueDate       string  `json:"issueDate"`
	Notes           *string `json:"notes,omitempty"`
	AdminOverride   bool    `json:"adminOverride"`
}

// CreateLoanResponse carries the created loan and any rules the admin
// consciously overrode
type CreateLoanResponse struct {
	Loan            *domain.Loan             `json:"loan"`
	Warnings        []domain.RuleViolation   `json:"warnings"`
	OverriddenRules []string                 `json:"overriddenRules"`
	Schedule        []domain.LoanInstallment `json:"schedule"`
}

// EditLoanRequest represents the edit loan request body
type EditLoanRequest struct {
	Amount          string  `json:"amount"`
	RepaymentMonths int32   `json:"repaymentMonths"`
	IssueDate       string  `json:"issueDate"`
	Notes           *string `json:"notes,omitempty"`
}

// PreviewScheduleRequest represents the schedule preview request body
type PreviewScheduleRequest struct {
	Amount          string `json:"amount"`
	RepaymentMonths int32  `json:"repaymentMonths"`
	IssueDate       string `json:"issueDate"`
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewBadRequestError(c, "amount must be a decimal string")
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return NewBadRequestError(c, "issueDate must be YYYY-MM-DD")
	}

	loan, result, err := h.loanService.CreateLoan(service.CreateLoanInput{
		MemberID:        req.MemberID,
		Amount:          amount,
		RepaymentMonths: req.RepaymentMonths,
		IssueDate:       issueDate,
		Notes:           req.Notes,
		AdminOverride:   req.AdminOverride,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "member not found")
		}
		log.Error().Err(err).Int32("member_id", req.MemberID).Msg("Failed to create loan")
		return NewInternalError(c, "failed to create loan")
	}
	if !result.IsValid {
		return NewValidationFailed(c, result)
	}

	return c.JSON(http.StatusCreated, CreateLoanResponse{
		Loan:            loan,
		Warnings:        result.Warnings,
		OverriddenRules: result.OverriddenRules,
		Schedule:        service.CalculateLoanSchedule(loan.Amount, loan.RepaymentMonths, loan.IssueDate),
	})
}

// GetLoans handles GET /api/v1/loans with an optional status=active filter
func (h *LoanHandler) GetLoans(c echo.Context) error {
	var loans []*domain.Loan
	var err error

	if c.QueryParam("status") == string(domain.LoanStatusActive) {
		loans, err = h.loanService.GetActiveLoans()
	} else {
		loans, err = h.loanService.GetLoans()
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to list loans")
		return NewInternalError(c, "failed to list loans")
	}
	return c.JSON(http.StatusOK, loans)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	loan, err := h.loanService.GetLoanByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "loan not found")
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to get loan")
		return NewInternalError(c, "failed to get loan")
	}
	return c.JSON(http.StatusOK, loan)
}

// EditLoan handles PUT /api/v1/loans/:id
func (h *LoanHandler) EditLoan(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req EditLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewBadRequestError(c, "amount must be a decimal string")
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return NewBadRequestError(c, "issueDate must be YYYY-MM-DD")
	}

	loan, err := h.loanService.EditLoan(id, service.EditLoanInput{
		Amount:          amount,
		RepaymentMonths: req.RepaymentMonths,
		IssueDate:       issueDate,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewNotFoundError(c, "loan not found")
		case errors.Is(err, domain.ErrLoanAmountBelowPaid):
			return NewConflictError(c, "new amount is below the amount already repaid")
		case errors.Is(err, domain.ErrLoanAmountInvalid), errors.Is(err, domain.ErrLoanMonthsInvalid):
			return NewBadRequestError(c, err.Error())
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to edit loan")
		return NewInternalError(c, "failed to edit loan")
	}
	return c.JSON(http.StatusOK, loan)
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	schedule, err := h.loanService.GetLoanSchedule(id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "loan not found")
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to build loan schedule")
		return NewInternalError(c, "failed to build loan schedule")
	}
	return c.JSON(http.StatusOK, schedule)
}

// PreviewSchedule handles POST /api/v1/loans/preview: schedule math without
// creating anything
func (h *LoanHandler) PreviewSchedule(c echo.Context) error {
	var req PreviewScheduleRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewBadRequestError(c, "amount must be a decimal string")
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return NewBadRequestError(c, "issueDate must be YYYY-MM-DD")
	}
	if req.RepaymentMonths < 1 {
		return NewBadRequestError(c, "repaymentMonths must be at least 1")
	}

	return c.JSON(http.StatusOK, service.CalculateLoanSchedule(amount, req.RepaymentMonths, issueDate))
}
