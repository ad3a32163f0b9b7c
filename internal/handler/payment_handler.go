package handler

import (
	"errors"
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents the record payment request body. A loanId
// makes the whole amount a repayment of that loan.
type CreatePaymentRequest struct {
	MemberID    int32   `json:"memberId"`
	Amount      string  `json:"amount"`
	LoanID      *int32  `json:"loanId,omitempty"`
	Method      *string `json:"method,omitempty"`
	PaymentDate string  `json:"paymentDate"`
	Notes       *string `json:"notes,omitempty"`
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewBadRequestError(c, "amount must be a decimal string")
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return NewBadRequestError(c, "paymentDate must be YYYY-MM-DD")
	}

	payment, result, err := h.paymentService.ProcessPayment(service.ProcessPaymentInput{
		MemberID:    req.MemberID,
		Amount:      amount,
		LoanID:      req.LoanID,
		Method:      req.Method,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "member not found")
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewNotFoundError(c, "loan not found")
		}
		log.Error().Err(err).Int32("member_id", req.MemberID).Msg("Failed to record payment")
		return NewInternalError(c, "failed to record payment")
	}
	if !result.IsValid {
		return NewValidationFailed(c, result)
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetPayments handles GET /api/v1/payments with an optional memberId filter
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	var payments []*domain.Payment
	var err error

	if raw := c.QueryParam("memberId"); raw != "" {
		memberID, parseErr := parseQueryID(raw)
		if parseErr != nil {
			return NewBadRequestError(c, "memberId must be a positive integer")
		}
		payments, err = h.paymentService.GetPaymentsByMember(memberID)
	} else {
		payments, err = h.paymentService.GetPayments()
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to list payments")
		return NewInternalError(c, "failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}
