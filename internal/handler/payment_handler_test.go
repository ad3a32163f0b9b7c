package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

func TestCreatePayment_Handler_Contribution(t *testing.T) {
	e := echo.New()
	env := newTestEnv(t)
	handler := NewPaymentHandler(env.paymentService)

	env.seedFounder(1000)

	reqBody := `{"memberId": 1, "amount": "200.00", "paymentDate": "2025-07-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var payment domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payment); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if payment.Type != domain.PaymentTypeContribution {
		t.Errorf("Expected contribution payment, got %s", payment.Type)
	}
}

func TestCreatePayment_Handler_RepaymentCompletesLoan(t *testing.T) {
	e := echo.New()
	env := newTestEnv(t)
	handler := NewPaymentHandler(env.paymentService)

	member := env.seedFounder(20000)
	loan := env.loanRepo.AddLoan(&domain.Loan{
		MemberID:        member.ID,
		Amount:          dec(t, "9000"),
		Balance:         dec(t, "9000"),
		RepaymentMonths: 12,
		Status:          domain.LoanStatusActive,
	})

	reqBody := `{"memberId": 1, "amount": "9000.00", "loanId": 1, "paymentDate": "2025-08-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	stored, _ := env.loanRepo.GetByID(loan.ID)
	if stored.Status != domain.LoanStatusCompleted {
		t.Errorf("Expected completed loan, got %s", stored.Status)
	}
}

func TestCreatePayment_Handler_UnknownMember(t *testing.T) {
	e := echo.New()
	env := newTestEnv(t)
	handler := NewPaymentHandler(env.paymentService)

	reqBody := `{"memberId": 42, "amount": "200.00", "paymentDate": "2025-07-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetPayments_Handler_MemberFilter(t *testing.T) {
	e := echo.New()
	env := newTestEnv(t)
	handler := NewPaymentHandler(env.paymentService)

	env.paymentRepo.AddPayment(&domain.Payment{MemberID: 1, Amount: dec(t, "200"), Type: domain.PaymentTypeContribution})
	env.paymentRepo.AddPayment(&domain.Payment{MemberID: 2, Amount: dec(t, "300"), Type: domain.PaymentTypeContribution})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?memberId=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetPayments(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var payments []*domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(payments) != 1 || payments[0].MemberID != 2 {
		t.Errorf("Expected only member 2's payment, got %v", payments)
	}
}
