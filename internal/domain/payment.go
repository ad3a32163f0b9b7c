package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentType string

const (
	PaymentTypeContribution  PaymentType = "contribution"
	PaymentTypeLoanRepayment PaymentType = "loan_repayment"
)

// Payment records money received from a member. A payment is allocated whole:
// either entirely a contribution or entirely a loan repayment, never split.
type Payment struct {
	ID                  int32           `json:"id"`
	MemberID            int32           `json:"memberId"`
	LoanID              *int32          `json:"loanId,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	ContributionAmount  decimal.Decimal `json:"contributionAmount"`
	LoanRepaymentAmount decimal.Decimal `json:"loanRepaymentAmount"`
	Type                PaymentType     `json:"type"`
	Method              *string         `json:"method,omitempty"`
	PaymentDate         time.Time       `json:"paymentDate"`
	Notes               *string         `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	CreateTx(tx interface{}, payment *Payment) (*Payment, error)
	GetByID(id int32) (*Payment, error)
	GetAll() ([]*Payment, error)
	GetByMember(memberID int32) ([]*Payment, error)
	SumContributionsByMember(memberID int32) (decimal.Decimal, error)
}
