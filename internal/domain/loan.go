package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanNotActive       = errors.New("loan is not active")
	ErrLoanAmountInvalid   = errors.New("loan amount must be positive")
	ErrLoanMonthsInvalid   = errors.New("number of repayment months must be at least 1")
	ErrLoanAmountBelowPaid = errors.New("loan amount cannot be less than the amount already paid")
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

type Loan struct {
	ID              int32           `json:"id"`
	MemberID        int32           `json:"memberId"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	RepaymentMonths int32           `json:"repaymentMonths"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	IssueDate       time.Time       `json:"issueDate"`
	DueDate         time.Time       `json:"dueDate"`
	Status          LoanStatus      `json:"status"`
	CompletedDate   *time.Time      `json:"completedDate,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// AmountPaid returns the principal repaid so far
func (l *Loan) AmountPaid() decimal.Decimal {
	return l.Amount.Sub(l.Balance)
}

// IsActive reports whether the loan still carries an outstanding balance
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// LoanInstallment is one row of a repayment schedule
type LoanInstallment struct {
	Number           int32           `json:"number"`
	DueDate          time.Time       `json:"dueDate"`
	PrincipalPayment decimal.Decimal `json:"principalPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	CreateTx(tx interface{}, loan *Loan) (*Loan, error)
	GetByID(id int32) (*Loan, error)
	GetAll() ([]*Loan, error)
	GetByMember(memberID int32) ([]*Loan, error)
	GetActive() ([]*Loan, error)
	Update(loan *Loan) (*Loan, error)
	UpdateTx(tx interface{}, loan *Loan) (*Loan, error)
	SumActiveBalances() (decimal.Decimal, error)
	CountActive() (int64, error)
	CountActiveByMember(memberID int32) (int64, error)
}
