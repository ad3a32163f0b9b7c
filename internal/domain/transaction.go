package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionType string

const (
	TransactionTypeContribution     TransactionType = "contribution"
	TransactionTypeLoanDisbursement TransactionType = "loan_disbursement"
	TransactionTypeLoanRepayment    TransactionType = "loan_repayment"
	TransactionTypeInterestApplied  TransactionType = "interest_applied"
	TransactionTypeCashOut          TransactionType = "cash_out"
)

// Transaction is one append-only ledger entry. A nil MemberID marks a
// fund-level event such as interest application. BalanceSnapshot is the fund
// balance after the entry's financial effect was applied.
type Transaction struct {
	ID              int32           `json:"id"`
	MemberID        *int32          `json:"memberId,omitempty"`
	PaymentID       *int32          `json:"paymentId,omitempty"`
	LoanID          *int32          `json:"loanId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	BalanceSnapshot decimal.Decimal `json:"balanceSnapshot"`
	Description     string          `json:"description"`
	OccurredAt      time.Time       `json:"occurredAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TransactionRepository persists ledger entries. The ledger is append-only;
// Update exists solely for the reconciliation maintenance pass that corrects
// entries whose type or amount drifted from their linked payment.
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateTx(tx interface{}, transaction *Transaction) (*Transaction, error)
	GetByID(id int32) (*Transaction, error)
	GetAll() ([]*Transaction, error)
	GetByMember(memberID int32) ([]*Transaction, error)
	GetByPaymentID(paymentID int32) (*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
}
