package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/events"
	"github.com/shopspring/decimal"
)

// PaymentService allocates incoming payments. A payment is applied whole:
// against an active loan when one is supplied, otherwise as a contribution.
// Each call creates exactly one Payment and one linked Transaction inside a
// single unit of work.
type PaymentService struct {
	paymentRepo     domain.PaymentRepository
	transactionRepo domain.TransactionRepository
	memberRepo      domain.MemberRepository
	loanRepo        domain.LoanRepository
	loans           *LoanService
	fund            *FundService
	rules           *RuleService
	txm             domain.TxManager
	guard           *WriteGuard
	eventPublisher  events.Publisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, transactionRepo domain.TransactionRepository, memberRepo domain.MemberRepository, loanRepo domain.LoanRepository, loans *LoanService, fund *FundService, rules *RuleService, txm domain.TxManager, guard *WriteGuard) *PaymentService {
	return &PaymentService{
		paymentRepo:     paymentRepo,
		transactionRepo: transactionRepo,
		memberRepo:      memberRepo,
		loanRepo:        loanRepo,
		loans:           loans,
		fund:            fund,
		rules:           rules,
		txm:             txm,
		guard:           guard,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PaymentService) SetEventPublisher(publisher events.Publisher) {
	s.eventPublisher = publisher
}

func (s *PaymentService) publishEvent(event events.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// ProcessPaymentInput contains input for processing a payment
type ProcessPaymentInput struct {
	MemberID    int32
	Amount      decimal.Decimal
	LoanID      *int32
	Method      *string
	PaymentDate time.Time
	Notes       *string
}

// ProcessPayment validates and records a payment. Supplying a loan makes the
// whole amount a repayment of that loan; otherwise the whole amount is a
// contribution. No splitting happens within one payment.
func (s *PaymentService) ProcessPayment(input ProcessPaymentInput) (*domain.Payment, domain.ValidationResult, error) {
	member, err := s.memberRepo.GetByID(input.MemberID)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	var loan *domain.Loan
	paymentType := domain.PaymentTypeContribution
	if input.LoanID != nil {
		loan, err = s.loanRepo.GetByID(*input.LoanID)
		if err != nil {
			return nil, domain.ValidationResult{}, err
		}
		paymentType = domain.PaymentTypeLoanRepayment
	}

	result := s.rules.ValidatePayment(member, input.Amount, loan, paymentType)
	if !result.IsValid {
		return nil, result, nil
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	balanceBefore, err := s.fund.CalculateFundBalance()
	if err != nil {
		return nil, result, err
	}

	var payment *domain.Payment
	var loanCompleted bool

	err = s.txm.WithinTx(func(tx interface{}) error {
		payment = &domain.Payment{
			MemberID:    member.ID,
			LoanID:      input.LoanID,
			Amount:      input.Amount,
			Type:        paymentType,
			Method:      input.Method,
			PaymentDate: input.PaymentDate,
			Notes:       notes,
		}

		if paymentType == domain.PaymentTypeLoanRepayment {
			payment.LoanRepaymentAmount = input.Amount
			payment.ContributionAmount = decimal.Zero
		} else {
			payment.ContributionAmount = input.Amount
			payment.LoanRepaymentAmount = decimal.Zero
		}

		var txErr error
		payment, txErr = s.paymentRepo.CreateTx(tx, payment)
		if txErr != nil {
			return txErr
		}

		if paymentType == domain.PaymentTypeLoanRepayment {
			updated, applied, txErr := s.loans.applyRepaymentTx(tx, loan, input.Amount, input.PaymentDate)
			if txErr != nil {
				return txErr
			}
			loan = updated
			loanCompleted = updated.Status == domain.LoanStatusCompleted

			_, txErr = s.transactionRepo.CreateTx(tx, &domain.Transaction{
				MemberID:        &member.ID,
				PaymentID:       &payment.ID,
				LoanID:          input.LoanID,
				Amount:          input.Amount.Neg(),
				Type:            domain.TransactionTypeLoanRepayment,
				BalanceSnapshot: balanceBefore.Add(applied),
				Description:     fmt.Sprintf("Loan repayment of %s from %s", input.Amount.StringFixed(2), member.Name),
				OccurredAt:      input.PaymentDate,
			})
			return txErr
		}

		member.TotalContributions = member.TotalContributions.Add(input.Amount)
		if _, txErr = s.memberRepo.UpdateTx(tx, member); txErr != nil {
			return txErr
		}

		_, txErr = s.transactionRepo.CreateTx(tx, &domain.Transaction{
			MemberID:        &member.ID,
			PaymentID:       &payment.ID,
			Amount:          input.Amount,
			Type:            domain.TransactionTypeContribution,
			BalanceSnapshot: balanceBefore.Add(input.Amount),
			Description:     fmt.Sprintf("Contribution of %s from %s", input.Amount.StringFixed(2), member.Name),
			OccurredAt:      input.PaymentDate,
		})
		return txErr
	})
	if err != nil {
		return nil, result, err
	}

	s.publishEvent(events.PaymentRecorded(payment))
	if loanCompleted {
		s.publishEvent(events.LoanCompleted(loan))
	}

	return payment, result, nil
}

// GetPayments retrieves all payments
func (s *PaymentService) GetPayments() ([]*domain.Payment, error) {
	return s.paymentRepo.GetAll()
}

// GetPaymentsByMember retrieves a member's payments
func (s *PaymentService) GetPaymentsByMember(memberID int32) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByMember(memberID)
}

// RepairMissingTransactions finds payments with no linked ledger entry and
// creates the missing one. Idempotent: a second run finds nothing to repair.
func (s *PaymentService) RepairMissingTransactions() (int, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	payments, err := s.paymentRepo.GetAll()
	if err != nil {
		return 0, err
	}

	balance, err := s.fund.CalculateFundBalance()
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, payment := range payments {
		_, err := s.transactionRepo.GetByPaymentID(payment.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			return repaired, err
		}

		amount, txType := ledgerEffect(payment)
		memberID := payment.MemberID
		_, err = s.transactionRepo.Create(&domain.Transaction{
			MemberID:        &memberID,
			PaymentID:       &payment.ID,
			LoanID:          payment.LoanID,
			Amount:          amount,
			Type:            txType,
			BalanceSnapshot: balance,
			Description:     fmt.Sprintf("Repaired ledger entry for payment %d", payment.ID),
			OccurredAt:      payment.PaymentDate,
		})
		if err != nil {
			return repaired, err
		}
		repaired++
	}
	return repaired, nil
}

// ReconcileTransactions corrects ledger entries whose type or amount
// disagree with their linked payment. Idempotent and non-destructive.
func (s *PaymentService) ReconcileTransactions() (int, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	payments, err := s.paymentRepo.GetAll()
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, payment := range payments {
		transaction, err := s.transactionRepo.GetByPaymentID(payment.ID)
		if errors.Is(err, domain.ErrTransactionNotFound) {
			continue // the repair pass owns missing entries
		}
		if err != nil {
			return corrected, err
		}

		amount, txType := ledgerEffect(payment)
		if transaction.Amount.Equal(amount) && transaction.Type == txType {
			continue
		}

		transaction.Amount = amount
		transaction.Type = txType
		if _, err := s.transactionRepo.Update(transaction); err != nil {
			return corrected, err
		}
		corrected++
	}
	return corrected, nil
}

// RecalculateContributions rebuilds each member's cached contribution total
// from their payments and fixes any drift. Idempotent.
func (s *PaymentService) RecalculateContributions() (int, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	members, err := s.memberRepo.GetAll()
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, member := range members {
		sum, err := s.paymentRepo.SumContributionsByMember(member.ID)
		if err != nil {
			return corrected, err
		}
		if sum.Equal(member.TotalContributions) {
			continue
		}
		member.TotalContributions = sum
		if _, err := s.memberRepo.Update(member); err != nil {
			return corrected, err
		}
		corrected++
	}
	return corrected, nil
}

// ledgerEffect returns the signed ledger amount and entry type a payment
// must be mirrored by
func ledgerEffect(payment *domain.Payment) (decimal.Decimal, domain.TransactionType) {
	if payment.Type == domain.PaymentTypeLoanRepayment {
		return payment.Amount.Neg(), domain.TransactionTypeLoanRepayment
	}
	return payment.Amount, domain.TransactionTypeContribution
}
