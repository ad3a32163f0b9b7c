package service

import (
	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ReportService assembles read-only views for statement and export
// consumers. Every call reads a fresh snapshot; a multi-call view is not
// guaranteed to be consistent across writes.
type ReportService struct {
	memberRepo      domain.MemberRepository
	paymentRepo     domain.PaymentRepository
	transactionRepo domain.TransactionRepository
	loanRepo        domain.LoanRepository
}

// NewReportService creates a new ReportService
func NewReportService(memberRepo domain.MemberRepository, paymentRepo domain.PaymentRepository, transactionRepo domain.TransactionRepository, loanRepo domain.LoanRepository) *ReportService {
	return &ReportService{
		memberRepo:      memberRepo,
		paymentRepo:     paymentRepo,
		transactionRepo: transactionRepo,
		loanRepo:        loanRepo,
	}
}

// Transactions returns the full ledger
func (s *ReportService) Transactions() ([]*domain.Transaction, error) {
	return s.transactionRepo.GetAll()
}

// MemberReport bundles a member's payments, ledger entries, loans and totals
func (s *ReportService) MemberReport(memberID int32) (*domain.MemberReport, error) {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByMember(memberID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByMember(memberID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.GetByMember(memberID)
	if err != nil {
		return nil, err
	}

	totalRepaid := decimal.Zero
	for _, p := range payments {
		totalRepaid = totalRepaid.Add(p.LoanRepaymentAmount)
	}

	outstanding := decimal.Zero
	var activeLoanCount int64
	for _, l := range loans {
		if l.IsActive() {
			outstanding = outstanding.Add(l.Balance)
			activeLoanCount++
		}
	}

	return &domain.MemberReport{
		Member:       member,
		Payments:     payments,
		Transactions: transactions,
		Loans:        loans,
		Aggregates: domain.MemberAggregates{
			TotalContributions: member.TotalContributions,
			TotalRepaid:        totalRepaid,
			OutstandingBalance: outstanding,
			ActiveLoanCount:    activeLoanCount,
		},
	}, nil
}
