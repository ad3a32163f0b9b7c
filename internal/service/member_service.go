package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/events"
)

// MemberService handles member lifecycle: registration, status transitions,
// profile updates and the terminal cash-out
type MemberService struct {
	memberRepo      domain.MemberRepository
	loanRepo        domain.LoanRepository
	transactionRepo domain.TransactionRepository
	fund            *FundService
	rules           *RuleService
	txm             domain.TxManager
	guard           *WriteGuard
	eventPublisher  events.Publisher
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo domain.MemberRepository, loanRepo domain.LoanRepository, transactionRepo domain.TransactionRepository, fund *FundService, rules *RuleService, txm domain.TxManager, guard *WriteGuard) *MemberService {
	return &MemberService{
		memberRepo:      memberRepo,
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
		fund:            fund,
		rules:           rules,
		txm:             txm,
		guard:           guard,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *MemberService) SetEventPublisher(publisher events.Publisher) {
	s.eventPublisher = publisher
}

func (s *MemberService) publishEvent(event events.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateMemberInput contains input for registering a member
type CreateMemberInput struct {
	Name     string
	Role     domain.MemberRole
	Email    *string
	Phone    *string
	JoinDate *time.Time
}

// CreateMember validates and registers a new active member
func (s *MemberService) CreateMember(input CreateMemberInput) (*domain.Member, domain.ValidationResult, error) {
	result := s.rules.ValidateNewMember(input.Name, input.Role, input.Email, input.Phone)
	if !result.IsValid {
		return nil, result, nil
	}

	joinDate := time.Now()
	if input.JoinDate != nil {
		joinDate = *input.JoinDate
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	member, err := s.memberRepo.Create(&domain.Member{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     input.Role,
		Status:   domain.MemberStatusActive,
		JoinDate: joinDate,
	})
	if err != nil {
		return nil, result, err
	}

	s.publishEvent(events.MemberCreated(member))
	return member, result, nil
}

// GetMembers retrieves all members
func (s *MemberService) GetMembers() ([]*domain.Member, error) {
	return s.memberRepo.GetAll()
}

// GetMemberByID retrieves a member by ID
func (s *MemberService) GetMemberByID(id int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(id)
}

// UpdateMemberInput contains the updatable member fields
type UpdateMemberInput struct {
	Name                  *string
	Role                  *domain.MemberRole
	Email                 *string
	Phone                 *string
	CustomRepaymentMonths []int32
}

// UpdateMember applies partial profile changes to a member
func (s *MemberService) UpdateMember(id int32, input UpdateMemberInput) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if len(trimmed) < 2 {
			return nil, domain.ErrMemberNameTooShort
		}
		member.Name = trimmed
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.ErrMemberRoleInvalid
		}
		member.Role = *input.Role
	}
	if input.Email != nil {
		member.Email = input.Email
	}
	if input.Phone != nil {
		member.Phone = input.Phone
	}
	if input.CustomRepaymentMonths != nil {
		member.CustomRepaymentMonths = input.CustomRepaymentMonths
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	updated, err := s.memberRepo.Update(member)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.MemberUpdated(updated))
	return updated, nil
}

// UpdateStatus moves a member between active, suspended and inactive
func (s *MemberService) UpdateStatus(id int32, status domain.MemberStatus) (*domain.Member, error) {
	if !status.Valid() {
		return nil, domain.ErrMemberStatusInvalid
	}

	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	member.Status = status
	updated, err := s.memberRepo.Update(member)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.MemberUpdated(updated))
	return updated, nil
}

// CashOut withdraws a non-active member's accumulated contributions. The
// amount and date are stamped on the member and a cash_out ledger entry is
// appended, in one unit of work. Terminal for the member's contribution flow.
func (s *MemberService) CashOut(id int32) (*domain.Member, domain.ValidationResult, error) {
	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	activeLoans, err := s.loanRepo.CountActiveByMember(id)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	result := s.rules.ValidateCashOut(member, activeLoans)
	if !result.IsValid {
		return nil, result, nil
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	balanceBefore, err := s.fund.CalculateFundBalance()
	if err != nil {
		return nil, result, err
	}

	amount := member.TotalContributions
	now := time.Now()

	err = s.txm.WithinTx(func(tx interface{}) error {
		member.CashOutAmount = amount
		member.CashOutDate = &now

		var txErr error
		member, txErr = s.memberRepo.UpdateTx(tx, member)
		if txErr != nil {
			return txErr
		}

		_, txErr = s.transactionRepo.CreateTx(tx, &domain.Transaction{
			MemberID:        &member.ID,
			Amount:          amount.Neg(),
			Type:            domain.TransactionTypeCashOut,
			BalanceSnapshot: balanceBefore.Sub(amount),
			Description:     fmt.Sprintf("Cash-out of %s for %s", amount.StringFixed(2), member.Name),
			OccurredAt:      now,
		})
		return txErr
	})
	if err != nil {
		return nil, result, err
	}

	s.publishEvent(events.MemberCashedOut(member))
	return member, result, nil
}

// DeleteMember soft-deletes a member. Members with active loans cannot be
// deleted.
func (s *MemberService) DeleteMember(id int32) error {
	if _, err := s.memberRepo.GetByID(id); err != nil {
		return err
	}

	activeLoans, err := s.loanRepo.CountActiveByMember(id)
	if err != nil {
		return err
	}
	if activeLoans > 0 {
		return domain.ErrMemberHasActiveLoans
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	return s.memberRepo.SoftDelete(id)
}
