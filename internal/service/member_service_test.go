package service

import (
	"testing"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCreateMember_Success(t *testing.T) {
	f := newFixture(t)

	member, result, err := f.member.CreateMember(CreateMemberInput{
		Name: "  Amina  ",
		Role: domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.IsValid {
		t.Fatalf("Expected valid result, got errors %v", result.Errors)
	}

	if member.Name != "Amina" {
		t.Errorf("Expected trimmed name, got %q", member.Name)
	}
	if member.Status != domain.MemberStatusActive {
		t.Errorf("Expected new member to be active, got %s", member.Status)
	}
	if !member.TotalContributions.IsZero() {
		t.Errorf("Expected zero contributions, got %s", member.TotalContributions.String())
	}
}

func TestCreateMember_ValidationBlocks(t *testing.T) {
	f := newFixture(t)

	member, result, err := f.member.CreateMember(CreateMemberInput{
		Name: "X",
		Role: domain.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.IsValid {
		t.Fatal("Expected short name to block registration")
	}
	if member != nil {
		t.Error("Expected no member on blocked registration")
	}

	members, _ := f.members.GetAll()
	if len(members) != 0 {
		t.Errorf("Expected no members stored, got %d", len(members))
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(1000)

	_, err := f.member.UpdateStatus(member.ID, domain.MemberStatus("banned"))

	if err != domain.ErrMemberStatusInvalid {
		t.Errorf("Expected ErrMemberStatusInvalid, got %v", err)
	}
}

func TestCashOut_StampsMemberAndAppendsLedgerEntry(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(5000)
	member.Status = domain.MemberStatusInactive

	updated, result, err := f.member.CashOut(member.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.IsValid {
		t.Fatalf("Expected valid result, got errors %v", result.Errors)
	}

	if !updated.CashOutAmount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected cash-out amount 5000, got %s", updated.CashOutAmount.String())
	}
	if updated.CashOutDate == nil {
		t.Error("Expected cash-out date to be stamped")
	}

	entries, _ := f.transactions.GetAll()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 ledger entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Type != domain.TransactionTypeCashOut {
		t.Errorf("Expected cash_out entry, got %s", entry.Type)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(-5000)) {
		t.Errorf("Expected ledger amount -5000, got %s", entry.Amount.String())
	}
	// 5000 in, 5000 out
	if !entry.BalanceSnapshot.IsZero() {
		t.Errorf("Expected balance snapshot 0, got %s", entry.BalanceSnapshot.String())
	}
}

func TestCashOut_ActiveMemberBlocked(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(5000)

	_, result, err := f.member.CashOut(member.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.IsValid {
		t.Fatal("Expected active member cash-out to be blocked")
	}

	entries, _ := f.transactions.GetAll()
	if len(entries) != 0 {
		t.Errorf("Expected no ledger entries, got %d", len(entries))
	}
}

func TestDeleteMember_BlockedByActiveLoans(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(5000)
	f.loanRepo.AddLoan(&domain.Loan{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(1000),
		Balance:  decimal.NewFromInt(1000),
		Status:   domain.LoanStatusActive,
	})

	err := f.member.DeleteMember(member.ID)

	if err != domain.ErrMemberHasActiveLoans {
		t.Errorf("Expected ErrMemberHasActiveLoans, got %v", err)
	}
	if _, err := f.members.GetByID(member.ID); err != nil {
		t.Error("Expected member to still exist")
	}
}

func TestDeleteMember_Success(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(5000)

	if err := f.member.DeleteMember(member.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := f.members.GetByID(member.ID); err != domain.ErrMemberNotFound {
		t.Errorf("Expected member gone, got %v", err)
	}
}

func TestUpdateMember_PartialChanges(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(5000)
	role := domain.RoleRegular

	updated, err := f.member.UpdateMember(member.ID, UpdateMemberInput{
		Role:                  &role,
		CustomRepaymentMonths: []int32{9},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Role != domain.RoleRegular {
		t.Errorf("Expected role regular, got %s", updated.Role)
	}
	if len(updated.CustomRepaymentMonths) != 1 || updated.CustomRepaymentMonths[0] != 9 {
		t.Errorf("Expected custom months [9], got %v", updated.CustomRepaymentMonths)
	}
	if updated.Name != "Hassan" {
		t.Errorf("Expected name unchanged, got %q", updated.Name)
	}
}

func TestMemberTenureMonths(t *testing.T) {
	member := &domain.Member{JoinDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)}

	now := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	if got := member.TenureMonths(now); got != 5 {
		t.Errorf("Expected 5 whole months the day before the anniversary, got %d", got)
	}

	now = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	if got := member.TenureMonths(now); got != 6 {
		t.Errorf("Expected 6 months on the anniversary, got %d", got)
	}

	now = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := member.TenureMonths(now); got != 0 {
		t.Errorf("Expected 0 before the join date, got %d", got)
	}
}
