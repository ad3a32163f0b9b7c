package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrMemberNameTooShort   = errors.New("member name must be at least 2 characters")
	ErrMemberRoleInvalid    = errors.New("member role is invalid")
	ErrMemberStatusInvalid  = errors.New("member status is invalid")
	ErrMemberHasActiveLoans = errors.New("member has active loans")
)

// MemberRole determines loan limits, allowed repayment terms and minimum tenure
type MemberRole string

const (
	RoleFounder   MemberRole = "founder"
	RoleRegular   MemberRole = "regular"
	RoleAssociate MemberRole = "associate"
)

// Valid reports whether the role is one of the known roles
func (r MemberRole) Valid() bool {
	switch r {
	case RoleFounder, RoleRegular, RoleAssociate:
		return true
	}
	return false
}

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusSuspended MemberStatus = "suspended"
	MemberStatusInactive  MemberStatus = "inactive"
)

// Valid reports whether the status is one of the known statuses
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusSuspended, MemberStatusInactive:
		return true
	}
	return false
}

type Member struct {
	ID                    int32           `json:"id"`
	Name                  string          `json:"name"`
	Email                 *string         `json:"email,omitempty"`
	Phone                 *string         `json:"phone,omitempty"`
	Role                  MemberRole      `json:"role"`
	Status                MemberStatus    `json:"status"`
	JoinDate              time.Time       `json:"joinDate"`
	TotalContributions    decimal.Decimal `json:"totalContributions"`
	CustomRepaymentMonths []int32         `json:"customRepaymentMonths,omitempty"`
	CashOutAmount         decimal.Decimal `json:"cashOutAmount"`
	CashOutDate           *time.Time      `json:"cashOutDate,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	DeletedAt             *time.Time      `json:"deletedAt,omitempty"`
}

// TenureMonths returns the number of whole months the member has been in the fund
func (m *Member) TenureMonths(now time.Time) int {
	if now.Before(m.JoinDate) {
		return 0
	}
	months := (now.Year()-m.JoinDate.Year())*12 + int(now.Month()) - int(m.JoinDate.Month())
	if now.Day() < m.JoinDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

type MemberRepository interface {
	Create(member *Member) (*Member, error)
	GetByID(id int32) (*Member, error)
	GetAll() ([]*Member, error)
	Update(member *Member) (*Member, error)
	UpdateTx(tx interface{}, member *Member) (*Member, error)
	SoftDelete(id int32) error
	SumContributions() (decimal.Decimal, error)
	SumCashOuts() (decimal.Decimal, error)
	CountByStatus(status MemberStatus) (int64, error)
	CountAll() (int64, error)
}
