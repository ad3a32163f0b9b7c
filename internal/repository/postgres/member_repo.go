package postgres

import (
	"context"
	"errors"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, name, email, phone, role, status, join_date, total_contributions,
	custom_repayment_months, cash_out_amount, cash_out_date, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var m domain.Member
	var role, status string
	var contributions, cashOut pgtype.Numeric

	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &role, &status, &m.JoinDate,
		&contributions, &m.CustomRepaymentMonths, &cashOut, &m.CashOutDate,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Role = domain.MemberRole(role)
	m.Status = domain.MemberStatus(status)
	if m.TotalContributions, err = numericToDecimal(contributions); err != nil {
		return nil, err
	}
	if m.CashOutAmount, err = numericToDecimal(cashOut); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new member
func (r *MemberRepository) Create(member *domain.Member) (*domain.Member, error) {
	contributions, err := decimalToNumeric(member.TotalContributions)
	if err != nil {
		return nil, err
	}
	cashOut, err := decimalToNumeric(member.CashOutAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO members (name, email, phone, role, status, join_date, total_contributions,
			custom_repayment_months, cash_out_amount, cash_out_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+memberColumns,
		member.Name, member.Email, member.Phone, string(member.Role), string(member.Status),
		member.JoinDate, contributions, member.CustomRepaymentMonths, cashOut, member.CashOutDate,
	)
	return scanMember(row)
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(id int32) (*domain.Member, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+memberColumns+` FROM members
		WHERE id = $1 AND deleted_at IS NULL`, id)
	member, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	return member, err
}

// GetAll retrieves all members ordered by join date
func (r *MemberRepository) GetAll() ([]*domain.Member, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+memberColumns+` FROM members
		WHERE deleted_at IS NULL
		ORDER BY join_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// Update persists member changes
func (r *MemberRepository) Update(member *domain.Member) (*domain.Member, error) {
	return r.update(r.pool, member)
}

// UpdateTx persists member changes within a transaction
func (r *MemberRepository) UpdateTx(tx interface{}, member *domain.Member) (*domain.Member, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.update(pgxTx, member)
}

func (r *MemberRepository) update(q querier, member *domain.Member) (*domain.Member, error) {
	contributions, err := decimalToNumeric(member.TotalContributions)
	if err != nil {
		return nil, err
	}
	cashOut, err := decimalToNumeric(member.CashOutAmount)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		UPDATE members
		SET name = $2, email = $3, phone = $4, role = $5, status = $6, join_date = $7,
			total_contributions = $8, custom_repayment_months = $9, cash_out_amount = $10,
			cash_out_date = $11, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+memberColumns,
		member.ID, member.Name, member.Email, member.Phone, string(member.Role),
		string(member.Status), member.JoinDate, contributions, member.CustomRepaymentMonths,
		cashOut, member.CashOutDate,
	)
	updated, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	return updated, err
}

// SoftDelete marks a member as deleted
func (r *MemberRepository) SoftDelete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE members SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// SumContributions sums the cached contribution totals over all members
func (r *MemberRepository) SumContributions() (decimal.Decimal, error) {
	return r.sum(`SELECT COALESCE(SUM(total_contributions), 0) FROM members WHERE deleted_at IS NULL`)
}

// SumCashOuts sums the recorded cash-out amounts over all members
func (r *MemberRepository) SumCashOuts() (decimal.Decimal, error) {
	return r.sum(`SELECT COALESCE(SUM(cash_out_amount), 0) FROM members WHERE deleted_at IS NULL`)
}

func (r *MemberRepository) sum(sql string) (decimal.Decimal, error) {
	var n pgtype.Numeric
	if err := r.pool.QueryRow(context.Background(), sql).Scan(&n); err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(n)
}

// CountByStatus counts members in a given status
func (r *MemberRepository) CountByStatus(status domain.MemberStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM members WHERE status = $1 AND deleted_at IS NULL`,
		string(status)).Scan(&count)
	return count, err
}

// CountAll counts all members
func (r *MemberRepository) CountAll() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM members WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}
