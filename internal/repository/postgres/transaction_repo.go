package postgres

import (
	"context"
	"errors"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. The ledger is append-only; Update serves only the
// reconciliation maintenance pass.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, member_id, payment_id, loan_id, amount, type,
	balance_snapshot, description, occurred_at, created_at`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var txType string
	var amount, snapshot pgtype.Numeric

	err := row.Scan(
		&t.ID, &t.MemberID, &t.PaymentID, &t.LoanID, &amount, &txType,
		&snapshot, &t.Description, &t.OccurredAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	if t.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	if t.BalanceSnapshot, err = numericToDecimal(snapshot); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	return r.create(r.pool, transaction)
}

// CreateTx appends a ledger entry within a transaction
func (r *TransactionRepository) CreateTx(tx interface{}, transaction *domain.Transaction) (*domain.Transaction, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.create(pgxTx, transaction)
}

func (r *TransactionRepository) create(q querier, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}
	snapshot, err := decimalToNumeric(transaction.BalanceSnapshot)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		INSERT INTO transactions (member_id, payment_id, loan_id, amount, type,
			balance_snapshot, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		transaction.MemberID, transaction.PaymentID, transaction.LoanID, amount,
		string(transaction.Type), snapshot, transaction.Description, transaction.OccurredAt,
	)
	return scanTransaction(row)
}

// GetByID retrieves a ledger entry by ID
func (r *TransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	transaction, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, err
}

// GetAll retrieves the full ledger, newest first
func (r *TransactionRepository) GetAll() ([]*domain.Transaction, error) {
	return r.list(`SELECT ` + transactionColumns + ` FROM transactions ORDER BY occurred_at DESC, id DESC`)
}

// GetByMember retrieves a member's ledger entries, newest first
func (r *TransactionRepository) GetByMember(memberID int32) ([]*domain.Transaction, error) {
	return r.list(`SELECT `+transactionColumns+` FROM transactions WHERE member_id = $1 ORDER BY occurred_at DESC, id DESC`, memberID)
}

// GetByPaymentID retrieves the ledger entry linked to a payment
func (r *TransactionRepository) GetByPaymentID(paymentID int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+transactionColumns+` FROM transactions WHERE payment_id = $1`, paymentID)
	transaction, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, err
}

func (r *TransactionRepository) list(sql string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update corrects a ledger entry's amount and type. Maintenance use only.
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions SET amount = $2, type = $3
		WHERE id = $1
		RETURNING `+transactionColumns,
		transaction.ID, amount, string(transaction.Type),
	)
	updated, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return updated, err
}
