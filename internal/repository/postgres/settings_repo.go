package postgres

import (
	"context"
	"errors"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL.
// The fund has exactly one settings row.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const settingsColumns = `id, monthly_contribution, annual_interest_rate,
	utilization_warning_threshold, minimum_fund_balance, external_investment_remaining,
	total_interest_applied, last_interest_applied_date, updated_at`

func scanSettings(row rowScanner) (*domain.FundSettings, error) {
	var s domain.FundSettings
	var monthly, rate, threshold, minimum, external, interest pgtype.Numeric

	err := row.Scan(
		&s.ID, &monthly, &rate, &threshold, &minimum, &external, &interest,
		&s.LastInterestAppliedDate, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.MonthlyContribution, err = numericToDecimal(monthly); err != nil {
		return nil, err
	}
	if s.AnnualInterestRate, err = numericToDecimal(rate); err != nil {
		return nil, err
	}
	if s.UtilizationWarningThreshold, err = numericToDecimal(threshold); err != nil {
		return nil, err
	}
	if s.MinimumFundBalance, err = numericToDecimal(minimum); err != nil {
		return nil, err
	}
	if s.ExternalInvestmentRemaining, err = numericToDecimal(external); err != nil {
		return nil, err
	}
	if s.TotalInterestApplied, err = numericToDecimal(interest); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreate fetches the settings row, inserting the defaults when none
// exists yet
func (r *SettingsRepository) GetOrCreate() (*domain.FundSettings, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+settingsColumns+` FROM fund_settings ORDER BY id LIMIT 1`)
	settings, err := scanSettings(row)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	defaults := domain.DefaultFundSettings()
	monthly, err := decimalToNumeric(defaults.MonthlyContribution)
	if err != nil {
		return nil, err
	}
	rate, err := decimalToNumeric(defaults.AnnualInterestRate)
	if err != nil {
		return nil, err
	}
	threshold, err := decimalToNumeric(defaults.UtilizationWarningThreshold)
	if err != nil {
		return nil, err
	}

	row = r.pool.QueryRow(context.Background(), `
		INSERT INTO fund_settings (monthly_contribution, annual_interest_rate,
			utilization_warning_threshold, minimum_fund_balance,
			external_investment_remaining, total_interest_applied)
		VALUES ($1, $2, $3, 0, 0, 0)
		RETURNING `+settingsColumns,
		monthly, rate, threshold,
	)
	return scanSettings(row)
}

// Update persists settings changes
func (r *SettingsRepository) Update(settings *domain.FundSettings) (*domain.FundSettings, error) {
	return r.update(r.pool, settings)
}

// UpdateTx persists settings changes within a transaction
func (r *SettingsRepository) UpdateTx(tx interface{}, settings *domain.FundSettings) (*domain.FundSettings, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.update(pgxTx, settings)
}

func (r *SettingsRepository) update(q querier, settings *domain.FundSettings) (*domain.FundSettings, error) {
	monthly, err := decimalToNumeric(settings.MonthlyContribution)
	if err != nil {
		return nil, err
	}
	rate, err := decimalToNumeric(settings.AnnualInterestRate)
	if err != nil {
		return nil, err
	}
	threshold, err := decimalToNumeric(settings.UtilizationWarningThreshold)
	if err != nil {
		return nil, err
	}
	minimum, err := decimalToNumeric(settings.MinimumFundBalance)
	if err != nil {
		return nil, err
	}
	external, err := decimalToNumeric(settings.ExternalInvestmentRemaining)
	if err != nil {
		return nil, err
	}
	interest, err := decimalToNumeric(settings.TotalInterestApplied)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		UPDATE fund_settings
		SET monthly_contribution = $2, annual_interest_rate = $3,
			utilization_warning_threshold = $4, minimum_fund_balance = $5,
			external_investment_remaining = $6, total_interest_applied = $7,
			last_interest_applied_date = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+settingsColumns,
		settings.ID, monthly, rate, threshold, minimum, external, interest,
		settings.LastInterestAppliedDate,
	)
	updated, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSettingsNotFound
	}
	return updated, err
}
