package postgres

import (
	"context"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PayPeriodRepository implements domain.PayPeriodRepository using PostgreSQL.
// A partial unique index on (income_id) WHERE status = 'ACTIVE' backs the
// single-active-period invariant at commit time.
type PayPeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPayPeriodRepository creates a new PayPeriodRepository
func NewPayPeriodRepository(pool *pgxpool.Pool) *PayPeriodRepository {
	return &PayPeriodRepository{pool: pool}
}

const periodColumns = `id, income_id, start_date, end_date, expected_net,
	days_in_period, status, created_at, updated_at`

// Create creates a new pay period
func (r *PayPeriodRepository) Create(period *domain.PayPeriod) (*domain.PayPeriod, error) {
	expected, err := decimalToPgNumeric(period.ExpectedNet)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO pay_periods (income_id, start_date, end_date, expected_net, days_in_period, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+periodColumns,
		period.IncomeID, timeToPgDate(period.StartDate), timeToPgDate(period.EndDate),
		expected, period.DaysInPeriod, period.Status)
	return scanPeriod(row)
}

// GetByID retrieves a pay period by ID
func (r *PayPeriodRepository) GetByID(id int32) (*domain.PayPeriod, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+periodColumns+` FROM pay_periods WHERE id = $1`, id)
	return scanPeriod(row)
}

// GetLatest retrieves the most recent pay period for an income profile
func (r *PayPeriodRepository) GetLatest(incomeID int32) (*domain.PayPeriod, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+periodColumns+` FROM pay_periods
		 WHERE income_id = $1 ORDER BY end_date DESC LIMIT 1`, incomeID)
	return scanPeriod(row)
}

// ListByIncome retrieves all pay periods for an income profile
func (r *PayPeriodRepository) ListByIncome(incomeID int32) ([]*domain.PayPeriod, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+periodColumns+` FROM pay_periods
		 WHERE income_id = $1 ORDER BY start_date`, incomeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.PayPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, rows.Err()
}

// CountActiveExcluding counts ACTIVE periods for the income profile other than
// excludeID
func (r *PayPeriodRepository) CountActiveExcluding(incomeID int32, excludeID int32) (int, error) {
	var count int
	err := r.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM pay_periods
		 WHERE income_id = $1 AND id <> $2 AND status = $3`,
		incomeID, excludeID, domain.PeriodStatusActive).Scan(&count)
	return count, err
}

// UpdateStatus sets a pay period's status
func (r *PayPeriodRepository) UpdateStatus(id int32, status domain.PeriodStatus) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE pay_periods SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPeriodNotFound
	}
	return nil
}

func scanPeriod(row pgx.Row) (*domain.PayPeriod, error) {
	var (
		period   domain.PayPeriod
		expected pgtype.Numeric
	)
	err := row.Scan(&period.ID, &period.IncomeID, &period.StartDate, &period.EndDate,
		&expected, &period.DaysInPeriod, &period.Status, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	period.ExpectedNet = pgNumericToDecimal(expected)
	return &period, nil
}
