package postgres

import (
	"context"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncomeProfileRepository implements domain.IncomeProfileRepository using
// PostgreSQL
type IncomeProfileRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeProfileRepository creates a new IncomeProfileRepository
func NewIncomeProfileRepository(pool *pgxpool.Pool) *IncomeProfileRepository {
	return &IncomeProfileRepository{pool: pool}
}

const incomeColumns = `id, user_id, name, cadence, gross_amount, net_amount,
	start_date, end_date, is_active, created_at, updated_at`

// Create creates a new income profile
func (r *IncomeProfileRepository) Create(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	gross, err := decimalToPgNumeric(income.GrossAmount)
	if err != nil {
		return nil, err
	}
	net, err := decimalToPgNumeric(income.NetAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO income_profiles (user_id, name, cadence, gross_amount, net_amount, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+incomeColumns,
		income.UserID, income.Name, income.Cadence, gross, net,
		timeToPgDate(income.StartDate), income.EndDate, income.IsActive)
	return scanIncome(row)
}

// GetByID retrieves an income profile by ID within a user's scope
func (r *IncomeProfileRepository) GetByID(userID uuid.UUID, id int32) (*domain.IncomeProfile, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+incomeColumns+` FROM income_profiles WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanIncome(row)
}

// ListByUser retrieves income profiles for a user
func (r *IncomeProfileRepository) ListByUser(userID uuid.UUID, activeOnly bool) ([]*domain.IncomeProfile, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+incomeColumns+` FROM income_profiles
		 WHERE user_id = $1 AND ($2 = false OR is_active)
		 ORDER BY id`,
		userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []*domain.IncomeProfile
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// Update updates an existing income profile
func (r *IncomeProfileRepository) Update(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	gross, err := decimalToPgNumeric(income.GrossAmount)
	if err != nil {
		return nil, err
	}
	net, err := decimalToPgNumeric(income.NetAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE income_profiles
		SET name = $3, cadence = $4, gross_amount = $5, net_amount = $6,
		    start_date = $7, end_date = $8, is_active = $9, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+incomeColumns,
		income.UserID, income.ID, income.Name, income.Cadence, gross, net,
		timeToPgDate(income.StartDate), income.EndDate, income.IsActive)
	return scanIncome(row)
}

// Delete deletes an income profile
func (r *IncomeProfileRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM income_profiles WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}

func scanIncome(row pgx.Row) (*domain.IncomeProfile, error) {
	var (
		income domain.IncomeProfile
		gross  pgtype.Numeric
		net    pgtype.Numeric
	)
	err := row.Scan(&income.ID, &income.UserID, &income.Name, &income.Cadence,
		&gross, &net, &income.StartDate, &income.EndDate, &income.IsActive,
		&income.CreatedAt, &income.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	income.GrossAmount = pgNumericToDecimal(gross)
	income.NetAmount = pgNumericToDecimal(net)
	return &income, nil
}
