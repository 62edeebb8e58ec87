package postgres

import (
	"context"
	"encoding/json"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AllocationRepository implements domain.AllocationRepository using PostgreSQL
type AllocationRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

const allocationColumns = `id, period_id, rule_id, expected_amount,
	actual_amount, status, trace, created_at, updated_at`

// GetByID retrieves an allocation by ID
func (r *AllocationRepository) GetByID(id int32) (*domain.Allocation, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+allocationColumns+` FROM allocations WHERE id = $1`, id)
	return scanAllocation(row)
}

// ListByPeriod retrieves all allocations for a pay period
func (r *AllocationRepository) ListByPeriod(periodID int32) ([]*domain.Allocation, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+allocationColumns+` FROM allocations
		 WHERE period_id = $1 ORDER BY id`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []*domain.Allocation
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, alloc)
	}
	return allocations, rows.Err()
}

// ReplaceForPeriod deletes all allocations for the period and inserts the
// fresh batch in one transaction, so concurrent readers never observe a mix of
// two generations
func (r *AllocationRepository) ReplaceForPeriod(periodID int32, allocations []*domain.Allocation) ([]*domain.Allocation, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM allocations WHERE period_id = $1`, periodID); err != nil {
		return nil, err
	}

	inserted := make([]*domain.Allocation, 0, len(allocations))
	for _, alloc := range allocations {
		expected, err := decimalToPgNumeric(alloc.ExpectedAmount)
		if err != nil {
			return nil, err
		}
		trace, err := json.Marshal(alloc.Trace)
		if err != nil {
			return nil, err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO allocations (period_id, rule_id, expected_amount, status, trace)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+allocationColumns,
			periodID, alloc.RuleID, expected, alloc.Status, trace)
		created, err := scanAllocation(row)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}

// UpdateStatus sets an allocation's status and actual amount together; a nil
// actual clears the stored value
func (r *AllocationRepository) UpdateStatus(id int32, status domain.AllocationStatus, actual *decimal.Decimal) (*domain.Allocation, error) {
	var actualNum *pgtype.Numeric
	if actual != nil {
		num, err := decimalToPgNumeric(*actual)
		if err != nil {
			return nil, err
		}
		actualNum = &num
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE allocations
		SET status = $2, actual_amount = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+allocationColumns,
		id, status, actualNum)
	return scanAllocation(row)
}

func scanAllocation(row pgx.Row) (*domain.Allocation, error) {
	var (
		alloc    domain.Allocation
		expected pgtype.Numeric
		actual   pgtype.Numeric
		trace    []byte
	)
	err := row.Scan(&alloc.ID, &alloc.PeriodID, &alloc.RuleID, &expected,
		&actual, &alloc.Status, &trace, &alloc.CreatedAt, &alloc.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}
	alloc.ExpectedAmount = pgNumericToDecimal(expected)
	if actual.Valid {
		d := pgNumericToDecimal(actual)
		alloc.ActualAmount = &d
	}
	if len(trace) > 0 {
		if err := json.Unmarshal(trace, &alloc.Trace); err != nil {
			return nil, err
		}
	}
	return &alloc, nil
}
