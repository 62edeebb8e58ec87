package postgres

import (
	"context"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRuleRepository implements domain.BudgetRuleRepository using PostgreSQL
type BudgetRuleRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRuleRepository creates a new BudgetRuleRepository
func NewBudgetRuleRepository(pool *pgxpool.Pool) *BudgetRuleRepository {
	return &BudgetRuleRepository{pool: pool}
}

const ruleColumns = `id, user_id, name, category, calc_type, value, cadence,
	priority, depends_on, is_active, created_at, updated_at`

// Create creates a new budget rule
func (r *BudgetRuleRepository) Create(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	value, err := decimalToPgNumeric(rule.Value)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO budget_rules (user_id, name, category, calc_type, value, cadence, priority, depends_on, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+ruleColumns,
		rule.UserID, rule.Name, rule.Category, rule.CalcType, value,
		rule.Cadence, rule.Priority, rule.DependsOn, rule.IsActive)
	return scanRule(row)
}

// GetByID retrieves a budget rule by ID within a user's scope
func (r *BudgetRuleRepository) GetByID(userID uuid.UUID, id int32) (*domain.BudgetRule, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+ruleColumns+` FROM budget_rules WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanRule(row)
}

// ListByUser retrieves budget rules for a user, ordered by priority
func (r *BudgetRuleRepository) ListByUser(userID uuid.UUID, activeOnly bool) ([]*domain.BudgetRule, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+ruleColumns+` FROM budget_rules
		 WHERE user_id = $1 AND ($2 = false OR is_active)
		 ORDER BY priority, id`,
		userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.BudgetRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Update updates an existing budget rule
func (r *BudgetRuleRepository) Update(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	value, err := decimalToPgNumeric(rule.Value)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE budget_rules
		SET name = $3, category = $4, calc_type = $5, value = $6, cadence = $7,
		    priority = $8, depends_on = $9, is_active = $10, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+ruleColumns,
		rule.UserID, rule.ID, rule.Name, rule.Category, rule.CalcType, value,
		rule.Cadence, rule.Priority, rule.DependsOn, rule.IsActive)
	return scanRule(row)
}

// Delete deletes a budget rule
func (r *BudgetRuleRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM budget_rules WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func scanRule(row pgx.Row) (*domain.BudgetRule, error) {
	var (
		rule  domain.BudgetRule
		value pgtype.Numeric
	)
	err := row.Scan(&rule.ID, &rule.UserID, &rule.Name, &rule.Category,
		&rule.CalcType, &value, &rule.Cadence, &rule.Priority, &rule.DependsOn,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}
	rule.Value = pgNumericToDecimal(value)
	return &rule, nil
}
