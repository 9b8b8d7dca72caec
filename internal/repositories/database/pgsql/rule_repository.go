package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/rental_reconciler/internal/models"
	"github.com/SscSPs/rental_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRuleRepository struct {
	BaseRepository
}

// newPgxRuleRepository creates a new repository for allocation rules.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

const ruleColumns = `rule_id, name, transaction_type, category_id, is_active, priority,
	created_at, created_by, last_updated_at, last_updated_by`

// Rules are ordered by priority; equal priorities fall back to creation order.
const ruleOrder = `ORDER BY priority, rule_id`

func scanRule(row pgx.Row) (models.AllocationRule, error) {
	var m models.AllocationRule
	err := row.Scan(
		&m.RuleID,
		&m.Name,
		&m.TransactionType,
		&m.CategoryID,
		&m.IsActive,
		&m.Priority,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindRuleByID retrieves a rule with its conditions.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error) {
	m, err := scanRule(r.Pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM allocation_rules WHERE rule_id = $1;`, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("rule %d: %w", ruleID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find rule %d", ruleID), err)
	}

	rules, err := r.attachConditions(ctx, []models.AllocationRule{m})
	if err != nil {
		return nil, err
	}
	return &rules[0], nil
}

// ListActiveRulesFor returns the active rules of a transaction type in priority order.
func (r *PgxRuleRepository) ListActiveRulesFor(ctx context.Context, txnType domain.TransactionType) ([]domain.AllocationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM allocation_rules WHERE transaction_type = $1 AND is_active ` + ruleOrder + `;`
	return r.queryRules(ctx, query, string(txnType))
}

// ListRules returns all rules in priority order, optionally filtered by type.
func (r *PgxRuleRepository) ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error) {
	if txnType == nil {
		return r.queryRules(ctx, `SELECT `+ruleColumns+` FROM allocation_rules `+ruleOrder+`;`)
	}
	query := `SELECT ` + ruleColumns + ` FROM allocation_rules WHERE transaction_type = $1 ` + ruleOrder + `;`
	return r.queryRules(ctx, query, string(*txnType))
}

func (r *PgxRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]domain.AllocationRule, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rules", err)
	}
	defer rows.Close()

	var ruleModels []models.AllocationRule
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rule", err)
		}
		ruleModels = append(ruleModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating rules", err)
	}
	return r.attachConditions(ctx, ruleModels)
}

// attachConditions loads the conditions of all given rules with one query and
// returns the domain rules in the input order.
func (r *PgxRuleRepository) attachConditions(ctx context.Context, ruleModels []models.AllocationRule) ([]domain.AllocationRule, error) {
	result := make([]domain.AllocationRule, 0, len(ruleModels))
	if len(ruleModels) == 0 {
		return result, nil
	}

	ids := make([]int64, len(ruleModels))
	for i, m := range ruleModels {
		ids[i] = m.RuleID
	}
	query := `
		SELECT rule_id, position, field, operator, value
		FROM rule_conditions
		WHERE rule_id = ANY($1)
		ORDER BY rule_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rule conditions", err)
	}
	defer rows.Close()

	byRule := make(map[int64][]models.RuleCondition, len(ruleModels))
	for rows.Next() {
		var c models.RuleCondition
		if err := rows.Scan(&c.RuleID, &c.Position, &c.Field, &c.Operator, &c.Value); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rule condition", err)
		}
		byRule[c.RuleID] = append(byRule[c.RuleID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating rule conditions", err)
	}

	for _, m := range ruleModels {
		result = append(result, mapping.ToDomainAllocationRule(m, byRule[m.RuleID]))
	}
	return result, nil
}

func queueConditions(batch *pgx.Batch, ruleID int64, conditions []models.RuleCondition) {
	query := `INSERT INTO rule_conditions (rule_id, position, field, operator, value) VALUES ($1, $2, $3, $4, $5);`
	for _, c := range conditions {
		batch.Queue(query, ruleID, c.Position, c.Field, c.Operator, c.Value)
	}
}

// SaveRule inserts a rule and its conditions. A zero priority places the rule last.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.AllocationRule) (*domain.AllocationRule, error) {
	m, conditions := mapping.ToModelAllocationRule(rule)

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if m.Priority == 0 {
			if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(priority), 0) + 1 FROM allocation_rules;`).Scan(&m.Priority); err != nil {
				return apperrors.NewAppError(500, "failed to compute rule priority", err)
			}
		}

		query := `
			INSERT INTO allocation_rules (name, transaction_type, category_id, is_active, priority,
			                              created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING rule_id;
		`
		err := tx.QueryRow(ctx, query,
			m.Name, m.TransactionType, m.CategoryID, m.IsActive, m.Priority,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).Scan(&m.RuleID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert rule "+m.Name, err)
		}

		batch := &pgx.Batch{}
		queueConditions(batch, m.RuleID, conditions)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert rule conditions", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := rule
	saved.ID = m.RuleID
	saved.Priority = m.Priority
	return &saved, nil
}

// UpdateRule replaces a rule's columns and conditions. Priority is changed only by UpdateRulePriorities.
func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.AllocationRule) error {
	m, conditions := mapping.ToModelAllocationRule(rule)

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE allocation_rules
			SET name = $2, transaction_type = $3, category_id = $4, is_active = $5,
			    last_updated_at = $6, last_updated_by = $7
			WHERE rule_id = $1;
		`
		cmdTag, err := tx.Exec(ctx, query, m.RuleID, m.Name, m.TransactionType, m.CategoryID, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to update rule %d", m.RuleID), err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("rule %d: %w", m.RuleID, apperrors.ErrNotFound)
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM rule_conditions WHERE rule_id = $1;`, m.RuleID)
		queueConditions(batch, m.RuleID, conditions)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to replace conditions of rule %d", m.RuleID), err)
		}
		return nil
	})
}

// DeleteRule removes a rule; its conditions are removed by cascade.
func (r *PgxRuleRepository) DeleteRule(ctx context.Context, ruleID int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM allocation_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to delete rule %d", ruleID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("rule %d: %w", ruleID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateRulePriorities sets each listed rule's priority to its 1-based position in ruleIDs.
func (r *PgxRuleRepository) UpdateRulePriorities(ctx context.Context, ruleIDs []int64, updatedBy string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE allocation_rules
			SET priority = $2, last_updated_at = NOW(), last_updated_by = $3
			WHERE rule_id = $1;
		`
		batch := &pgx.Batch{}
		for i, id := range ruleIDs {
			batch.Queue(query, id, i+1, updatedBy)
		}

		br := tx.SendBatch(ctx, batch)
		for _, id := range ruleIDs {
			cmdTag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return apperrors.NewAppError(500, fmt.Sprintf("failed to update priority of rule %d", id), err)
			}
			if cmdTag.RowsAffected() == 0 {
				_ = br.Close()
				return fmt.Errorf("rule %d: %w", id, apperrors.ErrNotFound)
			}
		}
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute rule priority batch", err)
		}
		return nil
	})
}
