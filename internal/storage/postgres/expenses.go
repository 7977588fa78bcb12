package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/storage"
)

const expenseColumns = "id, group_id, description, amount, date, payer, split_logic, created_at"

// CreateExpense persists a new expense and its split distribution.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO expenses (`+expenseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.Date.UTC(), expense.Payer, string(expense.SplitLogic), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return insertSplits(ctx, tx, expense.ID, expense.SplitDistribution)
	})
}

func insertSplits(ctx context.Context, tx pgx.Tx, expenseID string, shares []models.SplitShare) error {
	if len(shares) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, share := range shares {
		batch.Queue("INSERT INTO expense_splits (expense_id, member, value, position) VALUES ($1, $2, $3, $4)",
			expenseID, share.Member, share.Value, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert splits: %w", err)
	}
	return nil
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	expense := &models.Expense{SplitDistribution: []models.SplitShare{}}
	var logic string
	if err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Date, &expense.Payer, &logic, &expense.CreatedAt); err != nil {
		return nil, err
	}
	expense.Date = expense.Date.UTC()
	expense.SplitLogic = models.SplitLogic(logic)
	return expense, nil
}

// GetExpense retrieves an expense by ID, including its split distribution.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.pool.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1", expenseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT expense_id, member, value FROM expense_splits WHERE expense_id = $1 ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	if err := attachSplits(rows, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group, most recent date first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = $1 ORDER BY date DESC, created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan expenses: %w", err)
	}

	byID := make(map[string]*models.Expense, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
	}

	splitRows, err := s.pool.Query(ctx,
		`SELECT s.expense_id, s.member, s.value
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = $1
		 ORDER BY s.expense_id, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits by group: %w", err)
	}
	if err := attachSplits(splitRows, byID); err != nil {
		return nil, err
	}
	return expenses, nil
}

func attachSplits(rows pgx.Rows, byID map[string]*models.Expense) error {
	defer rows.Close()
	for rows.Next() {
		var expenseID string
		var share models.SplitShare
		if err := rows.Scan(&expenseID, &share.Member, &share.Value); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.SplitDistribution = append(expense.SplitDistribution, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense's fields and split distribution.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE expenses SET description = $1, amount = $2, date = $3, payer = $4, split_logic = $5
			 WHERE id = $6`,
			expense.Description, expense.Amount, expense.Date.UTC(), expense.Payer,
			string(expense.SplitLogic), expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := requireAffected(tag, "expense", expense.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM expense_splits WHERE expense_id = $1", expense.ID); err != nil {
			return fmt.Errorf("failed to clear splits: %w", err)
		}
		return insertSplits(ctx, tx, expense.ID, expense.SplitDistribution)
	})
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(tag, "expense", expenseID)
}

const settlementColumns = "id, group_id, from_member, to_member, amount, note, created_at, created_by"

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note *string
	if err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.From, &settlement.To,
		&settlement.Amount, &note, &settlement.CreatedAt, &settlement.CreatedBy); err != nil {
		return nil, err
	}
	if note != nil {
		settlement.Note = *note
	}
	return settlement, nil
}

// CreateSettlement persists a new settlement.
func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note *string
	if settlement.Note != "" {
		note = &settlement.Note
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		settlement.ID, settlement.GroupID, settlement.From, settlement.To,
		settlement.Amount, note, settlement.CreatedAt, settlement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.pool.QueryRow(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = $1", settlementID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group.
func (s *Store) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = $1 ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	settlements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Settlement, error) {
		return scanSettlement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *Store) DeleteSettlement(ctx context.Context, settlementID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM settlements WHERE id = $1", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return requireAffected(tag, "settlement", settlementID)
}
