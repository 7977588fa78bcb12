// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL, verifies the connection and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			emoji TEXT NOT NULL,
			currency TEXT NOT NULL,
			created_at BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS group_members (
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (group_id, name)
		);
		CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			payer TEXT NOT NULL,
			split_logic TEXT NOT NULL,
			created_at BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS expense_splits (
			expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
			member TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (expense_id, member)
		);
		CREATE TABLE IF NOT EXISTS settlements (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			from_member TEXT NOT NULL,
			to_member TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			note TEXT,
			created_at BIGINT NOT NULL,
			created_by TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
		CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
		CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id);
		CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id);
	`)
	return err
}

func requireAffected(tag pgconn.CommandTag, kind, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// CreateGroup persists a new group and its ordered member list.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"INSERT INTO groups (id, name, emoji, currency, created_at) VALUES ($1, $2, $3, $4, $5)",
			group.ID, group.Name, group.Emoji, string(group.Currency), group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertMembers(ctx, tx, group.ID, group.Members)
	})
}

func insertMembers(ctx context.Context, tx pgx.Tx, groupID string, members []string) error {
	if len(members) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, name := range members {
		batch.Queue("INSERT INTO group_members (group_id, name, position) VALUES ($1, $2, $3)", groupID, name, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert members: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var currency string
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, emoji, currency, created_at FROM groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Emoji, &currency, &group.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Currency = models.Currency(currency)

	members, err := s.listMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

func (s *Store) listMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT name FROM group_members WHERE group_id = $1 ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	return members, nil
}

// ListGroups retrieves all groups with their members.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, emoji, currency, created_at FROM groups ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Group, error) {
		group := &models.Group{}
		var currency string
		if err := row.Scan(&group.ID, &group.Name, &group.Emoji, &currency, &group.CreatedAt); err != nil {
			return nil, err
		}
		group.Currency = models.Currency(currency)
		return group, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.listMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}
	return groups, nil
}

// UpdateGroup updates a group's details and replaces its member list.
func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE groups SET name = $1, emoji = $2, currency = $3 WHERE id = $4",
			group.Name, group.Emoji, string(group.Currency), group.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		if err := requireAffected(tag, "group", group.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM group_members WHERE group_id = $1", group.ID); err != nil {
			return fmt.Errorf("failed to clear members: %w", err)
		}
		return insertMembers(ctx, tx, group.ID, group.Members)
	})
}

// DeleteGroup removes a group. Expenses and settlements cascade.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM groups WHERE id = $1", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireAffected(tag, "group", groupID)
}
