package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/storage"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService. Every expense is
// validated against its group before it is stored, so the ledger only ever
// sees well-formed splits.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// AddExpense validates and records a new expense.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	s.logger.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"split_logic", req.Msg.SplitLogic,
	)
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("AddExpense failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	expense, err := validateExpense(group, expenseInput{
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Date:        req.Msg.Date,
		Payer:       req.Msg.Payer,
		SplitLogic:  models.SplitLogic(req.Msg.SplitLogic),
		Shares:      fromAPIShares(req.Msg.SplitDistribution),
	})
	if err != nil {
		s.logger.Warn("AddExpense validation failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("AddExpense failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Expense added", "group_id", group.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense's fields. The expense stays in its group.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	s.logger.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)
	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}
	group, err := s.store.GetGroup(ctx, existing.GroupID)
	if err != nil {
		s.logger.Error("UpdateExpense failed - group not found", "group_id", existing.GroupID, "error", err)
		return nil, storeError(err)
	}

	expense, err := validateExpense(group, expenseInput{
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Date:        req.Msg.Date,
		Payer:       req.Msg.Payer,
		SplitLogic:  models.SplitLogic(req.Msg.SplitLogic),
		Shares:      fromAPIShares(req.Msg.SplitDistribution),
	})
	if err != nil {
		s.logger.Warn("UpdateExpense validation failed", "expense_id", existing.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("UpdateExpense failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)
	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		s.logger.Error("DeleteExpense failed", "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, storeError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	s.logger.Debug("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}
