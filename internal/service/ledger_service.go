package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/metrics"
	"github.com/mmynk/payrecord/internal/middleware"
	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/money"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// SettledUpSummary is returned by SimplifyDebts when nobody owes anything.
const SettledUpSummary = "Everyone is settled up"

// LedgerStore is the part of storage.Store the ledger needs.
//
//go:generate mockgen -destination=mocks/mock_ledger_store.go -source=ledger_service.go LedgerStore
type LedgerStore interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// LedgerService computes balances and settlement plans and records
// settle-up payments.
type LedgerService struct {
	store   LedgerStore
	calc    *calculator.Calculator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store LedgerStore, calc *calculator.Calculator, m *metrics.Metrics, logger *slog.Logger) *LedgerService {
	if calc == nil {
		calc = calculator.New()
	}
	return &LedgerService{store: store, calc: calc, metrics: m, logger: logger}
}

// balances loads a group's records and runs them through the calculator.
func (s *LedgerService) balances(ctx context.Context, groupID string) (*models.Group, *calculator.Balances, error) {
	if groupID == "" {
		return nil, nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("Ledger failed - group not found", "group_id", groupID, "error", err)
		return nil, nil, storeError(err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("Ledger failed - could not list expenses", "group_id", groupID, "error", err)
		return nil, nil, storeError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("Ledger failed - could not list settlements", "group_id", groupID, "error", err)
		return nil, nil, storeError(err)
	}

	balances := s.calc.ComputeBalances(group.Members, ledgerEntries(expenses, settlements))
	if s.metrics != nil {
		s.metrics.LedgerComputes.WithLabelValues("balances").Inc()
		s.metrics.LedgerImbalance.Observe(math.Abs(balances.Total()))
	}

	s.logger.Debug("Balances computed",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"members_count", balances.Len(),
	)
	return group, balances, nil
}

// GetBalances returns every member's paid, share and net totals in member order.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	group, balances, err := s.balances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	list := balances.List()
	out := make([]*api.MemberBalance, len(list))
	for i, b := range list {
		out[i] = &api.MemberBalance{
			Member:    b.Member,
			Paid:      b.Paid,
			Share:     b.Share,
			Net:       b.Net,
			Formatted: describeBalance(b.Member, b.Net, s.calc.Epsilon(), group.Currency),
		}
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Currency: string(group.Currency),
		Balances: out,
	}), nil
}

func describeBalance(member string, net, epsilon float64, currency models.Currency) string {
	switch {
	case net > epsilon:
		return member + " is owed " + money.Format(net, currency)
	case net < -epsilon:
		return member + " owes " + money.Format(-net, currency)
	default:
		return member + " is settled up"
	}
}

// SimplifyDebts returns a minimal list of payments that settles the group.
func (s *LedgerService) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	group, balances, err := s.balances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	transfers := s.calc.Simplify(balances)
	if s.metrics != nil {
		s.metrics.LedgerComputes.WithLabelValues("simplify").Inc()
		s.metrics.TransfersEmitted.Observe(float64(len(transfers)))
	}

	out := make([]*api.Transfer, len(transfers))
	lines := make([]string, len(transfers))
	for i, t := range transfers {
		formatted := t.From + " pays " + t.To + " " + money.Format(t.Amount, group.Currency)
		out[i] = &api.Transfer{From: t.From, To: t.To, Amount: t.Amount, Formatted: formatted}
		lines[i] = formatted
	}
	summary := SettledUpSummary
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}

	s.logger.Info("SimplifyDebts successful", "group_id", group.ID, "transfers_count", len(out))
	return connect.NewResponse(&api.SimplifyDebtsResponse{
		Currency:  string(group.Currency),
		Transfers: out,
		Summary:   summary,
	}), nil
}

// RecordSettlement stores a settle-up payment between two members.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	s.logger.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
	)
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(err)
	}

	from := strings.TrimSpace(req.Msg.From)
	to := strings.TrimSpace(req.Msg.To)
	if err := validateSettlement(group, from, to, req.Msg.Amount); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	settlement := &models.Settlement{
		GroupID:   group.ID,
		From:      from,
		To:        to,
		Amount:    req.Msg.Amount,
		Note:      strings.TrimSpace(req.Msg.Note),
		CreatedBy: middleware.GetUserName(ctx),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("RecordSettlement failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Settlement recorded", "group_id", group.ID, "settlement_id", settlement.ID)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns a group's recorded settlements, oldest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, storeError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded settlement.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	s.logger.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)
	if req.Msg.SettlementID == "" {
		return nil, invalidArgument("settlement_id required")
	}

	if err := s.store.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		s.logger.Error("DeleteSettlement failed", "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
