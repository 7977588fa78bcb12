package service

import (
	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/pkg/api"
)

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		Emoji:     group.Emoji,
		Members:   group.Members,
		Currency:  string(group.Currency),
		CreatedAt: group.CreatedAt,
	}
}

func toAPIExpense(expense *models.Expense) *api.Expense {
	shares := make([]api.SplitShare, len(expense.SplitDistribution))
	for i, s := range expense.SplitDistribution {
		shares[i] = api.SplitShare{Member: s.Member, Value: s.Value}
	}
	return &api.Expense{
		ID:                expense.ID,
		GroupID:           expense.GroupID,
		Description:       expense.Description,
		Amount:            expense.Amount,
		Date:              expense.Date,
		Payer:             expense.Payer,
		SplitLogic:        string(expense.SplitLogic),
		SplitDistribution: shares,
		CreatedAt:         expense.CreatedAt,
	}
}

func toAPISettlement(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:        settlement.ID,
		GroupID:   settlement.GroupID,
		From:      settlement.From,
		To:        settlement.To,
		Amount:    settlement.Amount,
		Note:      settlement.Note,
		CreatedAt: settlement.CreatedAt,
		CreatedBy: settlement.CreatedBy,
	}
}

func fromAPIShares(shares []api.SplitShare) []models.SplitShare {
	out := make([]models.SplitShare, len(shares))
	for i, s := range shares {
		out[i] = models.SplitShare{Member: s.Member, Value: s.Value}
	}
	return out
}
