package service

import (
	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/models"
)

// ledgerEntries converts stored expenses and settlements into the
// calculator's input.
func ledgerEntries(expenses []*models.Expense, settlements []*models.Settlement) []calculator.Expense {
	entries := make([]calculator.Expense, 0, len(expenses)+len(settlements))
	for _, e := range expenses {
		splitEntries := make([]calculator.SplitEntry, len(e.SplitDistribution))
		for i, s := range e.SplitDistribution {
			splitEntries[i] = calculator.SplitEntry{Member: s.Member, Value: s.Value}
		}
		entries = append(entries, calculator.Expense{
			Amount: e.Amount,
			Payer:  e.Payer,
			Split: calculator.SplitRule{
				Kind:    calculator.SplitKind(e.SplitLogic),
				Entries: splitEntries,
			},
		})
	}
	for _, s := range settlements {
		entries = append(entries, calculator.SettlementExpense(s.From, s.To, s.Amount))
	}
	return entries
}
