package models

import "time"

// SplitLogic names the rule that divides an expense.
type SplitLogic string

const (
	// SplitEqual divides the amount equally among the selected members.
	SplitEqual SplitLogic = "EQUAL"
	// SplitExact assigns an explicit amount to each member.
	SplitExact SplitLogic = "EXACT"
	// SplitShares divides the amount proportionally to share counts.
	SplitShares SplitLogic = "SHARES"
)

// SplitShare is one entry of an expense's split distribution.
// For EQUAL and SHARES, Value is a share count. For EXACT, Value is an amount.
type SplitShare struct {
	Member string
	Value  float64
}

// Expense represents an amount paid by one member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the money was spent on (e.g., "Groceries").
	Description string

	// Amount is the total paid. Always positive once validated.
	Amount float64

	// Date is when the expense happened.
	Date time.Time

	// Payer is the member who paid.
	Payer string

	// SplitLogic selects how SplitDistribution is interpreted.
	SplitLogic SplitLogic

	// SplitDistribution lists the members taking part in the split.
	// Members not listed are excluded.
	SplitDistribution []SplitShare

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Involves reports whether name pays for or takes part in the expense.
func (e *Expense) Involves(name string) bool {
	if e.Payer == name {
		return true
	}
	for _, s := range e.SplitDistribution {
		if s.Member == name {
			return true
		}
	}
	return false
}
