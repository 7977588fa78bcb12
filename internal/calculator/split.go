package calculator

// Member identifies a group member by name.
type Member = string

// SplitKind selects how an expense amount is divided among participants.
type SplitKind string

const (
	// SplitEqual divides the amount by integer weights (normally 1 per selected member).
	SplitEqual SplitKind = "EQUAL"
	// SplitExact assigns a literal amount to each participant.
	SplitExact SplitKind = "EXACT"
	// SplitShares divides the amount proportionally to arbitrary positive weights.
	SplitShares SplitKind = "SHARES"
)

// SplitEntry is one participant of a split rule.
// For EQUAL and SHARES, Value is a weight. For EXACT, Value is an amount.
type SplitEntry struct {
	Member Member
	Value  float64
}

// SplitRule describes how one expense is divided.
type SplitRule struct {
	Kind    SplitKind
	Entries []SplitEntry
}

// Expense is the minimal information the ledger needs about an expense.
type Expense struct {
	Amount float64
	Payer  Member
	Split  SplitRule
}

// SettlementExpense returns the ledger view of a settle-up payment: an EXACT
// expense paid by from and owed entirely by to.
func SettlementExpense(from, to Member, amount float64) Expense {
	return Expense{
		Amount: amount,
		Payer:  from,
		Split: SplitRule{
			Kind:    SplitExact,
			Entries: []SplitEntry{{Member: to, Value: amount}},
		},
	}
}

// Portion is a participant's share of a single expense.
type Portion struct {
	Member Member
	Amount float64
}

// Portions computes each participant's share of amount under rule.
// Entries are returned in rule order. A weighted rule whose total weight is
// not positive, or an unknown kind, yields no portions.
func Portions(amount float64, rule SplitRule) []Portion {
	switch rule.Kind {
	case SplitEqual, SplitShares:
		return weighted(amount, rule.Entries)
	case SplitExact:
		portions := make([]Portion, 0, len(rule.Entries))
		for _, e := range rule.Entries {
			portions = append(portions, Portion{Member: e.Member, Amount: e.Value})
		}
		return portions
	default:
		return nil
	}
}

// weighted distributes amount as amount × weight / totalWeight.
func weighted(amount float64, entries []SplitEntry) []Portion {
	var totalWeight float64
	for _, e := range entries {
		totalWeight += e.Value
	}
	if totalWeight <= 0 {
		return nil
	}

	perWeight := amount / totalWeight
	portions := make([]Portion, 0, len(entries))
	for _, e := range entries {
		portions = append(portions, Portion{Member: e.Member, Amount: perWeight * e.Value})
	}
	return portions
}
