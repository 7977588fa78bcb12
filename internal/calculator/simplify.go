package calculator

// Transfer is a single recommended payment: From pays To the Amount.
type Transfer struct {
	From   Member
	To     Member
	Amount float64
}

// Simplify uses a Calculator with DefaultEpsilon.
func Simplify(balances *Balances) []Transfer {
	return defaultCalculator.Simplify(balances)
}

type position struct {
	member    Member
	remaining float64
}

// Simplify reduces net balances to a list of transfers that settles every
// member, using greedy matching of debtors against creditors.
//
// Debtors and creditors keep the iteration order of balances. Members within
// epsilon of zero are already settled. The result has at most
// debtors+creditors-1 entries; residual noise below epsilon is dropped.
func (c *Calculator) Simplify(balances *Balances) []Transfer {
	if balances == nil {
		return []Transfer{}
	}

	// Create lists of debtors (owe money) and creditors (owed money)
	var debtors, creditors []position
	for _, m := range balances.order {
		net := balances.entries[m].Net
		if net < -c.epsilon {
			debtors = append(debtors, position{member: m, remaining: -net})
		} else if net > c.epsilon {
			creditors = append(creditors, position{member: m, remaining: net})
		}
	}

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}

		if amount > c.epsilon {
			transfers = append(transfers, Transfer{
				From:   debtor.member,
				To:     creditor.member,
				Amount: amount,
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		// Move to next debtor/creditor if fully settled
		if debtor.remaining < c.epsilon {
			i++
		}
		if creditor.remaining < c.epsilon {
			j++
		}
	}

	return transfers
}
