// Package calculator folds group expenses into net balances and reduces
// them to a short list of settling transfers.
//
// Amounts are float64. Every comparison against zero goes through the
// calculator's epsilon (DefaultEpsilon unless overridden with WithEpsilon),
// so rounding noise below one cent never produces a balance or a transfer.
//
// Nothing in this package returns an error. Inputs are trusted to have been
// validated by the caller; when they have not, the discrepancy is absorbed
// onto the payer of the offending expense.
package calculator

import "math"

// DefaultEpsilon is the tolerance below which an amount is treated as zero.
const DefaultEpsilon = 0.01

// Calculator computes balances and settlement plans with a fixed tolerance.
// The zero value is not usable; construct one with New.
type Calculator struct {
	epsilon float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithEpsilon overrides the zero tolerance. Non-positive values are ignored.
func WithEpsilon(epsilon float64) Option {
	return func(c *Calculator) {
		if epsilon > 0 {
			c.epsilon = epsilon
		}
	}
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Epsilon returns the tolerance in use.
func (c *Calculator) Epsilon() float64 {
	return c.epsilon
}

var defaultCalculator = New()

// ComputeBalances uses a Calculator with DefaultEpsilon.
func ComputeBalances(members []Member, expenses []Expense) *Balances {
	return defaultCalculator.ComputeBalances(members, expenses)
}

// MemberBalance is one member's position across all expenses.
type MemberBalance struct {
	Member Member
	Paid   float64 // Total amount paid across all expenses
	Share  float64 // Total of this member's portions, plus any absorbed shortfall
	Net    float64 // Positive = owed money, Negative = owes money
}

// Balances is an insertion-ordered mapping from member to balance.
type Balances struct {
	order   []Member
	entries map[Member]*MemberBalance
}

func newBalances(members []Member) *Balances {
	b := &Balances{
		order:   make([]Member, 0, len(members)),
		entries: make(map[Member]*MemberBalance, len(members)),
	}
	for _, m := range members {
		b.get(m)
	}
	return b
}

// get returns the entry for m, appending m to the order if it is new.
func (b *Balances) get(m Member) *MemberBalance {
	if e, ok := b.entries[m]; ok {
		return e
	}
	e := &MemberBalance{Member: m}
	b.entries[m] = e
	b.order = append(b.order, m)
	return e
}

// Members returns the members in iteration order.
func (b *Balances) Members() []Member {
	out := make([]Member, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of members.
func (b *Balances) Len() int {
	return len(b.order)
}

// Net returns a member's net balance, or 0 for an unknown member.
func (b *Balances) Net(m Member) float64 {
	if e, ok := b.entries[m]; ok {
		return e.Net
	}
	return 0
}

// Get returns a copy of a member's balance.
func (b *Balances) Get(m Member) (MemberBalance, bool) {
	e, ok := b.entries[m]
	if !ok {
		return MemberBalance{}, false
	}
	return *e, true
}

// List returns every balance in iteration order.
func (b *Balances) List() []MemberBalance {
	out := make([]MemberBalance, 0, len(b.order))
	for _, m := range b.order {
		out = append(out, *b.entries[m])
	}
	return out
}

// Total returns the sum of all net balances. For consistent input it is
// zero within the tolerance.
func (b *Balances) Total() float64 {
	var sum float64
	for _, m := range b.order {
		sum += b.entries[m].Net
	}
	return sum
}

// NewBalances builds a Balances from explicit net amounts, in the order of
// members. Missing members start at zero.
func NewBalances(members []Member, net map[Member]float64) *Balances {
	b := newBalances(members)
	for _, m := range members {
		b.entries[m].Net = net[m]
	}
	return b
}

// ComputeBalances folds expenses into per-member balances.
//
// Algorithm:
//   - Every member in members starts at zero, in the given order
//   - For each expense the payer is credited the full amount
//   - Each participant is debited their portion under the split rule
//   - If the portions do not add up to the amount (beyond epsilon), the
//     payer is debited the shortfall so each expense nets to zero
//
// Members referenced by an expense but absent from members are appended in
// first-encounter order. Neither argument is modified.
func (c *Calculator) ComputeBalances(members []Member, expenses []Expense) *Balances {
	balances := newBalances(members)

	for _, expense := range expenses {
		// Payer paid the full amount
		payer := balances.get(expense.Payer)
		payer.Paid += expense.Amount

		// Each participant owes their portion
		var totalSplit float64
		for _, p := range Portions(expense.Amount, expense.Split) {
			balances.get(p.Member).Share += p.Amount
			totalSplit += p.Amount
		}

		// Anything the rule left undistributed stays with the payer
		if shortfall := expense.Amount - totalSplit; math.Abs(shortfall) > c.epsilon {
			payer.Share += shortfall
		}
	}

	for _, m := range balances.order {
		e := balances.entries[m]
		e.Net = e.Paid - e.Share
	}

	return balances
}
