package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplify_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		members  []Member
		expenses []Expense
		want     []Transfer
	}{
		{
			name:    "equal split among three",
			members: []Member{"A", "B", "C"},
			expenses: []Expense{
				{Amount: 90, Payer: "A", Split: equal("A", "B", "C")},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: 30},
				{From: "C", To: "A", Amount: 30},
			},
		},
		{
			name:    "exact split between two",
			members: []Member{"A", "B"},
			expenses: []Expense{
				{Amount: 100, Payer: "A", Split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{
					{Member: "A", Value: 40}, {Member: "B", Value: 60},
				}}},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: 60},
			},
		},
		{
			name:    "shares split between two",
			members: []Member{"A", "B"},
			expenses: []Expense{
				{Amount: 50, Payer: "A", Split: SplitRule{Kind: SplitShares, Entries: []SplitEntry{
					{Member: "A", Value: 1}, {Member: "B", Value: 3},
				}}},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: 37.5},
			},
		},
		{
			name:    "offsetting expenses settle everyone",
			members: []Member{"A", "B"},
			expenses: []Expense{
				{Amount: 20, Payer: "A", Split: equal("A", "B")},
				{Amount: 20, Payer: "B", Split: equal("A", "B")},
			},
			want: []Transfer{},
		},
		{
			name:    "one debtor pays two creditors",
			members: []Member{"A", "B", "C"},
			expenses: []Expense{
				{Amount: 30, Payer: "A", Split: equal("C")},
				{Amount: 20, Payer: "B", Split: equal("C")},
			},
			want: []Transfer{
				{From: "C", To: "A", Amount: 30},
				{From: "C", To: "B", Amount: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(ComputeBalances(tt.members, tt.expenses))
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].From, got[i].From)
				assert.Equal(t, tt.want[i].To, got[i].To)
				assert.InDelta(t, tt.want[i].Amount, got[i].Amount, 0.01)
			}
		})
	}
}

func TestSimplify_AllSettled(t *testing.T) {
	b := NewBalances([]Member{"A", "B", "C"}, map[Member]float64{"A": 0.005, "B": -0.005})
	assert.Empty(t, Simplify(b))
	assert.NotNil(t, Simplify(b))
	assert.Empty(t, Simplify(nil))
}

func TestSimplify_FollowsBalanceOrder(t *testing.T) {
	b := NewBalances([]Member{"D", "C", "B", "A"}, map[Member]float64{
		"A": 10, "B": -4, "C": 4, "D": -10,
	})

	got := Simplify(b)
	assert.Equal(t, []Transfer{
		{From: "D", To: "C", Amount: 4},
		{From: "D", To: "A", Amount: 6},
		{From: "B", To: "A", Amount: 4},
	}, got)
}

func TestSimplify_DoesNotMutateBalances(t *testing.T) {
	b := NewBalances([]Member{"A", "B"}, map[Member]float64{"A": 10, "B": -10})
	Simplify(b)
	assert.Equal(t, 10.0, b.Net("A"))
	assert.Equal(t, -10.0, b.Net("B"))
}

func TestSimplify_CustomEpsilon(t *testing.T) {
	b := NewBalances([]Member{"A", "B", "C"}, map[Member]float64{"A": 0.4, "B": 5, "C": -5.4})

	loose := New(WithEpsilon(0.5)).Simplify(b)
	require.Len(t, loose, 1)
	assert.Equal(t, "C", loose[0].From)
	assert.Equal(t, "B", loose[0].To)
	assert.InDelta(t, 5.0, loose[0].Amount, 1e-9)

	strict := Simplify(b)
	assert.Len(t, strict, 2)
}

func TestSimplify_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	members := []Member{"A", "B", "C", "D", "E", "F"}

	for round := 0; round < 300; round++ {
		// Random cent balances that sum to zero
		net := make(map[Member]float64, len(members))
		var sum int
		for _, m := range members[:len(members)-1] {
			cents := rng.Intn(20001) - 10000
			net[m] = float64(cents) / 100
			sum += cents
		}
		net[members[len(members)-1]] = float64(-sum) / 100
		b := NewBalances(members, net)

		var debtors, creditors int
		for _, m := range members {
			if net[m] < -DefaultEpsilon {
				debtors++
			} else if net[m] > DefaultEpsilon {
				creditors++
			}
		}

		transfers := Simplify(b)

		if debtors == 0 || creditors == 0 {
			assert.Empty(t, transfers, "round %d", round)
			continue
		}
		assert.LessOrEqual(t, len(transfers), debtors+creditors-1, "round %d", round)

		paid := make(map[Member]float64)
		received := make(map[Member]float64)
		for _, tr := range transfers {
			assert.Greater(t, tr.Amount, DefaultEpsilon)
			assert.NotEqual(t, tr.From, tr.To)
			paid[tr.From] += tr.Amount
			received[tr.To] += tr.Amount
		}
		for _, m := range members {
			switch {
			case net[m] < -DefaultEpsilon:
				assert.InDelta(t, -net[m], paid[m], 0.02, "round %d debtor %s", round, m)
			case net[m] > DefaultEpsilon:
				assert.InDelta(t, net[m], received[m], 0.02, "round %d creditor %s", round, m)
			}
		}
	}
}
