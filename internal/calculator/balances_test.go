package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equal(members ...Member) SplitRule {
	entries := make([]SplitEntry, len(members))
	for i, m := range members {
		entries[i] = SplitEntry{Member: m, Value: 1}
	}
	return SplitRule{Kind: SplitEqual, Entries: entries}
}

func TestComputeBalances_NoExpenses(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B", "C"}, nil)

	assert.Equal(t, []Member{"A", "B", "C"}, b.Members())
	for _, m := range b.Members() {
		assert.Zero(t, b.Net(m), m)
	}
}

func TestComputeBalances_NoMembers(t *testing.T) {
	b := ComputeBalances(nil, nil)
	assert.Zero(t, b.Len())
	assert.Empty(t, Simplify(b))
}

func TestComputeBalances_EqualSplit(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B", "C"}, []Expense{
		{Amount: 90, Payer: "A", Split: equal("A", "B", "C")},
	})

	assert.InDelta(t, 60.0, b.Net("A"), 0.01)
	assert.InDelta(t, -30.0, b.Net("B"), 0.01)
	assert.InDelta(t, -30.0, b.Net("C"), 0.01)

	a, ok := b.Get("A")
	require.True(t, ok)
	assert.InDelta(t, 90.0, a.Paid, 0.01)
	assert.InDelta(t, 30.0, a.Share, 0.01)
}

func TestComputeBalances_EqualSplitPayerExcluded(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B", "C"}, []Expense{
		{Amount: 90, Payer: "A", Split: equal("B", "C")},
	})

	assert.InDelta(t, 90.0, b.Net("A"), 0.01)
	assert.InDelta(t, -45.0, b.Net("B"), 0.01)
	assert.InDelta(t, -45.0, b.Net("C"), 0.01)
}

func TestComputeBalances_ExactSplit(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B"}, []Expense{
		{Amount: 100, Payer: "A", Split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{
			{Member: "A", Value: 40}, {Member: "B", Value: 60},
		}}},
	})

	assert.InDelta(t, 60.0, b.Net("A"), 0.01)
	assert.InDelta(t, -60.0, b.Net("B"), 0.01)

	// Portions cover the amount exactly, so nothing is absorbed by the payer
	a, _ := b.Get("A")
	assert.Equal(t, 40.0, a.Share)
}

func TestComputeBalances_SharesSplit(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B"}, []Expense{
		{Amount: 50, Payer: "A", Split: SplitRule{Kind: SplitShares, Entries: []SplitEntry{
			{Member: "A", Value: 1}, {Member: "B", Value: 3},
		}}},
	})

	assert.InDelta(t, 37.5, b.Net("A"), 0.01)
	assert.InDelta(t, -37.5, b.Net("B"), 0.01)
}

func TestComputeBalances_ShortfallAbsorbedByPayer(t *testing.T) {
	tests := []struct {
		name  string
		split SplitRule
		wantA float64
		wantB float64
	}{
		{
			name:  "empty equal split leaves payer even",
			split: SplitRule{Kind: SplitEqual},
			wantA: 0,
			wantB: 0,
		},
		{
			name: "negative shares weight leaves payer even",
			split: SplitRule{Kind: SplitShares, Entries: []SplitEntry{
				{Member: "B", Value: -1},
			}},
			wantA: 0,
			wantB: 0,
		},
		{
			name: "exact split short of the amount",
			split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{
				{Member: "B", Value: 70},
			}},
			wantA: 70,
			wantB: -70,
		},
		{
			name: "exact split over the amount",
			split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{
				{Member: "B", Value: 130},
			}},
			wantA: 130,
			wantB: -130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeBalances([]Member{"A", "B"}, []Expense{
				{Amount: 100, Payer: "A", Split: tt.split},
			})
			assert.InDelta(t, tt.wantA, b.Net("A"), 0.01)
			assert.InDelta(t, tt.wantB, b.Net("B"), 0.01)
			assert.InDelta(t, 0.0, b.Total(), 0.01)
		})
	}
}

func TestComputeBalances_ShortfallBelowEpsilonIgnored(t *testing.T) {
	b := ComputeBalances([]Member{"A", "B"}, []Expense{
		{Amount: 100, Payer: "A", Split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{
			{Member: "B", Value: 99.995},
		}}},
	})

	a, _ := b.Get("A")
	assert.Zero(t, a.Share)
}

func TestComputeBalances_UnknownMembersAppended(t *testing.T) {
	b := ComputeBalances([]Member{"A"}, []Expense{
		{Amount: 30, Payer: "Z", Split: equal("A", "Y")},
	})

	assert.Equal(t, []Member{"A", "Z", "Y"}, b.Members())
	assert.InDelta(t, 30.0, b.Net("Z"), 0.01)
	assert.InDelta(t, -15.0, b.Net("A"), 0.01)
}

func TestComputeBalances_DoesNotMutateInput(t *testing.T) {
	members := []Member{"A", "B"}
	expenses := []Expense{{Amount: 10, Payer: "A", Split: equal("A", "B")}}

	ComputeBalances(members, expenses)

	assert.Equal(t, []Member{"A", "B"}, members)
	assert.Equal(t, 10.0, expenses[0].Amount)
	assert.Equal(t, 1.0, expenses[0].Split.Entries[0].Value)
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	members := []Member{"A", "B", "C"}
	expenses := []Expense{
		{Amount: 90, Payer: "A", Split: equal("A", "B", "C")},
		{Amount: 40, Payer: "B", Split: SplitRule{Kind: SplitShares, Entries: []SplitEntry{{Member: "A", Value: 1}, {Member: "C", Value: 3}}}},
		{Amount: 15, Payer: "C", Split: SplitRule{Kind: SplitExact, Entries: []SplitEntry{{Member: "B", Value: 15}}}},
	}
	reversed := []Expense{expenses[2], expenses[1], expenses[0]}

	forward := ComputeBalances(members, expenses)
	backward := ComputeBalances(members, reversed)
	for _, m := range members {
		assert.InDelta(t, forward.Net(m), backward.Net(m), 1e-9, m)
	}
}

func TestComputeBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	members := []Member{"A", "B", "C", "D", "E"}
	kinds := []SplitKind{SplitEqual, SplitExact, SplitShares}

	for round := 0; round < 200; round++ {
		var expenses []Expense
		for n := rng.Intn(8); n > 0; n-- {
			// Quarter units keep any exact-split shortfall well above epsilon
			amount := float64(rng.Intn(4000)) / 4
			var entries []SplitEntry
			for _, m := range members {
				if rng.Intn(2) == 0 {
					entries = append(entries, SplitEntry{Member: m, Value: float64(rng.Intn(5))})
				}
			}
			expenses = append(expenses, Expense{
				Amount: amount,
				Payer:  members[rng.Intn(len(members))],
				Split:  SplitRule{Kind: kinds[rng.Intn(len(kinds))], Entries: entries},
			})
		}

		b := ComputeBalances(members, expenses)
		require.InDelta(t, 0.0, b.Total(), 0.01, "round %d", round)
	}
}

func TestNewCalculator_Epsilon(t *testing.T) {
	assert.Equal(t, DefaultEpsilon, New().Epsilon())
	assert.Equal(t, 0.5, New(WithEpsilon(0.5)).Epsilon())
	assert.Equal(t, DefaultEpsilon, New(WithEpsilon(0)).Epsilon())
	assert.Equal(t, DefaultEpsilon, New(WithEpsilon(-1)).Epsilon())
}

func TestNewBalances(t *testing.T) {
	b := NewBalances([]Member{"A", "B"}, map[Member]float64{"A": 5})
	assert.Equal(t, 5.0, b.Net("A"))
	assert.Zero(t, b.Net("B"))
	assert.Zero(t, b.Net("missing"))
	_, ok := b.Get("missing")
	assert.False(t, ok)
}
