package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/payrecord/pkg/api"
)

func TestAddExpense(t *testing.T) {
	c := setupTestServer(t, false)
	group := createTestGroup(t, c, "Alice", "Bob", "Charlie")

	expense := addTestExpense(t, c, &api.AddExpenseRequest{
		GroupID:     group.ID,
		Description: "  Groceries ",
		Amount:      90,
		Payer:       "Alice",
		SplitLogic:  "exact",
		SplitDistribution: []api.SplitShare{
			{Member: "Alice", Value: 30},
			{Member: "Bob", Value: 60},
			{Member: "Charlie", Value: 0},
		},
	})

	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, group.ID, expense.GroupID)
	assert.Equal(t, "Groceries", expense.Description)
	assert.Equal(t, "EXACT", expense.SplitLogic)
	assert.Equal(t, []api.SplitShare{{Member: "Alice", Value: 30}, {Member: "Bob", Value: 60}}, expense.SplitDistribution)
}

func TestAddExpense_EqualWeightsDefaultToOne(t *testing.T) {
	c := setupTestServer(t, false)
	group := createTestGroup(t, c, "Alice", "Bob")

	expense := addTestExpense(t, c, &api.AddExpenseRequest{
		GroupID:           group.ID,
		Amount:            10,
		Payer:             "Bob",
		SplitLogic:        "EQUAL",
		SplitDistribution: []api.SplitShare{{Member: "Alice"}, {Member: "Bob"}},
	})
	assert.Equal(t, []api.SplitShare{{Member: "Alice", Value: 1}, {Member: "Bob", Value: 1}}, expense.SplitDistribution)
}

func TestAddExpense_Validation(t *testing.T) {
	c := setupTestServer(t, false)
	group := createTestGroup(t, c, "Alice", "Bob", "Charlie")
	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	valid := func() *api.AddExpenseRequest {
		return &api.AddExpenseRequest{
			GroupID:           group.ID,
			Description:       "Taxi",
			Amount:            30,
			Date:              date,
			Payer:             "Alice",
			SplitLogic:        "EQUAL",
			SplitDistribution: equalSplit("Alice", "Bob"),
		}
	}

	tests := []struct {
		name   string
		modify func(r *api.AddExpenseRequest)
		code   connect.Code
	}{
		{name: "empty description", modify: func(r *api.AddExpenseRequest) { r.Description = " " }, code: connect.CodeInvalidArgument},
		{name: "zero amount", modify: func(r *api.AddExpenseRequest) { r.Amount = 0 }, code: connect.CodeInvalidArgument},
		{name: "negative amount", modify: func(r *api.AddExpenseRequest) { r.Amount = -5 }, code: connect.CodeInvalidArgument},
		{name: "missing date", modify: func(r *api.AddExpenseRequest) { r.Date = time.Time{} }, code: connect.CodeInvalidArgument},
		{name: "payer not a member", modify: func(r *api.AddExpenseRequest) { r.Payer = "Mallory" }, code: connect.CodeInvalidArgument},
		{name: "split member not a member", modify: func(r *api.AddExpenseRequest) { r.SplitDistribution = equalSplit("Alice", "Mallory") }, code: connect.CodeInvalidArgument},
		{name: "duplicate split member", modify: func(r *api.AddExpenseRequest) { r.SplitDistribution = equalSplit("Bob", "Bob") }, code: connect.CodeInvalidArgument},
		{name: "equal with nobody selected", modify: func(r *api.AddExpenseRequest) { r.SplitDistribution = nil }, code: connect.CodeInvalidArgument},
		{name: "equal with fractional weight", modify: func(r *api.AddExpenseRequest) {
			r.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 1.5}}
		}, code: connect.CodeInvalidArgument},
		{name: "exact does not add up", modify: func(r *api.AddExpenseRequest) {
			r.SplitLogic = "EXACT"
			r.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 10}, {Member: "Bob", Value: 15}}
		}, code: connect.CodeInvalidArgument},
		{name: "exact negative value", modify: func(r *api.AddExpenseRequest) {
			r.SplitLogic = "EXACT"
			r.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 40}, {Member: "Bob", Value: -10}}
		}, code: connect.CodeInvalidArgument},
		{name: "exact all zero", modify: func(r *api.AddExpenseRequest) {
			r.Amount = 0.005
			r.SplitLogic = "EXACT"
			r.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 0}}
		}, code: connect.CodeInvalidArgument},
		{name: "shares sum to zero", modify: func(r *api.AddExpenseRequest) {
			r.SplitLogic = "SHARES"
			r.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 0}, {Member: "Bob", Value: -1}}
		}, code: connect.CodeInvalidArgument},
		{name: "unknown split logic", modify: func(r *api.AddExpenseRequest) { r.SplitLogic = "PERCENT" }, code: connect.CodeInvalidArgument},
		{name: "missing group", modify: func(r *api.AddExpenseRequest) { r.GroupID = "missing" }, code: connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.modify(req)
			_, err := c.Expense.AddExpense(context.Background(), connect.NewRequest(req))
			assertCode(t, err, tt.code)
		})
	}

	t.Run("exact within a cent is accepted", func(t *testing.T) {
		req := valid()
		req.Amount = 10
		req.SplitLogic = "EXACT"
		req.SplitDistribution = []api.SplitShare{{Member: "Alice", Value: 3.33}, {Member: "Bob", Value: 3.33}, {Member: "Charlie", Value: 3.33}}
		_, err := c.Expense.AddExpense(context.Background(), connect.NewRequest(req))
		require.NoError(t, err)
	})
}

func TestListExpenses_NewestFirst(t *testing.T) {
	c := setupTestServer(t, false)
	group := createTestGroup(t, c, "Alice", "Bob")

	for day, desc := range map[int]string{3: "Lunch", 10: "Cinema", 1: "Coffee"} {
		addTestExpense(t, c, &api.AddExpenseRequest{
			GroupID:           group.ID,
			Description:       desc,
			Amount:            12,
			Date:              time.Date(2025, 4, day, 18, 0, 0, 0, time.UTC),
			Payer:             "Alice",
			SplitLogic:        "EQUAL",
			SplitDistribution: equalSplit("Alice", "Bob"),
		})
	}

	resp, err := c.Expense.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 3)

	var got []string
	for _, e := range resp.Msg.Expenses {
		got = append(got, e.Description)
	}
	assert.Equal(t, []string{"Cinema", "Lunch", "Coffee"}, got)

	_, err = c.Expense.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestUpdateExpense(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()
	group := createTestGroup(t, c, "Alice", "Bob")

	original := addTestExpense(t, c, &api.AddExpenseRequest{
		GroupID:           group.ID,
		Amount:            20,
		Payer:             "Alice",
		SplitLogic:        "EQUAL",
		SplitDistribution: equalSplit("Alice", "Bob"),
	})

	resp, err := c.Expense.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:         original.ID,
		Description:       "Dinner and drinks",
		Amount:            40,
		Date:              original.Date,
		Payer:             "Bob",
		SplitLogic:        "SHARES",
		SplitDistribution: []api.SplitShare{{Member: "Alice", Value: 3}, {Member: "Bob", Value: 1}},
	}))
	require.NoError(t, err)

	updated := resp.Msg.Expense
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, group.ID, updated.GroupID)
	assert.Equal(t, "Bob", updated.Payer)
	assert.Equal(t, "SHARES", updated.SplitLogic)

	_, err = c.Expense.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID:  original.ID,
		Amount:     40,
		Date:       original.Date,
		Payer:      "Bob",
		SplitLogic: "SHARES",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.Expense.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{ExpenseID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestDeleteExpense(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()
	group := createTestGroup(t, c, "Alice", "Bob")

	expense := addTestExpense(t, c, &api.AddExpenseRequest{
		GroupID:           group.ID,
		Amount:            20,
		Payer:             "Alice",
		SplitLogic:        "EQUAL",
		SplitDistribution: equalSplit("Alice", "Bob"),
	})

	_, err := c.Expense.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)

	resp, err := c.Expense.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Expenses)

	_, err = c.Expense.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	assertCode(t, err, connect.CodeNotFound)
}
