package api

import "time"

type AddExpenseRequest struct {
	GroupID           string       `json:"group_id"`
	Description       string       `json:"description"`
	Amount            float64      `json:"amount"`
	Date              time.Time    `json:"date"`
	Payer             string       `json:"payer"`
	SplitLogic        string       `json:"split_logic"`
	SplitDistribution []SplitShare `json:"split_distribution"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID         string       `json:"expense_id"`
	Description       string       `json:"description"`
	Amount            float64      `json:"amount"`
	Date              time.Time    `json:"date"`
	Payer             string       `json:"payer"`
	SplitLogic        string       `json:"split_logic"`
	SplitDistribution []SplitShare `json:"split_distribution"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}
