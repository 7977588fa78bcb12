package api

import "time"

// User is the signed-in person.
type User struct {
	Name string `json:"name"`
}

// Group is a set of people sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Emoji     string   `json:"emoji"`
	Members   []string `json:"members"`
	Currency  string   `json:"currency"`
	CreatedAt int64    `json:"created_at"`
}

// SplitShare is one member's entry in an expense's split distribution.
// Value is a weight for EQUAL and SHARES, an amount for EXACT.
type SplitShare struct {
	Member string  `json:"member"`
	Value  float64 `json:"value"`
}

// Expense is a purchase paid by one member and split among others.
type Expense struct {
	ID                string       `json:"id"`
	GroupID           string       `json:"group_id"`
	Description       string       `json:"description"`
	Amount            float64      `json:"amount"`
	Date              time.Time    `json:"date"`
	Payer             string       `json:"payer"`
	SplitLogic        string       `json:"split_logic"`
	SplitDistribution []SplitShare `json:"split_distribution"`
	CreatedAt         int64        `json:"created_at"`
}

// Settlement is a recorded payment from one member to another.
type Settlement struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"group_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
	CreatedBy string  `json:"created_by"`
}

// MemberBalance is one member's position in a group.
type MemberBalance struct {
	Member    string  `json:"member"`
	Paid      float64 `json:"paid"`
	Share     float64 `json:"share"`
	Net       float64 `json:"net"`
	Formatted string  `json:"formatted"`
}

// Transfer is one payment in a settlement plan.
type Transfer struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}
