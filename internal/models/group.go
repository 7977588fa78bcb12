package models

import "math/rand"

// Currency is an ISO 4217 code.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyINR Currency = "INR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
)

// SupportedCurrencies lists the currencies a group may use.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyINR, CurrencyGBP, CurrencyJPY}

// IsSupported reports whether c is one of SupportedCurrencies.
func (c Currency) IsSupported() bool {
	for _, s := range SupportedCurrencies {
		if s == c {
			return true
		}
	}
	return false
}

// GroupEmojis is the pool a new group's emoji is drawn from.
var GroupEmojis = []string{"🎉", "✈️", "🏠", "🍔", "💡", "💰", "🏖️", "💻", "🚗", "🎁", "🧑‍💻", "🧑‍🎨", "🧑‍🔬", "🧑‍🚀", "🧑‍🚒", "🧑‍✈️"}

// RandomEmoji picks an emoji from GroupEmojis.
func RandomEmoji() string {
	return GroupEmojis[rand.Intn(len(GroupEmojis))]
}

// Group represents a collection of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Emoji decorates the group in listings.
	Emoji string

	// Members is the ordered list of member names.
	// The order is kept by storage and drives the order of balances.
	Members []string

	// Currency is the group's default currency for display.
	Currency Currency

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether name is a member of the group.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}
