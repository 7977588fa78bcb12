package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/money"
)

// exactTolerance is how far the EXACT values may drift from the amount.
const exactTolerance = 0.01

var (
	errEmptyName        = errors.New("name is required")
	errNoMembers        = errors.New("at least one member is required")
	errEmptyDescription = errors.New("description is required")
	errInvalidAmount    = errors.New("amount must be greater than zero")
	errMissingDate      = errors.New("date is required")
	errNoParticipants   = errors.New("this expense does not involve anyone")
	errSelfSettlement   = errors.New("from and to must be different members")
)

// normalizeMembers trims names, drops empties and removes duplicates while
// keeping first-occurrence order.
func normalizeMembers(members []string) []string {
	seen := make(map[string]bool, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// groupInput is the validated form of a create or update request.
type groupInput struct {
	Name     string
	Emoji    string
	Members  []string
	Currency models.Currency
}

func validateGroup(name, emoji string, members []string, currency string) (*groupInput, error) {
	in := &groupInput{
		Name:     strings.TrimSpace(name),
		Emoji:    strings.TrimSpace(emoji),
		Members:  normalizeMembers(members),
		Currency: models.Currency(strings.ToUpper(strings.TrimSpace(currency))),
	}
	if in.Name == "" {
		return nil, errEmptyName
	}
	if len(in.Members) == 0 {
		return nil, errNoMembers
	}
	if in.Currency == "" {
		in.Currency = models.CurrencyUSD
	}
	if !in.Currency.IsSupported() {
		return nil, fmt.Errorf("unsupported currency %q", in.Currency)
	}
	return in, nil
}

// expenseInput is the expense-shaped part of add and update requests.
type expenseInput struct {
	Description string
	Amount      float64
	Date        time.Time
	Payer       string
	SplitLogic  models.SplitLogic
	Shares      []models.SplitShare
}

// validateExpense checks an expense against its group and returns the
// normalized expense fields. The returned distribution is what the ledger
// will see: EQUAL weights default to 1, zero EXACT and non-positive SHARES
// entries are dropped.
func validateExpense(group *models.Group, in expenseInput) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, errEmptyDescription
	}
	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) {
		return nil, errInvalidAmount
	}
	if in.Date.IsZero() {
		return nil, errMissingDate
	}
	payer := strings.TrimSpace(in.Payer)
	if !group.HasMember(payer) {
		return nil, fmt.Errorf("payer %q is not a member of the group", in.Payer)
	}

	seen := make(map[string]bool, len(in.Shares))
	shares := make([]models.SplitShare, 0, len(in.Shares))
	for _, s := range in.Shares {
		member := strings.TrimSpace(s.Member)
		if !group.HasMember(member) {
			return nil, fmt.Errorf("split member %q is not a member of the group", s.Member)
		}
		if seen[member] {
			return nil, fmt.Errorf("split member %q is listed more than once", member)
		}
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("split value for %q is not a number", member)
		}
		seen[member] = true
		shares = append(shares, models.SplitShare{Member: member, Value: s.Value})
	}

	var err error
	logic := models.SplitLogic(strings.ToUpper(string(in.SplitLogic)))
	switch logic {
	case models.SplitEqual:
		shares, err = equalShares(shares)
	case models.SplitExact:
		shares, err = exactShares(in.Amount, shares)
	case models.SplitShares:
		shares, err = weightedShares(shares)
	default:
		err = fmt.Errorf("unknown split logic %q", in.SplitLogic)
	}
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, errNoParticipants
	}

	return &models.Expense{
		GroupID:           group.ID,
		Description:       description,
		Amount:            in.Amount,
		Date:              in.Date.UTC(),
		Payer:             payer,
		SplitLogic:        logic,
		SplitDistribution: shares,
	}, nil
}

func equalShares(shares []models.SplitShare) ([]models.SplitShare, error) {
	if len(shares) == 0 {
		return nil, errors.New("at least one member must be selected for an equal split")
	}
	for i := range shares {
		if shares[i].Value == 0 {
			shares[i].Value = 1
		}
		if shares[i].Value < 0 || shares[i].Value != math.Trunc(shares[i].Value) {
			return nil, fmt.Errorf("equal split weight for %q must be a positive whole number", shares[i].Member)
		}
	}
	return shares, nil
}

func exactShares(amount float64, shares []models.SplitShare) ([]models.SplitShare, error) {
	values := make([]float64, 0, len(shares))
	kept := shares[:0]
	for _, s := range shares {
		if s.Value < 0 {
			return nil, fmt.Errorf("exact amount for %q cannot be negative", s.Member)
		}
		values = append(values, s.Value)
		if s.Value > 0 {
			kept = append(kept, s)
		}
	}
	if !money.WithinTolerance(money.Sum(values...), money.Sum(amount), exactTolerance) {
		return nil, fmt.Errorf("exact amounts add up to %s, expected %s",
			money.Sum(values...).StringFixed(2), money.Round(amount).StringFixed(2))
	}
	return kept, nil
}

func weightedShares(shares []models.SplitShare) ([]models.SplitShare, error) {
	kept := shares[:0]
	for _, s := range shares {
		if s.Value > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, errors.New("total shares must be greater than zero")
	}
	return kept, nil
}

// validateSettlement checks a settle-up payment against its group.
func validateSettlement(group *models.Group, from, to string, amount float64) error {
	if !group.HasMember(from) {
		return fmt.Errorf("%q is not a member of the group", from)
	}
	if !group.HasMember(to) {
		return fmt.Errorf("%q is not a member of the group", to)
	}
	if from == to {
		return errSelfSettlement
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return errInvalidAmount
	}
	return nil
}
