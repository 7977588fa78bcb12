// Package ledgerfile reads a group ledger from YAML for offline settling.
//
// Example:
//
//	currency: EUR
//	members: [Alice, Bob, Charlie]
//	expenses:
//	  - description: Dinner
//	    amount: 90
//	    payer: Alice
//	    split: EQUAL
//	    shares:
//	      - {member: Alice, value: 1}
//	      - {member: Bob, value: 1}
//	      - {member: Charlie, value: 1}
//	settlements:
//	  - {from: Bob, to: Alice, amount: 30}
package ledgerfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/models"
)

// File is a group ledger.
type File struct {
	Currency    models.Currency `yaml:"currency"`
	Members     []string        `yaml:"members"`
	Expenses    []Expense       `yaml:"expenses"`
	Settlements []Settlement    `yaml:"settlements"`
}

// Expense is one expense entry.
type Expense struct {
	Description string  `yaml:"description"`
	Amount      float64 `yaml:"amount"`
	Payer       string  `yaml:"payer"`
	Split       string  `yaml:"split"`
	Shares      []Share `yaml:"shares"`
}

// Share is one member's split value.
type Share struct {
	Member string  `yaml:"member"`
	Value  float64 `yaml:"value"`
}

// Settlement is a payment already made.
type Settlement struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Amount float64 `yaml:"amount"`
}

// Load reads and parses the ledger at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a ledger. Unknown fields are rejected so typos surface.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing ledger: empty document")
		}
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	if f.Currency == "" {
		f.Currency = models.CurrencyUSD
	}
	f.Currency = models.Currency(strings.ToUpper(string(f.Currency)))
	return &f, nil
}

// Entries converts the file into calculator input, settlements included.
func (f *File) Entries() []calculator.Expense {
	entries := make([]calculator.Expense, 0, len(f.Expenses)+len(f.Settlements))
	for _, e := range f.Expenses {
		split := calculator.SplitRule{Kind: calculator.SplitKind(strings.ToUpper(e.Split))}
		for _, s := range e.Shares {
			split.Entries = append(split.Entries, calculator.SplitEntry{Member: s.Member, Value: s.Value})
		}
		entries = append(entries, calculator.Expense{Amount: e.Amount, Payer: e.Payer, Split: split})
	}
	for _, s := range f.Settlements {
		entries = append(entries, calculator.SettlementExpense(s.From, s.To, s.Amount))
	}
	return entries
}
