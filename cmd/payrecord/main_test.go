package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/payrecord/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSettle(t *testing.T) {
	path := writeLedger(t, `
members: [A, B, C]
expenses:
  - description: Dinner
    amount: 90
    payer: A
    split: EQUAL
    shares:
      - {member: A, value: 1}
      - {member: B, value: 1}
      - {member: C, value: 1}
`)

	out, err := run(t, "settle", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Balances:")
	assert.Contains(t, out, "$60.00")
	assert.Contains(t, out, "-$30.00")
	assert.Contains(t, out, "B pays A $30.00\n")
	assert.Contains(t, out, "C pays A $30.00\n")
}

func TestSettle_SettledUp(t *testing.T) {
	path := writeLedger(t, `
currency: GBP
members: [A, B]
expenses:
  - {description: Taxi, amount: 20, payer: A, split: EXACT, shares: [{member: B, value: 20}]}
settlements:
  - {from: B, to: A, amount: 20}
`)

	out, err := run(t, "settle", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Everyone is settled up")
	assert.Contains(t, out, "£20.00")
}

func TestSettle_Epsilon(t *testing.T) {
	path := writeLedger(t, `
members: [A, B]
expenses:
  - {description: Gum, amount: 0.4, payer: A, split: EXACT, shares: [{member: B, value: 0.4}]}
`)

	out, err := run(t, "settle", path)
	require.NoError(t, err)
	assert.Contains(t, out, "B pays A $0.40")

	out, err = run(t, "settle", "--epsilon", "0.5", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Everyone is settled up")

	_, err = run(t, "settle", "--epsilon", "0", path)
	assert.Error(t, err)
}

func TestSettle_EpsilonHelp(t *testing.T) {
	out, err := run(t, "settle", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "tolerance below which balances are treated as settled")
}

func TestSettle_Errors(t *testing.T) {
	_, err := run(t, "settle")
	assert.Error(t, err)

	_, err = run(t, "settle", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payrecord.yaml")

	out, err := run(t, "init-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Addr, cfg.Server.Addr)

	_, err = run(t, "init-config", path)
	assert.Error(t, err)

	_, err = run(t, "init-config", "--force", path)
	assert.NoError(t, err)
}
