package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/ledgerfile"
	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/money"
)

func newSettleCmd() *cobra.Command {
	var epsilon float64

	cmd := &cobra.Command{
		Use:   "settle FILE",
		Short: "Print balances and a settlement plan for a YAML ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ledgerfile.Load(args[0])
			if err != nil {
				return err
			}
			if epsilon <= 0 {
				return fmt.Errorf("--epsilon must be positive, got %v", epsilon)
			}
			calc := calculator.New(calculator.WithEpsilon(epsilon))
			balances := calc.ComputeBalances(f.Members, f.Entries())
			return writeReport(cmd.OutOrStdout(), f.Currency, balances, calc.Simplify(balances))
		},
	}

	cmd.Flags().Float64Var(&epsilon, "epsilon", calculator.DefaultEpsilon, "tolerance below which balances are treated as settled")
	return cmd
}

func writeReport(w io.Writer, currency models.Currency, balances *calculator.Balances, transfers []calculator.Transfer) error {
	fmt.Fprintln(w, "Balances:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "  MEMBER\tPAID\tSHARE\tNET\t")
	for _, b := range balances.List() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t\n", b.Member,
			money.Format(b.Paid, currency), money.Format(b.Share, currency), money.Format(b.Net, currency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settlement plan:")
	if len(transfers) == 0 {
		fmt.Fprintln(w, "  Everyone is settled up")
		return nil
	}
	for _, t := range transfers {
		fmt.Fprintf(w, "  %s pays %s %s\n", t.From, t.To, money.Format(t.Amount, currency))
	}
	return nil
}
