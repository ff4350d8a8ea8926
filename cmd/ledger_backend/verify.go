package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/core/services"
)

func newVerifyCmd(a *app) *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the trial balance and the accounting equation of an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeStore, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore()

			journal := services.NewServiceContainer(a.cfg, repos).Journal
			tb, err := journal.GenerateTrialBalance(cmd.Context(), orgID, nil)
			if err != nil {
				return err
			}
			eq, err := journal.ValidateAccountingEquation(cmd.Context(), orgID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trial balance: debits %s credits %s balanced=%t\n",
				tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2), tb.IsBalanced)
			fmt.Fprintf(out, "equation: assets %s liabilities %s equity %s difference %s valid=%t\n",
				eq.Assets.StringFixed(2), eq.Liabilities.StringFixed(2), eq.Equity.StringFixed(2), eq.Difference.StringFixed(2), eq.IsValid)

			if !tb.IsBalanced || !eq.IsValid {
				return fmt.Errorf("ledger of organization %s is out of balance", orgID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "Organization ID")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
