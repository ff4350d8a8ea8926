package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
)

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Manage charts of accounts",
	}

	var orgID, businessType, actor string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create the standard chart of accounts for an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeStore, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore()

			container := services.NewServiceContainer(a.cfg, repos)
			accounts, err := container.Account.CreateStandardChartOfAccounts(cmd.Context(), orgID, domain.BusinessType(businessType), actor)
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %s\n", acc.AccountNumber, acc.AccountType, acc.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d accounts created\n", len(accounts))
			return nil
		},
	}
	seed.Flags().StringVar(&orgID, "org", "", "Organization ID")
	seed.Flags().StringVar(&businessType, "business-type", string(domain.SoleProprietorship), "SOLE_PROPRIETORSHIP, CORPORATION, PARTNERSHIP or LLC")
	seed.Flags().StringVar(&actor, "actor", "system", "User recorded as creator")
	_ = seed.MarkFlagRequired("org")
	cmd.AddCommand(seed)

	return cmd
}
