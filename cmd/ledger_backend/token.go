package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/utils"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		orgs   []string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a user and organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateJWT(userID, orgs, a.cfg.JWTSecret, ttl, a.cfg.JWTIssuer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (token subject)")
	cmd.Flags().StringSliceVar(&orgs, "org", nil, "Organization ID the token may access; repeatable, * for all")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
