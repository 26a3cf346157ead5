package main

import (
	"context"

	"github.com/spf13/cobra"

	"liquidityLayer/internal/token"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "ERC20 reads and approvals",
	}
	cmd.PersistentFlags().String("token", "", "token address")

	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Print decimals, symbol and name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithEnv(cmd, func(ctx context.Context, e *env) error {
				client, err := token.NewClient(e.chain, e.registry, e.converter, e.submitter, e.logger)
				if err != nil {
					return err
				}
				address, err := addressFlag(cmd, "token")
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), client.Meta(ctx, address))
			})
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithEnv(cmd, func(ctx context.Context, e *env) error {
				client, err := token.NewClient(e.chain, e.registry, e.converter, e.submitter, e.logger)
				if err != nil {
					return err
				}
				address, err := addressFlag(cmd, "token")
				if err != nil {
					return err
				}
				account, err := addressFlag(cmd, "account")
				if err != nil {
					return err
				}
				balance, err := client.BalanceOf(ctx, address, account)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"token":   address,
					"account": account,
					"balance": balance,
				})
			})
		},
	}
	balanceCmd.Flags().String("account", "", "account address")

	approveCmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a spender for an amount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithEnv(cmd, func(ctx context.Context, e *env) error {
				client, err := token.NewClient(e.chain, e.registry, e.converter, e.submitter, e.logger)
				if err != nil {
					return err
				}
				address, err := addressFlag(cmd, "token")
				if err != nil {
					return err
				}
				spender, err := addressFlag(cmd, "spender")
				if err != nil {
					return err
				}
				amount, err := amountFlag(cmd, "amount")
				if err != nil {
					return err
				}
				receipt, err := client.Approve(ctx, address, spender, amount)
				if err != nil {
					return err
				}
				return printReceipt(cmd.OutOrStdout(), receipt)
			})
		},
	}
	approveCmd.Flags().String("spender", "", "spender address")
	approveCmd.Flags().String("amount", "", "amount in token units")

	cmd.AddCommand(metaCmd, balanceCmd, approveCmd)
	return cmd
}
