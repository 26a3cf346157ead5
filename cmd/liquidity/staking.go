package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"liquidityLayer/internal/sidestaking"
	"liquidityLayer/internal/units"
)

type stakingInfo struct {
	sidestaking.VestingInfo
	Circulating        units.HumanAmount `json:"circulating_supply"`
	CurrentCirculating units.HumanAmount `json:"current_circulating_supply"`
}

func newStakingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staking",
		Short: "Side-staking supply and vesting",
	}
	cmd.PersistentFlags().String("contract", "", "side-staking contract address")
	cmd.PersistentFlags().String("datatoken", "", "datatoken address")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print supply and the vesting schedule of a datatoken",
		RunE: stakingRunE(func(ctx context.Context, cmd *cobra.Command, client *sidestaking.Client, datatoken common.Address) error {
			vesting, err := client.GetVestingInfo(ctx, datatoken)
			if err != nil {
				return err
			}
			info := stakingInfo{VestingInfo: vesting}
			if info.Circulating, err = client.GetDatatokenCirculatingSupply(ctx, datatoken); err != nil {
				return err
			}
			if info.CurrentCirculating, err = client.GetDatatokenCurrentCirculatingSupply(ctx, datatoken); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		}),
	}

	vestCmd := &cobra.Command{
		Use:   "vest",
		Short: "Release vested datatokens to the publisher",
		RunE: stakingRunE(func(ctx context.Context, cmd *cobra.Command, client *sidestaking.Client, datatoken common.Address) error {
			return printSubmission(cmd)(client.GetVesting(ctx, datatoken))
		}),
	}

	cmd.AddCommand(infoCmd, vestCmd)
	return cmd
}

func stakingRunE(fn func(ctx context.Context, cmd *cobra.Command, client *sidestaking.Client, datatoken common.Address) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runWithEnv(cmd, func(ctx context.Context, e *env) error {
			address, err := addressFlag(cmd, "contract")
			if err != nil {
				return err
			}
			datatoken, err := addressFlag(cmd, "datatoken")
			if err != nil {
				return err
			}
			client, err := sidestaking.NewClient(address, e.chain, e.registry, e.converter, e.submitter, e.logger)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, client, datatoken)
		})
	}
}
