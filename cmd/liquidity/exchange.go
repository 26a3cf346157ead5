package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"

	"liquidityLayer/internal/fixedrate"
	"liquidityLayer/internal/units"
)

func newExchangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Fixed-rate exchange reads, quotes, trades and admin",
	}
	cmd.PersistentFlags().String("contract", "", "fixed-rate exchange contract address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List exchange ids hosted by the contract",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			ids, err := client.GetExchanges(ctx)
			if err != nil {
				return err
			}
			out := make([]string, 0, len(ids))
			for _, id := range ids {
				out = append(out, common.Hash(id).Hex())
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}

	idCmd := &cobra.Command{
		Use:   "id",
		Short: "Resolve the exchange id of a (base token, datatoken, owner) triple",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			baseToken, err := addressFlag(cmd, "base-token")
			if err != nil {
				return err
			}
			datatoken, err := addressFlag(cmd, "datatoken")
			if err != nil {
				return err
			}
			owner, err := addressFlag(cmd, "owner")
			if err != nil {
				return err
			}
			id, err := client.GenerateExchangeID(ctx, baseToken, datatoken, owner)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"exchange_id": common.Hash(id).Hex()})
		}),
	}
	idCmd.Flags().String("base-token", "", "base token address")
	idCmd.Flags().String("datatoken", "", "datatoken address")
	idCmd.Flags().String("owner", "", "exchange owner")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print the exchange record and fees",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			exchange, err := client.GetExchange(ctx, id)
			if err != nil {
				return err
			}
			if !exchange.Exists() {
				return fixedrate.ErrExchangeNotFound
			}
			fees, err := client.GetFeesInfo(ctx, id)
			if err != nil {
				return err
			}
			swapper, err := client.GetAllowedSwapper(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"exchange_id":     common.Hash(id).Hex(),
				"exchange":        exchange,
				"fees":            fees,
				"allowed_swapper": swapper,
			})
		}),
	}

	quoteBuyCmd := &cobra.Command{
		Use:   "quote-buy",
		Short: "Quote the base tokens needed to buy datatokens",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			return runExchangeQuote(ctx, cmd, client.CalcBaseInGivenOutDT)
		}),
	}
	quoteSellCmd := &cobra.Command{
		Use:   "quote-sell",
		Short: "Quote the base tokens received for selling datatokens",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			return runExchangeQuote(ctx, cmd, client.GetAmountBTOut)
		}),
	}
	for _, c := range []*cobra.Command{quoteBuyCmd, quoteSellCmd} {
		c.Flags().String("amount", "", "datatoken amount")
		c.Flags().String("consume-fee", "", "consume market fee in base token")
	}

	buyCmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy datatokens paying at most --max-base",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			return runExchangeTrade(ctx, cmd, "max-base", client.BuyDT)
		}),
	}
	buyCmd.Flags().String("max-base", "", "maximum base token to pay")

	sellCmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell datatokens receiving at least --min-base",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			return runExchangeTrade(ctx, cmd, "min-base", client.SellDT)
		}),
	}
	sellCmd.Flags().String("min-base", "", "minimum base token to receive")
	for _, c := range []*cobra.Command{buyCmd, sellCmd} {
		c.Flags().String("amount", "", "datatoken amount")
		c.Flags().String("consume-market", "", "consume market fee receiver")
		c.Flags().String("consume-fee", "", "consume market fee in base token")
	}

	setRateCmd := &cobra.Command{
		Use:   "set-rate",
		Short: "Set base tokens per datatoken",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			rate, err := amountFlag(cmd, "rate")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.SetRate(ctx, id, rate))
		}),
	}
	setRateCmd.Flags().String("rate", "", "new rate")

	swapperCmd := &cobra.Command{
		Use:   "set-allowed-swapper",
		Short: "Restrict trading to one address; omit --swapper to lift it",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			swapper, err := optionalAddressFlag(cmd, "swapper")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.SetAllowedSwapper(ctx, id, swapper))
		}),
	}
	swapperCmd.Flags().String("swapper", "", "allowed swapper")

	updateFeeCmd := &cobra.Command{
		Use:   "update-market-fee",
		Short: "Set the publish market fee fraction",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			fee, err := amountFlag(cmd, "fee")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.UpdateMarketFee(ctx, id, fee))
		}),
	}
	updateFeeCmd.Flags().String("fee", "", "new market fee fraction")

	updateCollectorCmd := &cobra.Command{
		Use:   "update-market-fee-collector",
		Short: "Set the market fee collector",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			collector, err := addressFlag(cmd, "collector")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.UpdateMarketFeeCollector(ctx, id, collector))
		}),
	}
	updateCollectorCmd.Flags().String("collector", "", "new market fee collector")

	collectBTCmd := &cobra.Command{
		Use:   "collect-bt",
		Short: "Withdraw base token to the owner (owner only)",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd, "amount")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.CollectBT(ctx, id, amount))
		}),
	}
	collectDTCmd := &cobra.Command{
		Use:   "collect-dt",
		Short: "Withdraw datatoken to the owner (owner only)",
		RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
			id, err := exchangeIDFlag(cmd)
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd, "amount")
			if err != nil {
				return err
			}
			return printSubmission(cmd)(client.CollectDT(ctx, id, amount))
		}),
	}
	collectBTCmd.Flags().String("amount", "", "base token amount")
	collectDTCmd.Flags().String("amount", "", "datatoken amount")

	cmd.AddCommand(listCmd, idCmd, infoCmd, quoteBuyCmd, quoteSellCmd, buyCmd, sellCmd, setRateCmd, swapperCmd,
		updateFeeCmd, updateCollectorCmd, collectBTCmd, collectDTCmd)

	idOnly := []struct {
		use   string
		short string
		run   func(*fixedrate.Client, context.Context, [32]byte) (*types.Receipt, error)
	}{
		{"activate", "Enable trading", (*fixedrate.Client).Activate},
		{"deactivate", "Disable trading", (*fixedrate.Client).Deactivate},
		{"activate-mint", "Mint datatokens on buy", (*fixedrate.Client).ActivateMint},
		{"deactivate-mint", "Stop minting on buy", (*fixedrate.Client).DeactivateMint},
		{"collect-market-fee", "Send market fees to the collector (owner or collector)", (*fixedrate.Client).CollectMarketFee},
		{"collect-ocean-fee", "Send community fees to the OPC collector", (*fixedrate.Client).CollectOceanFee},
	}
	for _, entry := range idOnly {
		run := entry.run
		cmd.AddCommand(&cobra.Command{
			Use:   entry.use,
			Short: entry.short,
			RunE: exchangeRunE(func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error {
				id, err := exchangeIDFlag(cmd)
				if err != nil {
					return err
				}
				return printSubmission(cmd)(run(client, ctx, id))
			}),
		})
	}

	cmd.PersistentFlags().String("id", "", "exchange id (0x-prefixed 32 bytes)")
	return cmd
}

func exchangeRunE(fn func(ctx context.Context, cmd *cobra.Command, client *fixedrate.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runWithEnv(cmd, func(ctx context.Context, e *env) error {
			address, err := addressFlag(cmd, "contract")
			if err != nil {
				return err
			}
			client, err := fixedrate.NewClient(address, e.chain, e.registry, e.converter, e.submitter, e.ids, e.logger)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, client)
		})
	}
}

func printSubmission(cmd *cobra.Command) func(*types.Receipt, error) error {
	return func(receipt *types.Receipt, err error) error {
		if err != nil {
			return err
		}
		return printReceipt(cmd.OutOrStdout(), receipt)
	}
}

type exchangeQuoteFunc func(ctx context.Context, exchangeID [32]byte, datatokenAmount, consumeMarketFee units.HumanAmount) (fixedrate.PriceAndFees, error)

func runExchangeQuote(ctx context.Context, cmd *cobra.Command, quote exchangeQuoteFunc) error {
	id, err := exchangeIDFlag(cmd)
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd, "amount")
	if err != nil {
		return err
	}
	fee, err := optionalAmountFlag(cmd, "consume-fee")
	if err != nil {
		return err
	}
	result, err := quote(ctx, id, amount, fee)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

type exchangeTradeFunc func(ctx context.Context, exchangeID [32]byte, datatokenAmount, baseTokenBound units.HumanAmount, market fixedrate.ConsumeMarket) (*types.Receipt, error)

func runExchangeTrade(ctx context.Context, cmd *cobra.Command, boundFlag string, trade exchangeTradeFunc) error {
	id, err := exchangeIDFlag(cmd)
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd, "amount")
	if err != nil {
		return err
	}
	bound, err := amountFlag(cmd, boundFlag)
	if err != nil {
		return err
	}
	var market fixedrate.ConsumeMarket
	if market.Address, err = optionalAddressFlag(cmd, "consume-market"); err != nil {
		return err
	}
	if market.Fee, err = optionalAmountFlag(cmd, "consume-fee"); err != nil {
		return err
	}
	return printSubmission(cmd)(trade(ctx, id, amount, bound, market))
}
