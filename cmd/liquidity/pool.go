package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"liquidityLayer/internal/pool"
	"liquidityLayer/internal/units"
)

type poolInfo struct {
	Address          common.Address     `json:"address"`
	Controller       common.Address     `json:"controller"`
	BaseToken        common.Address     `json:"base_token"`
	Datatoken        common.Address     `json:"datatoken"`
	Finalized        bool               `json:"finalized"`
	BaseReserve      units.HumanAmount  `json:"base_reserve"`
	DatatokenReserve units.HumanAmount  `json:"datatoken_reserve"`
	SharesSupply     units.HumanAmount  `json:"shares_supply"`
	SwapFee          units.HumanAmount  `json:"swap_fee"`
	MarketFee        units.HumanAmount  `json:"market_fee"`
	MarketFees       []pool.TokenAmount `json:"market_fees"`
	OPCFees          []pool.TokenAmount `json:"opc_fees"`
}

func newPoolCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "AMM pool reads, quotes and trades",
	}
	cmd.PersistentFlags().String("pool", "", "pool address")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print pool tokens, reserves and fees",
		RunE:  poolRunE(runPoolInfo),
	}

	priceCmd := &cobra.Command{
		Use:   "spot-price",
		Short: "Print the spot price of token-out in token-in",
		RunE:  poolRunE(runPoolSpotPrice),
	}
	priceCmd.Flags().String("in", "", "token in")
	priceCmd.Flags().String("out", "", "token out")
	priceCmd.Flags().String("market-fee", "", "consume market fee fraction")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap by exact amount in or exact amount out",
		RunE:  poolRunE(runPoolQuote),
	}
	quoteCmd.Flags().String("in", "", "token in")
	quoteCmd.Flags().String("out", "", "token out")
	quoteCmd.Flags().String("amount-in", "", "exact amount of token in")
	quoteCmd.Flags().String("amount-out", "", "exact amount of token out")
	quoteCmd.Flags().String("market-fee", "", "consume market fee fraction")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap by exact amount in (with --min-out) or exact amount out (with --max-in)",
		RunE:  poolRunE(runPoolSwap),
	}
	swapCmd.Flags().String("in", "", "token in")
	swapCmd.Flags().String("out", "", "token out")
	swapCmd.Flags().String("amount-in", "", "exact amount of token in")
	swapCmd.Flags().String("min-out", "", "minimum amount of token out")
	swapCmd.Flags().String("amount-out", "", "exact amount of token out")
	swapCmd.Flags().String("max-in", "", "maximum amount of token in")
	swapCmd.Flags().String("max-price", "", "maximum spot price, unbounded when unset")
	swapCmd.Flags().String("market-fee", "", "consume market fee fraction")
	swapCmd.Flags().String("market-fee-address", "", "consume market fee receiver")

	joinCmd := &cobra.Command{
		Use:   "join",
		Short: "Add liquidity in both tokens for an exact share amount",
		RunE:  poolRunE(runPoolJoin),
	}
	joinCmd.Flags().String("shares", "", "pool shares to receive")
	joinCmd.Flags().StringSlice("max-in", nil, "maximum amounts in, ordered as the pool's tokens")

	exitCmd := &cobra.Command{
		Use:   "exit",
		Short: "Remove liquidity in both tokens for an exact share amount",
		RunE:  poolRunE(runPoolExit),
	}
	exitCmd.Flags().String("shares", "", "pool shares to burn")
	exitCmd.Flags().StringSlice("min-out", nil, "minimum amounts out, ordered as the pool's tokens")

	joinSingleCmd := &cobra.Command{
		Use:   "join-single",
		Short: "Add liquidity in one token, by exact amount in or exact shares out",
		RunE:  poolRunE(runPoolJoinSingle),
	}
	joinSingleCmd.Flags().String("token", "", "token in")
	joinSingleCmd.Flags().String("amount-in", "", "exact amount of token in")
	joinSingleCmd.Flags().String("min-shares", "", "minimum pool shares out")
	joinSingleCmd.Flags().String("shares", "", "exact pool shares out")
	joinSingleCmd.Flags().String("max-in", "", "maximum amount of token in")

	exitSingleCmd := &cobra.Command{
		Use:   "exit-single",
		Short: "Remove liquidity in one token, by exact shares in or exact amount out",
		RunE:  poolRunE(runPoolExitSingle),
	}
	exitSingleCmd.Flags().String("token", "", "token out")
	exitSingleCmd.Flags().String("shares", "", "exact pool shares in")
	exitSingleCmd.Flags().String("min-out", "", "minimum amount of token out")
	exitSingleCmd.Flags().String("amount-out", "", "exact amount of token out")
	exitSingleCmd.Flags().String("max-shares", "", "maximum pool shares in")

	collectOPCCmd := &cobra.Command{
		Use:   "collect-opc",
		Short: "Send accrued community fees to the OPC collector",
		RunE: poolRunE(func(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
			receipt, err := client.CollectOPC(ctx)
			if err != nil {
				return err
			}
			return printReceipt(cmd.OutOrStdout(), receipt)
		}),
	}

	collectMarketCmd := &cobra.Command{
		Use:   "collect-market-fee",
		Short: "Send accrued market fees to the collector (collector only)",
		RunE: poolRunE(func(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
			receipt, err := client.CollectMarketFee(ctx)
			if err != nil {
				return err
			}
			return printReceipt(cmd.OutOrStdout(), receipt)
		}),
	}

	updateFeeCmd := &cobra.Command{
		Use:   "update-market-fee",
		Short: "Change the publish market fee and collector (collector only)",
		RunE: poolRunE(func(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
			collector, err := addressFlag(cmd, "collector")
			if err != nil {
				return err
			}
			fee, err := amountFlag(cmd, "fee")
			if err != nil {
				return err
			}
			receipt, err := client.UpdatePublishMarketFee(ctx, collector, fee)
			if err != nil {
				return err
			}
			return printReceipt(cmd.OutOrStdout(), receipt)
		}),
	}
	updateFeeCmd.Flags().String("collector", "", "new market fee collector")
	updateFeeCmd.Flags().String("fee", "", "new market fee fraction")

	cmd.AddCommand(infoCmd, priceCmd, quoteCmd, swapCmd, joinCmd, exitCmd, joinSingleCmd, exitSingleCmd,
		collectOPCCmd, collectMarketCmd, updateFeeCmd)
	return cmd
}

func poolRunE(fn func(ctx context.Context, cmd *cobra.Command, client *pool.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runWithEnv(cmd, func(ctx context.Context, e *env) error {
			address, err := addressFlag(cmd, "pool")
			if err != nil {
				return err
			}
			client, err := pool.NewClient(address, e.chain, e.registry, e.converter, e.submitter, e.logger)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, client)
		})
	}
}

func runPoolInfo(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	info := poolInfo{Address: client.Address()}
	var err error
	if info.Controller, err = client.GetController(ctx); err != nil {
		return err
	}
	if info.BaseToken, err = client.GetBaseToken(ctx); err != nil {
		return err
	}
	if info.Datatoken, err = client.GetDatatoken(ctx); err != nil {
		return err
	}
	if info.Finalized, err = client.IsFinalized(ctx); err != nil {
		return err
	}
	if info.BaseReserve, err = client.GetReserve(ctx, info.BaseToken); err != nil {
		return err
	}
	if info.DatatokenReserve, err = client.GetReserve(ctx, info.Datatoken); err != nil {
		return err
	}
	if info.SharesSupply, err = client.GetPoolSharesTotalSupply(ctx); err != nil {
		return err
	}
	if info.SwapFee, err = client.GetSwapFee(ctx); err != nil {
		return err
	}
	if info.MarketFee, err = client.GetMarketFee(ctx); err != nil {
		return err
	}
	if info.MarketFees, err = client.GetCurrentMarketFees(ctx); err != nil {
		return err
	}
	if info.OPCFees, err = client.GetCurrentOPCFees(ctx); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), info)
}

func runPoolSpotPrice(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	tokenIn, err := addressFlag(cmd, "in")
	if err != nil {
		return err
	}
	tokenOut, err := addressFlag(cmd, "out")
	if err != nil {
		return err
	}
	fee, err := optionalAmountFlag(cmd, "market-fee")
	if err != nil {
		return err
	}
	price, err := client.GetSpotPrice(ctx, tokenIn, tokenOut, fee)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]interface{}{"spot_price": price})
}

func runPoolQuote(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	tokenIn, err := addressFlag(cmd, "in")
	if err != nil {
		return err
	}
	tokenOut, err := addressFlag(cmd, "out")
	if err != nil {
		return err
	}
	fee, err := optionalAmountFlag(cmd, "market-fee")
	if err != nil {
		return err
	}

	var quote pool.SwapQuote
	if cmd.Flags().Changed("amount-out") {
		amountOut, err := amountFlag(cmd, "amount-out")
		if err != nil {
			return err
		}
		quote, err = client.GetAmountInExactOut(ctx, tokenIn, tokenOut, amountOut, fee)
		if err != nil {
			return err
		}
	} else {
		amountIn, err := amountFlag(cmd, "amount-in")
		if err != nil {
			return err
		}
		quote, err = client.GetAmountOutExactIn(ctx, tokenIn, tokenOut, amountIn, fee)
		if err != nil {
			return err
		}
	}
	return printJSON(cmd.OutOrStdout(), quote)
}

func runPoolSwap(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	var (
		tokens pool.SwapTokens
		err    error
	)
	if tokens.TokenIn, err = addressFlag(cmd, "in"); err != nil {
		return err
	}
	if tokens.TokenOut, err = addressFlag(cmd, "out"); err != nil {
		return err
	}
	if tokens.MarketFeeAddress, err = optionalAddressFlag(cmd, "market-fee-address"); err != nil {
		return err
	}
	fee, err := optionalAmountFlag(cmd, "market-fee")
	if err != nil {
		return err
	}
	var maxPrice *units.HumanAmount
	if cmd.Flags().Changed("max-price") {
		price, err := amountFlag(cmd, "max-price")
		if err != nil {
			return err
		}
		maxPrice = &price
	}

	if cmd.Flags().Changed("amount-out") {
		amounts := pool.SwapExactOut{MaxPrice: maxPrice, SwapMarketFee: fee}
		if amounts.TokenAmountOut, err = amountFlag(cmd, "amount-out"); err != nil {
			return err
		}
		if amounts.MaxAmountIn, err = amountFlag(cmd, "max-in"); err != nil {
			return err
		}
		receipt, err := client.SwapExactAmountOut(ctx, tokens, amounts)
		if err != nil {
			return err
		}
		return printReceipt(cmd.OutOrStdout(), receipt)
	}

	amounts := pool.SwapExactIn{MaxPrice: maxPrice, SwapMarketFee: fee}
	if amounts.TokenAmountIn, err = amountFlag(cmd, "amount-in"); err != nil {
		return err
	}
	if amounts.MinAmountOut, err = amountFlag(cmd, "min-out"); err != nil {
		return err
	}
	receipt, err := client.SwapExactAmountIn(ctx, tokens, amounts)
	if err != nil {
		return err
	}
	return printReceipt(cmd.OutOrStdout(), receipt)
}

func pairFlag(cmd *cobra.Command, name string) ([2]units.HumanAmount, error) {
	raw, _ := cmd.Flags().GetStringSlice(name)
	if len(raw) != 2 {
		return [2]units.HumanAmount{}, fmt.Errorf("--%s needs exactly two amounts", name)
	}
	var out [2]units.HumanAmount
	for i, value := range raw {
		amount, err := units.ParseHuman(value)
		if err != nil {
			return [2]units.HumanAmount{}, fmt.Errorf("--%s: %w", name, err)
		}
		out[i] = amount
	}
	return out, nil
}

func runPoolJoin(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	shares, err := amountFlag(cmd, "shares")
	if err != nil {
		return err
	}
	maxIn, err := pairFlag(cmd, "max-in")
	if err != nil {
		return err
	}
	receipt, err := client.JoinPool(ctx, shares, maxIn)
	if err != nil {
		return err
	}
	return printReceipt(cmd.OutOrStdout(), receipt)
}

func runPoolExit(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	shares, err := amountFlag(cmd, "shares")
	if err != nil {
		return err
	}
	minOut, err := pairFlag(cmd, "min-out")
	if err != nil {
		return err
	}
	receipt, err := client.ExitPool(ctx, shares, minOut)
	if err != nil {
		return err
	}
	return printReceipt(cmd.OutOrStdout(), receipt)
}

func runPoolJoinSingle(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	tokenIn, err := addressFlag(cmd, "token")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("shares") {
		shares, err := amountFlag(cmd, "shares")
		if err != nil {
			return err
		}
		maxIn, err := amountFlag(cmd, "max-in")
		if err != nil {
			return err
		}
		receipt, err := client.JoinswapPoolAmountOut(ctx, tokenIn, shares, maxIn)
		if err != nil {
			return err
		}
		return printReceipt(cmd.OutOrStdout(), receipt)
	}
	amountIn, err := amountFlag(cmd, "amount-in")
	if err != nil {
		return err
	}
	minShares, err := optionalAmountFlag(cmd, "min-shares")
	if err != nil {
		return err
	}
	receipt, err := client.JoinswapExternAmountIn(ctx, tokenIn, amountIn, minShares)
	if err != nil {
		return err
	}
	return printReceipt(cmd.OutOrStdout(), receipt)
}

func runPoolExitSingle(ctx context.Context, cmd *cobra.Command, client *pool.Client) error {
	tokenOut, err := addressFlag(cmd, "token")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("amount-out") {
		amountOut, err := amountFlag(cmd, "amount-out")
		if err != nil {
			return err
		}
		maxShares, err := amountFlag(cmd, "max-shares")
		if err != nil {
			return err
		}
		receipt, err := client.ExitswapExternAmountOut(ctx, tokenOut, amountOut, maxShares)
		if err != nil {
			return err
		}
		return printReceipt(cmd.OutOrStdout(), receipt)
	}
	shares, err := amountFlag(cmd, "shares")
	if err != nil {
		return err
	}
	minOut, err := optionalAmountFlag(cmd, "min-out")
	if err != nil {
		return err
	}
	receipt, err := client.ExitswapPoolAmountIn(ctx, tokenOut, shares, minOut)
	if err != nil {
		return err
	}
	return printReceipt(cmd.OutOrStdout(), receipt)
}
