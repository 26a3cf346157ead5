package pool

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/units"
)

// SwapQuote breaks a swap quote into the traded amount and its fee parts.
// Amount is in the quoted token; every fee is charged in tokenIn.
type SwapQuote struct {
	Amount           units.HumanAmount `json:"amount"`
	LPFee            units.HumanAmount `json:"lp_fee"`
	OPCFee           units.HumanAmount `json:"opc_fee"`
	PublishMarketFee units.HumanAmount `json:"publish_market_fee"`
	ConsumeMarketFee units.HumanAmount `json:"consume_market_fee"`
}

// GetAmountInExactOut quotes the tokenIn needed to receive tokenAmountOut.
func (c *Client) GetAmountInExactOut(ctx context.Context, tokenIn, tokenOut common.Address, tokenAmountOut, swapMarketFee units.HumanAmount) (SwapQuote, error) {
	if err := c.checkMax(ctx, tokenOut, tokenAmountOut, "swap out"); err != nil {
		return SwapQuote{}, err
	}
	amountOut, err := c.converter.ToBaseUnits(ctx, tokenOut, tokenAmountOut)
	if err != nil {
		return SwapQuote{}, err
	}
	fee, err := units.ToWei(swapMarketFee)
	if err != nil {
		return SwapQuote{}, err
	}
	return c.swapQuote(ctx, "getAmountInExactOut", tokenIn, tokenIn, tokenIn, tokenOut, amountOut.Int(), fee.Int())
}

// GetAmountOutExactIn quotes the tokenOut received for tokenAmountIn.
func (c *Client) GetAmountOutExactIn(ctx context.Context, tokenIn, tokenOut common.Address, tokenAmountIn, swapMarketFee units.HumanAmount) (SwapQuote, error) {
	if err := c.checkMax(ctx, tokenIn, tokenAmountIn, "swap in"); err != nil {
		return SwapQuote{}, err
	}
	amountIn, err := c.converter.ToBaseUnits(ctx, tokenIn, tokenAmountIn)
	if err != nil {
		return SwapQuote{}, err
	}
	fee, err := units.ToWei(swapMarketFee)
	if err != nil {
		return SwapQuote{}, err
	}
	return c.swapQuote(ctx, "getAmountOutExactIn", tokenOut, tokenIn, tokenIn, tokenOut, amountIn.Int(), fee.Int())
}

func (c *Client) swapQuote(ctx context.Context, method string, amountToken, feeToken common.Address, args ...interface{}) (SwapQuote, error) {
	values, err := c.call(ctx, method, args...)
	if err != nil {
		return SwapQuote{}, err
	}
	if len(values) < 5 {
		return SwapQuote{}, fmt.Errorf("%s returned %d values", method, len(values))
	}
	raw := make([]units.BaseAmount, 5)
	for i := range raw {
		v, err := contracts.AsBigInt(values[i])
		if err != nil {
			return SwapQuote{}, fmt.Errorf("%s output %d: %w", method, i, err)
		}
		raw[i] = units.NewBaseAmount(v)
	}
	return SwapQuote{
		Amount:           c.converter.ToHumanUnits(ctx, amountToken, raw[0]),
		LPFee:            c.converter.ToHumanUnits(ctx, feeToken, raw[1]),
		OPCFee:           c.converter.ToHumanUnits(ctx, feeToken, raw[2]),
		PublishMarketFee: c.converter.ToHumanUnits(ctx, feeToken, raw[3]),
		ConsumeMarketFee: c.converter.ToHumanUnits(ctx, feeToken, raw[4]),
	}, nil
}

// CalcPoolOutGivenSingleIn quotes the pool shares minted for tokenAmountIn.
func (c *Client) CalcPoolOutGivenSingleIn(ctx context.Context, tokenIn common.Address, tokenAmountIn units.HumanAmount) (units.HumanAmount, error) {
	amount, err := c.converter.ToBaseUnits(ctx, tokenIn, tokenAmountIn)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.weiAmount(ctx, "calcPoolOutGivenSingleIn", tokenIn, amount.Int())
}

// CalcSingleInGivenPoolOut quotes the tokenIn needed to mint poolAmountOut shares.
func (c *Client) CalcSingleInGivenPoolOut(ctx context.Context, tokenIn common.Address, poolAmountOut units.HumanAmount) (units.HumanAmount, error) {
	shares, err := units.ToWei(poolAmountOut)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.tokenAmount(ctx, tokenIn, "calcSingleInGivenPoolOut", tokenIn, shares.Int())
}

// CalcSingleOutGivenPoolIn quotes the tokenOut returned for burning poolAmountIn shares.
func (c *Client) CalcSingleOutGivenPoolIn(ctx context.Context, tokenOut common.Address, poolAmountIn units.HumanAmount) (units.HumanAmount, error) {
	shares, err := units.ToWei(poolAmountIn)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.tokenAmount(ctx, tokenOut, "calcSingleOutGivenPoolIn", tokenOut, shares.Int())
}

// CalcPoolInGivenSingleOut quotes the shares burned to withdraw tokenAmountOut.
func (c *Client) CalcPoolInGivenSingleOut(ctx context.Context, tokenOut common.Address, tokenAmountOut units.HumanAmount) (units.HumanAmount, error) {
	amount, err := c.converter.ToBaseUnits(ctx, tokenOut, tokenAmountOut)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.weiAmount(ctx, "calcPoolInGivenSingleOut", tokenOut, amount.Int())
}
