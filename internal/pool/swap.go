package pool

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/units"
)

// SwapTokens names the tokens of a swap and the consume market fee receiver.
type SwapTokens struct {
	TokenIn          common.Address
	TokenOut         common.Address
	MarketFeeAddress common.Address
}

// SwapExactIn bounds a swap that spends exactly TokenAmountIn.
// A nil MaxPrice leaves the price unbounded.
type SwapExactIn struct {
	TokenAmountIn units.HumanAmount
	MinAmountOut  units.HumanAmount
	MaxPrice      *units.HumanAmount
	SwapMarketFee units.HumanAmount
}

// SwapExactOut bounds a swap that receives exactly TokenAmountOut.
type SwapExactOut struct {
	MaxAmountIn    units.HumanAmount
	TokenAmountOut units.HumanAmount
	MaxPrice       *units.HumanAmount
	SwapMarketFee  units.HumanAmount
}

// SwapExactAmountIn swaps TokenAmountIn of tokenIn for at least MinAmountOut
// of tokenOut. Slippage is enforced on-chain.
func (c *Client) SwapExactAmountIn(ctx context.Context, tokens SwapTokens, amounts SwapExactIn) (*types.Receipt, error) {
	if err := c.checkMax(ctx, tokens.TokenIn, amounts.TokenAmountIn, "swap in"); err != nil {
		return nil, err
	}
	amountIn, err := c.converter.ToBaseUnits(ctx, tokens.TokenIn, amounts.TokenAmountIn)
	if err != nil {
		return nil, err
	}
	minOut, err := c.converter.ToBaseUnits(ctx, tokens.TokenOut, amounts.MinAmountOut)
	if err != nil {
		return nil, err
	}
	maxPrice, fee, err := priceAndFee(amounts.MaxPrice, amounts.SwapMarketFee)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "swapExactAmountIn",
		[3]common.Address{tokens.TokenIn, tokens.TokenOut, tokens.MarketFeeAddress},
		[4]*big.Int{amountIn.Int(), minOut.Int(), maxPrice, fee},
	)
}

// SwapExactAmountOut swaps at most MaxAmountIn of tokenIn for exactly
// TokenAmountOut of tokenOut.
func (c *Client) SwapExactAmountOut(ctx context.Context, tokens SwapTokens, amounts SwapExactOut) (*types.Receipt, error) {
	if err := c.checkMax(ctx, tokens.TokenOut, amounts.TokenAmountOut, "swap out"); err != nil {
		return nil, err
	}
	maxIn, err := c.converter.ToBaseUnits(ctx, tokens.TokenIn, amounts.MaxAmountIn)
	if err != nil {
		return nil, err
	}
	amountOut, err := c.converter.ToBaseUnits(ctx, tokens.TokenOut, amounts.TokenAmountOut)
	if err != nil {
		return nil, err
	}
	maxPrice, fee, err := priceAndFee(amounts.MaxPrice, amounts.SwapMarketFee)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "swapExactAmountOut",
		[3]common.Address{tokens.TokenIn, tokens.TokenOut, tokens.MarketFeeAddress},
		[4]*big.Int{maxIn.Int(), amountOut.Int(), maxPrice, fee},
	)
}

func priceAndFee(maxPrice *units.HumanAmount, swapMarketFee units.HumanAmount) (*big.Int, *big.Int, error) {
	price := new(big.Int).Set(math.MaxBig256)
	if maxPrice != nil {
		wei, err := units.ToWei(*maxPrice)
		if err != nil {
			return nil, nil, err
		}
		price = wei.Int()
	}
	fee, err := units.ToWei(swapMarketFee)
	if err != nil {
		return nil, nil, err
	}
	return price, fee.Int(), nil
}

// twoTokens returns the pool's bound tokens in contract order.
func (c *Client) twoTokens(ctx context.Context) ([2]common.Address, error) {
	tokens, err := c.GetCurrentTokens(ctx)
	if err != nil {
		return [2]common.Address{}, err
	}
	if len(tokens) != 2 {
		return [2]common.Address{}, fmt.Errorf("%w: got %d", ErrNotTwoToken, len(tokens))
	}
	return [2]common.Address{tokens[0], tokens[1]}, nil
}

// JoinPool mints poolAmountOut shares, spending at most maxAmountsIn of each
// token in GetCurrentTokens order.
func (c *Client) JoinPool(ctx context.Context, poolAmountOut units.HumanAmount, maxAmountsIn [2]units.HumanAmount) (*types.Receipt, error) {
	tokens, err := c.twoTokens(ctx)
	if err != nil {
		return nil, err
	}
	shares, err := units.ToWei(poolAmountOut)
	if err != nil {
		return nil, err
	}
	amounts := make([]*big.Int, 0, 2)
	for i, token := range tokens {
		amount, err := c.converter.ToBaseUnits(ctx, token, maxAmountsIn[i])
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount.Int())
	}
	return c.submit(ctx, "joinPool", shares.Int(), amounts)
}

// ExitPool burns poolAmountIn shares, receiving at least minAmountsOut of
// each token in GetCurrentTokens order.
func (c *Client) ExitPool(ctx context.Context, poolAmountIn units.HumanAmount, minAmountsOut [2]units.HumanAmount) (*types.Receipt, error) {
	tokens, err := c.twoTokens(ctx)
	if err != nil {
		return nil, err
	}
	shares, err := units.ToWei(poolAmountIn)
	if err != nil {
		return nil, err
	}
	amounts := make([]*big.Int, 0, 2)
	for i, token := range tokens {
		amount, err := c.converter.ToBaseUnits(ctx, token, minAmountsOut[i])
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount.Int())
	}
	return c.submit(ctx, "exitPool", shares.Int(), amounts)
}

// JoinswapExternAmountIn adds exactly tokenAmountIn of tokenIn for at least
// minPoolAmountOut shares.
func (c *Client) JoinswapExternAmountIn(ctx context.Context, tokenIn common.Address, tokenAmountIn, minPoolAmountOut units.HumanAmount) (*types.Receipt, error) {
	if err := c.checkMax(ctx, tokenIn, tokenAmountIn, "add liquidity"); err != nil {
		return nil, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, tokenIn, tokenAmountIn)
	if err != nil {
		return nil, err
	}
	shares, err := units.ToWei(minPoolAmountOut)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "joinswapExternAmountIn", tokenIn, amount.Int(), shares.Int())
}

// JoinswapPoolAmountOut mints exactly poolAmountOut shares for at most
// maxAmountIn of tokenIn.
func (c *Client) JoinswapPoolAmountOut(ctx context.Context, tokenIn common.Address, poolAmountOut, maxAmountIn units.HumanAmount) (*types.Receipt, error) {
	shares, err := units.ToWei(poolAmountOut)
	if err != nil {
		return nil, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, tokenIn, maxAmountIn)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "joinswapPoolAmountOut", tokenIn, shares.Int(), amount.Int())
}

// ExitswapPoolAmountIn burns exactly poolAmountIn shares for at least
// minAmountOut of tokenOut.
func (c *Client) ExitswapPoolAmountIn(ctx context.Context, tokenOut common.Address, poolAmountIn, minAmountOut units.HumanAmount) (*types.Receipt, error) {
	shares, err := units.ToWei(poolAmountIn)
	if err != nil {
		return nil, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, tokenOut, minAmountOut)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "exitswapPoolAmountIn", tokenOut, shares.Int(), amount.Int())
}

// ExitswapExternAmountOut withdraws exactly tokenAmountOut of tokenOut for at
// most maxPoolAmountIn shares.
func (c *Client) ExitswapExternAmountOut(ctx context.Context, tokenOut common.Address, tokenAmountOut, maxPoolAmountIn units.HumanAmount) (*types.Receipt, error) {
	if err := c.checkMax(ctx, tokenOut, tokenAmountOut, "remove liquidity"); err != nil {
		return nil, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, tokenOut, tokenAmountOut)
	if err != nil {
		return nil, err
	}
	shares, err := units.ToWei(maxPoolAmountIn)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "exitswapExternAmountOut", tokenOut, amount.Int(), shares.Int())
}

// CollectOPC sends accrued community fees to the OPC collector. Anyone may call it.
func (c *Client) CollectOPC(ctx context.Context) (*types.Receipt, error) {
	return c.submit(ctx, "collectOPC")
}

// CollectMarketFee sends accrued publish market fees to the collector. Only
// the collector may call it.
func (c *Client) CollectMarketFee(ctx context.Context) (*types.Receipt, error) {
	if err := c.requireCollector(ctx, "collectMarketFee"); err != nil {
		return nil, err
	}
	return c.submit(ctx, "collectMarketFee")
}

// UpdatePublishMarketFee moves the publish market fee to a new collector and
// fee fraction. Only the current collector may call it.
func (c *Client) UpdatePublishMarketFee(ctx context.Context, newCollector common.Address, newSwapFee units.HumanAmount) (*types.Receipt, error) {
	if err := c.requireCollector(ctx, "updatePublishMarketFee"); err != nil {
		return nil, err
	}
	fee, err := units.ToWei(newSwapFee)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "updatePublishMarketFee", newCollector, fee.Int())
}

func (c *Client) requireCollector(ctx context.Context, method string) error {
	collector, err := c.GetMarketFeeCollector(ctx)
	if err != nil {
		return err
	}
	caller := c.submitter.From()
	if caller != collector {
		c.logger.Warn("market fee action rejected",
			zap.String("method", method),
			zap.String("caller", caller.Hex()),
			zap.String("collector", collector.Hex()),
		)
		return fmt.Errorf("%w: %s", ErrNotAuthorized, caller.Hex())
	}
	return nil
}
