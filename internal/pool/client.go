package pool

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

var (
	ErrNotAuthorized   = errors.New("caller is not the market fee collector")
	ErrNotTwoToken     = errors.New("pool does not hold exactly two tokens")
	ErrExceedsMaxRatio = errors.New("amount exceeds pool max ratio")
)

// MaxRatio bounds a single swap, add or remove against the token reserve.
var MaxRatio = decimal.RequireFromString("0.5")

// TokenAmount pairs a token with a human amount of it.
type TokenAmount struct {
	Token  common.Address    `json:"token"`
	Amount units.HumanAmount `json:"amount"`
}

// Client wraps one liquidity pool contract.
type Client struct {
	address   common.Address
	backend   chain.Backend
	abi       abi.ABI
	converter *units.Converter
	submitter *txn.Submitter
	logger    *zap.Logger
}

// NewClient builds a pool client. submitter may be nil for read-only use.
func NewClient(address common.Address, backend chain.Backend, registry *contracts.Registry, converter *units.Converter, submitter *txn.Submitter, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		return nil, fmt.Errorf("contract registry is nil")
	}
	if converter == nil {
		return nil, fmt.Errorf("unit converter is nil")
	}
	parsed, err := registry.ABI(contracts.KindPool, contracts.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Client{
		address:   address,
		backend:   backend,
		abi:       parsed,
		converter: converter,
		submitter: submitter,
		logger:    logger.With(zap.String("pool", address.Hex())),
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

// ABI returns the parsed pool ABI the client packs calls with.
func (c *Client) ABI() abi.ABI {
	return c.abi
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	values, err := contracts.Call(ctx, c.backend, c.address, c.abi, method, args...)
	if err != nil {
		c.logger.Debug("pool call failed", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	return values, nil
}

func (c *Client) callBigInt(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return contracts.AsBigInt(values[0])
}

func (c *Client) callAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	values, err := c.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(values) == 0 {
		return common.Address{}, fmt.Errorf("%s returned no values", method)
	}
	return contracts.AsAddress(values[0])
}

// tokenAmount reads a raw amount denominated in token.
func (c *Client) tokenAmount(ctx context.Context, token common.Address, method string, args ...interface{}) (units.HumanAmount, error) {
	raw, err := c.callBigInt(ctx, method, args...)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.converter.ToHumanUnits(ctx, token, units.NewBaseAmount(raw)), nil
}

// weiAmount reads a raw amount in the 18 decimal protocol convention.
func (c *Client) weiAmount(ctx context.Context, method string, args ...interface{}) (units.HumanAmount, error) {
	raw, err := c.callBigInt(ctx, method, args...)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return units.FromWeiInt(raw), nil
}

func (c *Client) submit(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	if c.submitter == nil {
		c.logger.Error("pool submission without signer", zap.String("method", method))
		return nil, txn.ErrNoSigner
	}
	return c.submitter.Submit(ctx, txn.Call{
		Contract: string(contracts.KindPool),
		To:       c.address,
		ABI:      c.abi,
		Method:   method,
		Args:     args,
	})
}

func (c *Client) GetPoolSharesTotalSupply(ctx context.Context) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "totalSupply")
}

func (c *Client) GetCurrentTokens(ctx context.Context) ([]common.Address, error) {
	values, err := c.call(ctx, "getCurrentTokens")
	if err != nil {
		return nil, err
	}
	return contracts.AsAddresses(values[0])
}

func (c *Client) GetFinalTokens(ctx context.Context) ([]common.Address, error) {
	values, err := c.call(ctx, "getFinalTokens")
	if err != nil {
		return nil, err
	}
	return contracts.AsAddresses(values[0])
}

func (c *Client) GetController(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getController")
}

func (c *Client) GetBaseToken(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getBaseTokenAddress")
}

func (c *Client) GetDatatoken(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getDatatokenAddress")
}

func (c *Client) GetMarketFeeCollector(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getMarketFeeCollector")
}

func (c *Client) GetOPCCollector(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getOPCCollector")
}

func (c *Client) IsBound(ctx context.Context, token common.Address) (bool, error) {
	values, err := c.call(ctx, "isBound", token)
	if err != nil {
		return false, err
	}
	return contracts.AsBool(values[0])
}

func (c *Client) IsFinalized(ctx context.Context) (bool, error) {
	values, err := c.call(ctx, "isFinalized")
	if err != nil {
		return false, err
	}
	return contracts.AsBool(values[0])
}

// GetReserve returns the pool balance of token in that token's units.
func (c *Client) GetReserve(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	return c.tokenAmount(ctx, token, "getBalance", token)
}

// GetSwapFee returns the LP swap fee as a fraction, e.g. 0.001.
func (c *Client) GetSwapFee(ctx context.Context) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "getSwapFee")
}

// GetMarketFee returns the publish market swap fee as a fraction.
func (c *Client) GetMarketFee(ctx context.Context) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "getMarketFee")
}

func (c *Client) GetNormalizedWeight(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "getNormalizedWeight", token)
}

func (c *Client) GetDenormalizedWeight(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "getDenormalizedWeight", token)
}

func (c *Client) GetTotalDenormalizedWeight(ctx context.Context) (units.HumanAmount, error) {
	return c.weiAmount(ctx, "getTotalDenormalizedWeight")
}

// GetMarketFees returns publish market fees accrued in token.
func (c *Client) GetMarketFees(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	return c.tokenAmount(ctx, token, "publishMarketFees", token)
}

// GetCommunityFees returns OPC fees accrued in token.
func (c *Client) GetCommunityFees(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	return c.tokenAmount(ctx, token, "communityFees", token)
}

func (c *Client) GetCurrentMarketFees(ctx context.Context) ([]TokenAmount, error) {
	return c.feeList(ctx, "getCurrentMarketFees")
}

func (c *Client) GetCurrentOPCFees(ctx context.Context) ([]TokenAmount, error) {
	return c.feeList(ctx, "getCurrentOPCFees")
}

func (c *Client) feeList(ctx context.Context, method string) ([]TokenAmount, error) {
	values, err := c.call(ctx, method)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("%s returned %d values", method, len(values))
	}
	tokens, err := contracts.AsAddresses(values[0])
	if err != nil {
		return nil, err
	}
	amounts, err := contracts.AsBigInts(values[1])
	if err != nil {
		return nil, err
	}
	if len(tokens) != len(amounts) {
		return nil, fmt.Errorf("%s: %d tokens for %d amounts", method, len(tokens), len(amounts))
	}
	out := make([]TokenAmount, 0, len(tokens))
	for i, token := range tokens {
		out = append(out, TokenAmount{
			Token:  token,
			Amount: c.converter.ToHumanUnits(ctx, token, units.NewBaseAmount(amounts[i])),
		})
	}
	return out, nil
}

// GetSpotPrice returns the price of tokenOut in tokenIn including
// swapMarketFee, scaled to tokenOut's decimals.
func (c *Client) GetSpotPrice(ctx context.Context, tokenIn, tokenOut common.Address, swapMarketFee units.HumanAmount) (units.HumanAmount, error) {
	fee, err := units.ToWei(swapMarketFee)
	if err != nil {
		return units.HumanAmount{}, err
	}
	raw, err := c.callBigInt(ctx, "getSpotPrice", tokenIn, tokenOut, fee.Int())
	if err != nil {
		return units.HumanAmount{}, err
	}
	decimalsIn := c.converter.Decimals(ctx, tokenIn)
	decimalsOut := c.converter.Decimals(ctx, tokenOut)
	return scaleSpotPrice(raw, decimalsIn, decimalsOut), nil
}

// scaleSpotPrice compensates the on-chain fixed point order of operations:
// a wider tokenIn divides by the gap, a wider or equal tokenOut multiplies by
// twice the gap, then the result is read in tokenOut units.
func scaleSpotPrice(raw *big.Int, decimalsIn, decimalsOut uint8) units.HumanAmount {
	price := decimal.NewFromBigInt(raw, 0)
	if decimalsIn > decimalsOut {
		gap := int32(decimalsIn) - int32(decimalsOut)
		price = price.Shift(-gap)
	} else {
		gap := int32(decimalsOut) - int32(decimalsIn)
		price = price.Shift(2 * gap)
	}
	return units.HumanFromDecimal(price.Shift(-int32(decimalsOut)))
}

func (c *Client) maxOf(ctx context.Context, token common.Address) (units.HumanAmount, error) {
	reserve, err := c.GetReserve(ctx, token)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return units.HumanFromDecimal(reserve.Decimal().Mul(MaxRatio)), nil
}

// GetMaxSwapExactIn is the largest tokenIn amount a single swap accepts.
func (c *Client) GetMaxSwapExactIn(ctx context.Context, tokenIn common.Address) (units.HumanAmount, error) {
	return c.maxOf(ctx, tokenIn)
}

// GetMaxSwapExactOut is the largest tokenOut amount a single swap returns.
func (c *Client) GetMaxSwapExactOut(ctx context.Context, tokenOut common.Address) (units.HumanAmount, error) {
	return c.maxOf(ctx, tokenOut)
}

func (c *Client) GetMaxAddLiquidity(ctx context.Context, tokenIn common.Address) (units.HumanAmount, error) {
	return c.maxOf(ctx, tokenIn)
}

func (c *Client) GetMaxRemoveLiquidity(ctx context.Context, tokenOut common.Address) (units.HumanAmount, error) {
	return c.maxOf(ctx, tokenOut)
}

func (c *Client) checkMax(ctx context.Context, token common.Address, amount units.HumanAmount, kind string) error {
	max, err := c.maxOf(ctx, token)
	if err != nil {
		return err
	}
	if amount.Cmp(max) > 0 {
		c.logger.Warn("amount above max ratio",
			zap.String("kind", kind),
			zap.String("token", token.Hex()),
			zap.String("amount", amount.String()),
			zap.String("max", max.String()),
		)
		return fmt.Errorf("%w: %s %s > %s", ErrExceedsMaxRatio, kind, amount, max)
	}
	return nil
}
