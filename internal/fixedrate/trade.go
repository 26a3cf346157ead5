package fixedrate

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/units"
)

// ConsumeMarket names the market that earns the consume fee on a trade. The
// zero value charges no consume fee.
type ConsumeMarket struct {
	Address common.Address
	// Fee is an absolute base token amount, not a fraction of the trade. It is
	// scaled by the base token's decimals before submission.
	Fee units.HumanAmount
}

// BuyDT buys datatokenAmount, paying at most maxBaseTokenAmount.
func (c *Client) BuyDT(ctx context.Context, exchangeID [32]byte, datatokenAmount, maxBaseTokenAmount units.HumanAmount, market ConsumeMarket) (*types.Receipt, error) {
	return c.trade(ctx, "buyDT", exchangeID, datatokenAmount, maxBaseTokenAmount, market)
}

// SellDT sells datatokenAmount, receiving at least minBaseTokenAmount.
func (c *Client) SellDT(ctx context.Context, exchangeID [32]byte, datatokenAmount, minBaseTokenAmount units.HumanAmount, market ConsumeMarket) (*types.Receipt, error) {
	return c.trade(ctx, "sellDT", exchangeID, datatokenAmount, minBaseTokenAmount, market)
}

func (c *Client) trade(ctx context.Context, method string, exchangeID [32]byte, datatokenAmount, baseTokenBound units.HumanAmount, market ConsumeMarket) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, exchange.Datatoken, datatokenAmount)
	if err != nil {
		return nil, err
	}
	bound, err := c.converter.ToBaseUnits(ctx, exchange.BaseToken, baseTokenBound)
	if err != nil {
		return nil, err
	}
	fee, err := c.converter.ToBaseUnits(ctx, exchange.BaseToken, market.Fee)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, method, exchangeID, amount.Int(), bound.Int(), market.Address, fee.Int())
}

// SetRate sets base token units per datatoken.
func (c *Client) SetRate(ctx context.Context, exchangeID [32]byte, newRate units.HumanAmount) (*types.Receipt, error) {
	rate, err := units.ToWei(newRate)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "setRate", exchangeID, rate.Int())
}

// SetAllowedSwapper restricts trading to swapper; the zero address lifts it.
func (c *Client) SetAllowedSwapper(ctx context.Context, exchangeID [32]byte, swapper common.Address) (*types.Receipt, error) {
	return c.submit(ctx, "setAllowedSwapper", exchangeID, swapper)
}

// Activate enables trading. An already active exchange returns (nil, nil)
// without submitting.
func (c *Client) Activate(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	return c.toggleState(ctx, exchangeID, true)
}

// Deactivate disables trading. An already inactive exchange returns (nil, nil).
func (c *Client) Deactivate(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	return c.toggleState(ctx, exchangeID, false)
}

func (c *Client) toggleState(ctx context.Context, exchangeID [32]byte, want bool) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.Active == want {
		c.logger.Info("exchange state unchanged",
			zap.String("exchange_id", common.Hash(exchangeID).Hex()),
			zap.Bool("active", want),
		)
		return nil, nil
	}
	return c.submit(ctx, "toggleExchangeState", exchangeID)
}

// ActivateMint lets the exchange mint datatokens on buy. Returns (nil, nil)
// when minting is already on.
func (c *Client) ActivateMint(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	return c.toggleMint(ctx, exchangeID, true)
}

// DeactivateMint stops minting on buy. Returns (nil, nil) when already off.
func (c *Client) DeactivateMint(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	return c.toggleMint(ctx, exchangeID, false)
}

func (c *Client) toggleMint(ctx context.Context, exchangeID [32]byte, want bool) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.WithMint == want {
		c.logger.Info("exchange mint state unchanged",
			zap.String("exchange_id", common.Hash(exchangeID).Hex()),
			zap.Bool("with_mint", want),
		)
		return nil, nil
	}
	return c.submit(ctx, "toggleMintState", exchangeID, want)
}

// UpdateMarketFee sets the publish market fee fraction.
func (c *Client) UpdateMarketFee(ctx context.Context, exchangeID [32]byte, newFee units.HumanAmount) (*types.Receipt, error) {
	fee, err := units.ToWei(newFee)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "updateMarketFee", exchangeID, fee.Int())
}

func (c *Client) UpdateMarketFeeCollector(ctx context.Context, exchangeID [32]byte, collector common.Address) (*types.Receipt, error) {
	return c.submit(ctx, "updateMarketFeeCollector", exchangeID, collector)
}

// CollectBT withdraws amount of base token to the owner. Owner only.
func (c *Client) CollectBT(ctx context.Context, exchangeID [32]byte, amount units.HumanAmount) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if err := c.requireCaller(exchangeID, "collectBT", exchange.Owner); err != nil {
		return nil, err
	}
	value, err := c.converter.ToBaseUnits(ctx, exchange.BaseToken, amount)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "collectBT", exchangeID, value.Int())
}

// CollectDT withdraws amount of datatoken to the owner. Owner only.
func (c *Client) CollectDT(ctx context.Context, exchangeID [32]byte, amount units.HumanAmount) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if err := c.requireCaller(exchangeID, "collectDT", exchange.Owner); err != nil {
		return nil, err
	}
	value, err := c.converter.ToBaseUnits(ctx, exchange.Datatoken, amount)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "collectDT", exchangeID, value.Int())
}

// CollectMarketFee sends accrued market fees to the collector. The owner or
// the collector may call it.
func (c *Client) CollectMarketFee(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	fees, err := c.GetFeesInfo(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if err := c.requireCaller(exchangeID, "collectMarketFee", exchange.Owner, fees.MarketFeeCollector); err != nil {
		return nil, err
	}
	return c.submit(ctx, "collectMarketFee", exchangeID)
}

// CollectOceanFee sends accrued community fees to the OPC collector. Anyone may call it.
func (c *Client) CollectOceanFee(ctx context.Context, exchangeID [32]byte) (*types.Receipt, error) {
	if _, err := c.requireExchange(ctx, exchangeID); err != nil {
		return nil, err
	}
	return c.submit(ctx, "collectOceanFee", exchangeID)
}

func (c *Client) requireCaller(exchangeID [32]byte, method string, allowed ...common.Address) error {
	caller := c.submitter.From()
	for _, address := range allowed {
		if caller == address {
			return nil
		}
	}
	c.logger.Warn("exchange action rejected",
		zap.String("method", method),
		zap.String("exchange_id", common.Hash(exchangeID).Hex()),
		zap.String("caller", caller.Hex()),
	)
	return fmt.Errorf("%w: %s", ErrNotAuthorized, caller.Hex())
}
