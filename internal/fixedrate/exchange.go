package fixedrate

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/units"
)

// Exchange is one fixed-rate exchange with amounts in human units. Supplies
// and balances use the decimals the contract reports for each token.
type Exchange struct {
	ID         [32]byte          `json:"-"`
	Owner      common.Address    `json:"owner"`
	Datatoken  common.Address    `json:"datatoken"`
	DTDecimals uint8             `json:"dt_decimals"`
	BaseToken  common.Address    `json:"base_token"`
	BTDecimals uint8             `json:"bt_decimals"`
	FixedRate  units.HumanAmount `json:"fixed_rate"`
	Active     bool              `json:"active"`
	DTSupply   units.HumanAmount `json:"dt_supply"`
	BTSupply   units.HumanAmount `json:"bt_supply"`
	DTBalance  units.HumanAmount `json:"dt_balance"`
	BTBalance  units.HumanAmount `json:"bt_balance"`
	WithMint   bool              `json:"with_mint"`
}

// Exists reports whether the contract knows the exchange.
func (e Exchange) Exists() bool {
	return e.Owner != (common.Address{})
}

// FeesInfo holds fee settings and accrued fees. Fees are fractions; accrued
// amounts are in base token units.
type FeesInfo struct {
	MarketFee          units.HumanAmount `json:"market_fee"`
	MarketFeeCollector common.Address    `json:"market_fee_collector"`
	OPCFee             units.HumanAmount `json:"opc_fee"`
	MarketFeeAvailable units.HumanAmount `json:"market_fee_available"`
	OceanFeeAvailable  units.HumanAmount `json:"ocean_fee_available"`
}

// PriceAndFees is a buy or sell quote in base token units.
type PriceAndFees struct {
	BaseTokenAmount        units.HumanAmount `json:"base_token_amount"`
	OceanFeeAmount         units.HumanAmount `json:"ocean_fee_amount"`
	MarketFeeAmount        units.HumanAmount `json:"market_fee_amount"`
	ConsumeMarketFeeAmount units.HumanAmount `json:"consume_market_fee_amount"`
}

func decimalsOrDefault(raw *big.Int) uint8 {
	if raw == nil || raw.Sign() <= 0 || !raw.IsUint64() || raw.Uint64() > 255 {
		return units.DefaultDecimals
	}
	return uint8(raw.Uint64())
}

// GetExchange reads the exchange record. A missing exchange comes back with
// a zero Owner and Exists false.
func (c *Client) GetExchange(ctx context.Context, exchangeID [32]byte) (Exchange, error) {
	values, err := c.call(ctx, "getExchange", exchangeID)
	if err != nil {
		return Exchange{}, err
	}
	if len(values) < 12 {
		return Exchange{}, fmt.Errorf("getExchange returned %d values", len(values))
	}

	var (
		addrs [3]common.Address
		ints  [7]*big.Int
		flags [2]bool
	)
	for i, idx := range []int{0, 1, 3} {
		if addrs[i], err = contracts.AsAddress(values[idx]); err != nil {
			return Exchange{}, fmt.Errorf("getExchange output %d: %w", idx, err)
		}
	}
	for i, idx := range []int{2, 4, 5, 7, 8, 9, 10} {
		if ints[i], err = contracts.AsBigInt(values[idx]); err != nil {
			return Exchange{}, fmt.Errorf("getExchange output %d: %w", idx, err)
		}
	}
	for i, idx := range []int{6, 11} {
		if flags[i], err = contracts.AsBool(values[idx]); err != nil {
			return Exchange{}, fmt.Errorf("getExchange output %d: %w", idx, err)
		}
	}

	dtDecimals := decimalsOrDefault(ints[0])
	btDecimals := decimalsOrDefault(ints[1])
	if ints[0].Sign() == 0 || ints[1].Sign() == 0 {
		if addrs[0] != (common.Address{}) {
			c.logger.Warn("exchange reports zero decimals, using default",
				zap.String("exchange_id", common.Hash(exchangeID).Hex()),
				zap.Uint8("default", units.DefaultDecimals),
			)
		}
	}
	dtAmount := func(v *big.Int) units.HumanAmount { return units.ToHuman(units.NewBaseAmount(v), dtDecimals) }
	btAmount := func(v *big.Int) units.HumanAmount { return units.ToHuman(units.NewBaseAmount(v), btDecimals) }

	return Exchange{
		ID:         exchangeID,
		Owner:      addrs[0],
		Datatoken:  addrs[1],
		DTDecimals: dtDecimals,
		BaseToken:  addrs[2],
		BTDecimals: btDecimals,
		FixedRate:  units.FromWeiInt(ints[2]),
		Active:     flags[0],
		DTSupply:   dtAmount(ints[3]),
		BTSupply:   btAmount(ints[4]),
		DTBalance:  dtAmount(ints[5]),
		BTBalance:  btAmount(ints[6]),
		WithMint:   flags[1],
	}, nil
}

// requireExchange loads the exchange and fails with ErrExchangeNotFound when
// the contract does not know it.
func (c *Client) requireExchange(ctx context.Context, exchangeID [32]byte) (Exchange, error) {
	exchange, err := c.GetExchange(ctx, exchangeID)
	if err != nil {
		return Exchange{}, err
	}
	if !exchange.Exists() {
		c.logger.Warn("exchange not found", zap.String("exchange_id", common.Hash(exchangeID).Hex()))
		return Exchange{}, fmt.Errorf("%w: %s", ErrExchangeNotFound, common.Hash(exchangeID).Hex())
	}
	return exchange, nil
}

func (c *Client) GetFeesInfo(ctx context.Context, exchangeID [32]byte) (FeesInfo, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return FeesInfo{}, err
	}
	values, err := c.call(ctx, "getFeesInfo", exchangeID)
	if err != nil {
		return FeesInfo{}, err
	}
	if len(values) < 5 {
		return FeesInfo{}, fmt.Errorf("getFeesInfo returned %d values", len(values))
	}
	collector, err := contracts.AsAddress(values[1])
	if err != nil {
		return FeesInfo{}, err
	}
	var ints [4]*big.Int
	for i, idx := range []int{0, 2, 3, 4} {
		if ints[i], err = contracts.AsBigInt(values[idx]); err != nil {
			return FeesInfo{}, fmt.Errorf("getFeesInfo output %d: %w", idx, err)
		}
	}
	return FeesInfo{
		MarketFee:          units.FromWeiInt(ints[0]),
		MarketFeeCollector: collector,
		OPCFee:             units.FromWeiInt(ints[1]),
		MarketFeeAvailable: units.ToHuman(units.NewBaseAmount(ints[2]), exchange.BTDecimals),
		OceanFeeAvailable:  units.ToHuman(units.NewBaseAmount(ints[3]), exchange.BTDecimals),
	}, nil
}

// CalcBaseInGivenOutDT quotes the base tokens needed to buy datatokenAmount.
// consumeMarketFee is an absolute base token amount, not a fraction.
func (c *Client) CalcBaseInGivenOutDT(ctx context.Context, exchangeID [32]byte, datatokenAmount, consumeMarketFee units.HumanAmount) (PriceAndFees, error) {
	return c.quote(ctx, "calcBaseInGivenOutDT", exchangeID, datatokenAmount, consumeMarketFee)
}

// GetAmountBTOut quotes the base tokens received for selling datatokenAmount.
// consumeMarketFee is an absolute base token amount, not a fraction.
func (c *Client) GetAmountBTOut(ctx context.Context, exchangeID [32]byte, datatokenAmount, consumeMarketFee units.HumanAmount) (PriceAndFees, error) {
	return c.quote(ctx, "calcBaseOutGivenInDT", exchangeID, datatokenAmount, consumeMarketFee)
}

func (c *Client) quote(ctx context.Context, method string, exchangeID [32]byte, datatokenAmount, consumeMarketFee units.HumanAmount) (PriceAndFees, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return PriceAndFees{}, err
	}
	amount, err := c.converter.ToBaseUnits(ctx, exchange.Datatoken, datatokenAmount)
	if err != nil {
		return PriceAndFees{}, err
	}
	fee, err := c.converter.ToBaseUnits(ctx, exchange.BaseToken, consumeMarketFee)
	if err != nil {
		return PriceAndFees{}, err
	}
	values, err := c.call(ctx, method, exchangeID, amount.Int(), fee.Int())
	if err != nil {
		return PriceAndFees{}, err
	}
	if len(values) < 4 {
		return PriceAndFees{}, fmt.Errorf("%s returned %d values", method, len(values))
	}
	var out [4]units.HumanAmount
	for i := range out {
		v, err := contracts.AsBigInt(values[i])
		if err != nil {
			return PriceAndFees{}, fmt.Errorf("%s output %d: %w", method, i, err)
		}
		out[i] = c.converter.ToHumanUnits(ctx, exchange.BaseToken, units.NewBaseAmount(v))
	}
	return PriceAndFees{
		BaseTokenAmount:        out[0],
		OceanFeeAmount:         out[1],
		MarketFeeAmount:        out[2],
		ConsumeMarketFeeAmount: out[3],
	}, nil
}
