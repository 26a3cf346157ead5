package units

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/contracts"
)

// DefaultDecimals is used when a token's decimals cannot be read.
const DefaultDecimals uint8 = 18

// DecimalsStore caches token decimals between calls.
type DecimalsStore interface {
	GetDecimals(token common.Address) (uint8, bool)
	SetDecimals(token common.Address, decimals uint8) error
}

// Converter moves amounts across the base-unit boundary using each token's
// own decimals.
type Converter struct {
	backend  chain.Backend
	erc20ABI abi.ABI
	store    DecimalsStore
	logger   *zap.Logger
}

// NewConverter builds a converter. store may be nil, in which case decimals
// are read on every call.
func NewConverter(backend chain.Backend, registry *contracts.Registry, store DecimalsStore, logger *zap.Logger) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		return nil, fmt.Errorf("contract registry is nil")
	}
	erc20ABI, err := registry.ABI(contracts.KindERC20, contracts.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Converter{
		backend:  backend,
		erc20ABI: erc20ABI,
		store:    store,
		logger:   logger,
	}, nil
}

// Decimals returns the token's decimals, falling back to 18 when the read
// fails or reports zero. The fallback is logged, never returned as an error.
func (c *Converter) Decimals(ctx context.Context, token common.Address) uint8 {
	if c.store != nil {
		if decimals, ok := c.store.GetDecimals(token); ok {
			return decimals
		}
	}

	values, err := contracts.Call(ctx, c.backend, token, c.erc20ABI, "decimals")
	if err != nil {
		c.logger.Warn("decimals read failed, using default",
			zap.String("token", token.Hex()),
			zap.Uint8("default", DefaultDecimals),
			zap.Error(err),
		)
		return DefaultDecimals
	}
	decimals, err := contracts.AsUint8(values[0])
	if err != nil {
		c.logger.Warn("decimals decode failed, using default",
			zap.String("token", token.Hex()),
			zap.Uint8("default", DefaultDecimals),
			zap.Error(err),
		)
		return DefaultDecimals
	}
	if decimals == 0 {
		c.logger.Warn("token reports zero decimals, using default",
			zap.String("token", token.Hex()),
			zap.Uint8("default", DefaultDecimals),
		)
		return DefaultDecimals
	}

	if c.store != nil {
		if err := c.store.SetDecimals(token, decimals); err != nil {
			c.logger.Debug("decimals cache write failed", zap.String("token", token.Hex()), zap.Error(err))
		}
	}
	return decimals
}

// ToBaseUnits converts a human amount of token into base units.
func (c *Converter) ToBaseUnits(ctx context.Context, token common.Address, amount HumanAmount) (BaseAmount, error) {
	out, err := ToBase(amount, c.Decimals(ctx, token))
	if err != nil {
		return BaseAmount{}, fmt.Errorf("convert %s for %s: %w", amount, token.Hex(), err)
	}
	return out, nil
}

// ToHumanUnits converts base units of token into a human amount.
func (c *Converter) ToHumanUnits(ctx context.Context, token common.Address, amount BaseAmount) HumanAmount {
	return ToHuman(amount, c.Decimals(ctx, token))
}
