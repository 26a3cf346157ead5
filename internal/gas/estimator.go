package gas

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
)

// DefaultGasLimit is submitted when the node cannot estimate a call.
const DefaultGasLimit uint64 = 1_000_000

// ErrGasPrice marks a failed fair gas price lookup.
var ErrGasPrice = errors.New("fetch gas price")

// Config controls estimator behavior.
type Config struct {
	DefaultLimit uint64
	// FeeMultiplier scales the node's gas price suggestion; zero means 1.
	FeeMultiplier float64
}

// Estimator estimates gas for contract calls and fetches a fair gas price.
type Estimator struct {
	backend chain.Backend
	cfg     Config
	logger  *zap.Logger
}

func NewEstimator(backend chain.Backend, cfg Config, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = DefaultGasLimit
	}
	return &Estimator{backend: backend, cfg: cfg, logger: logger}
}

// DefaultLimit returns the fallback limit.
func (e *Estimator) DefaultLimit() uint64 {
	return e.cfg.DefaultLimit
}

// Estimate simulates the exact call that will be submitted. Failures are
// logged and replaced by the default limit; they are never returned.
func (e *Estimator) Estimate(ctx context.Context, from common.Address, to common.Address, data []byte, value *big.Int) uint64 {
	if e.backend == nil {
		e.logger.Warn("gas estimate skipped, no backend", zap.Uint64("default", e.cfg.DefaultLimit))
		return e.cfg.DefaultLimit
	}
	msg := ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	}
	limit, err := e.backend.EstimateGas(ctx, msg)
	if err != nil {
		e.logger.Warn("gas estimate failed, using default",
			zap.String("from", from.Hex()),
			zap.String("to", to.Hex()),
			zap.Uint64("default", e.cfg.DefaultLimit),
			zap.Error(err),
		)
		return e.cfg.DefaultLimit
	}
	if limit == 0 {
		return e.cfg.DefaultLimit
	}
	return limit
}

// FairGasPrice returns the node's gas price scaled by the fee multiplier.
func (e *Estimator) FairGasPrice(ctx context.Context) (*big.Int, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: chain backend is nil", ErrGasPrice)
	}
	price, err := e.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGasPrice, err)
	}
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: node returned empty price", ErrGasPrice)
	}
	if e.cfg.FeeMultiplier <= 0 || e.cfg.FeeMultiplier == 1 {
		return new(big.Int).Set(price), nil
	}
	scaled := decimal.NewFromBigInt(price, 0).Mul(decimal.NewFromFloat(e.cfg.FeeMultiplier)).Truncate(0)
	return scaled.BigInt(), nil
}
