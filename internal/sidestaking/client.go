package sidestaking

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

// VestingInfo aggregates the vesting schedule of one datatoken.
type VestingInfo struct {
	Datatoken     common.Address    `json:"datatoken"`
	Publisher     common.Address    `json:"publisher"`
	Pool          common.Address    `json:"pool"`
	BaseToken     common.Address    `json:"base_token"`
	VestingAmount units.HumanAmount `json:"vesting_amount"`
	VestedSoFar   units.HumanAmount `json:"vested_so_far"`
	Available     units.HumanAmount `json:"available"`
	LastBlock     uint64            `json:"last_block"`
	EndBlock      uint64            `json:"end_block"`
	DatatokenHeld units.HumanAmount `json:"datatoken_held"`
	BaseTokenHeld units.HumanAmount `json:"base_token_held"`
}

// Remaining is the part of the schedule not yet released.
func (v VestingInfo) Remaining() units.HumanAmount {
	return v.VestingAmount.Sub(v.VestedSoFar)
}

// Client wraps one side-staking contract. Every read is keyed by datatoken.
type Client struct {
	address   common.Address
	backend   chain.Backend
	abi       abi.ABI
	converter *units.Converter
	submitter *txn.Submitter
	logger    *zap.Logger
}

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
	parsed, err := registry.ABI(contracts.KindSideStaking, contracts.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Client{
		address:   address,
		backend:   backend,
		abi:       parsed,
		converter: converter,
		submitter: submitter,
		logger:    logger.With(zap.String("staking", address.Hex())),
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) callBigInt(ctx context.Context, method string, datatoken common.Address) (*big.Int, error) {
	v, err := contracts.CallBigInt(ctx, c.backend, c.address, c.abi, method, datatoken)
	if err != nil {
		c.logger.Debug("staking call failed", zap.String("method", method), zap.String("datatoken", datatoken.Hex()), zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (c *Client) callAddress(ctx context.Context, method string, datatoken common.Address) (common.Address, error) {
	v, err := contracts.CallAddress(ctx, c.backend, c.address, c.abi, method, datatoken)
	if err != nil {
		c.logger.Debug("staking call failed", zap.String("method", method), zap.String("datatoken", datatoken.Hex()), zap.Error(err))
		return common.Address{}, err
	}
	return v, nil
}

func (c *Client) datatokenAmount(ctx context.Context, method string, datatoken common.Address) (units.HumanAmount, error) {
	raw, err := c.callBigInt(ctx, method, datatoken)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.converter.ToHumanUnits(ctx, datatoken, units.NewBaseAmount(raw)), nil
}

func (c *Client) blockNumber(ctx context.Context, method string, datatoken common.Address) (uint64, error) {
	raw, err := c.callBigInt(ctx, method, datatoken)
	if err != nil {
		return 0, err
	}
	if !raw.IsUint64() {
		return 0, fmt.Errorf("%s: block %s out of range", method, raw)
	}
	return raw.Uint64(), nil
}

// GetDatatokenCirculatingSupply counts every datatoken outside the staking
// contract, including those sitting in the pool.
func (c *Client) GetDatatokenCirculatingSupply(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getDatatokenCirculatingSupply", datatoken)
}

// GetDatatokenCurrentCirculatingSupply counts datatokens held by users,
// excluding the pool.
func (c *Client) GetDatatokenCurrentCirculatingSupply(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getDatatokenCurrentCirculatingSupply", datatoken)
}

func (c *Client) GetPublisherAddress(ctx context.Context, datatoken common.Address) (common.Address, error) {
	return c.callAddress(ctx, "getPublisherAddress", datatoken)
}

func (c *Client) GetBaseToken(ctx context.Context, datatoken common.Address) (common.Address, error) {
	return c.callAddress(ctx, "getBaseTokenAddress", datatoken)
}

func (c *Client) GetPoolAddress(ctx context.Context, datatoken common.Address) (common.Address, error) {
	return c.callAddress(ctx, "getPoolAddress", datatoken)
}

// GetBaseTokenBalance returns the base token the contract holds for datatoken,
// in base token units.
func (c *Client) GetBaseTokenBalance(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	baseToken, err := c.GetBaseToken(ctx, datatoken)
	if err != nil {
		return units.HumanAmount{}, err
	}
	raw, err := c.callBigInt(ctx, "getBaseTokenBalance", datatoken)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.converter.ToHumanUnits(ctx, baseToken, units.NewBaseAmount(raw)), nil
}

func (c *Client) GetDatatokenBalance(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getDatatokenBalance", datatoken)
}

func (c *Client) GetVestingEndBlock(ctx context.Context, datatoken common.Address) (uint64, error) {
	return c.blockNumber(ctx, "getvestingEndBlock", datatoken)
}

// GetVestingAmount returns the total amount scheduled to vest.
func (c *Client) GetVestingAmount(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getvestingAmount", datatoken)
}

func (c *Client) GetVestingLastBlock(ctx context.Context, datatoken common.Address) (uint64, error) {
	return c.blockNumber(ctx, "getvestingLastBlock", datatoken)
}

func (c *Client) GetVestingAmountSoFar(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getvestingAmountSoFar", datatoken)
}

// GetAvailableVesting returns the amount GetVesting would release now.
func (c *Client) GetAvailableVesting(ctx context.Context, datatoken common.Address) (units.HumanAmount, error) {
	return c.datatokenAmount(ctx, "getAvailableVesting", datatoken)
}

// GetVestingInfo reads the whole schedule for datatoken.
func (c *Client) GetVestingInfo(ctx context.Context, datatoken common.Address) (VestingInfo, error) {
	info := VestingInfo{Datatoken: datatoken}
	var err error
	if info.Publisher, err = c.GetPublisherAddress(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.Pool, err = c.GetPoolAddress(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.BaseToken, err = c.GetBaseToken(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.VestingAmount, err = c.GetVestingAmount(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.VestedSoFar, err = c.GetVestingAmountSoFar(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.Available, err = c.GetAvailableVesting(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.LastBlock, err = c.GetVestingLastBlock(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.EndBlock, err = c.GetVestingEndBlock(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	if info.DatatokenHeld, err = c.GetDatatokenBalance(ctx, datatoken); err != nil {
		return VestingInfo{}, err
	}
	raw, err := c.callBigInt(ctx, "getBaseTokenBalance", datatoken)
	if err != nil {
		return VestingInfo{}, err
	}
	info.BaseTokenHeld = c.converter.ToHumanUnits(ctx, info.BaseToken, units.NewBaseAmount(raw))

	if info.VestedSoFar.Cmp(info.VestingAmount) > 0 {
		c.logger.Warn("vested amount exceeds schedule",
			zap.String("datatoken", datatoken.Hex()),
			zap.String("vesting_amount", info.VestingAmount.String()),
			zap.String("vested_so_far", info.VestedSoFar.String()),
		)
	}
	return info, nil
}

// GetVesting releases the vested datatokens to the publisher. It always
// submits, even when nothing is available.
func (c *Client) GetVesting(ctx context.Context, datatoken common.Address) (*types.Receipt, error) {
	if c.submitter == nil {
		c.logger.Error("staking submission without signer", zap.String("method", "getVesting"))
		return nil, txn.ErrNoSigner
	}
	return c.submitter.Submit(ctx, txn.Call{
		Contract: string(contracts.KindSideStaking),
		To:       c.address,
		ABI:      c.abi,
		Method:   "getVesting",
		Args:     []interface{}{datatoken},
	})
}
