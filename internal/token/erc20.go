package token

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

// Metadata describes an ERC20 token. Decimals fall back like the converter's.
type Metadata struct {
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol,omitempty"`
	Name     string         `json:"name,omitempty"`
}

// Client reads and approves ERC20 balances in human units.
type Client struct {
	backend   chain.Backend
	abi       abi.ABI
	converter *units.Converter
	submitter *txn.Submitter
	logger    *zap.Logger
}

func NewClient(backend chain.Backend, registry *contracts.Registry, converter *units.Converter, submitter *txn.Submitter, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		return nil, fmt.Errorf("contract registry is nil")
	}
	parsed, err := registry.ABI(contracts.KindERC20, contracts.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Client{
		backend:   backend,
		abi:       parsed,
		converter: converter,
		submitter: submitter,
		logger:    logger,
	}, nil
}

// Meta loads decimals, symbol and name. Symbol and name are best effort.
func (c *Client) Meta(ctx context.Context, token common.Address) Metadata {
	meta := Metadata{
		Address:  token,
		Decimals: c.converter.Decimals(ctx, token),
	}
	if values, err := contracts.Call(ctx, c.backend, token, c.abi, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else {
		c.logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	if values, err := contracts.Call(ctx, c.backend, token, c.abi, "name"); err == nil {
		if name, ok := values[0].(string); ok {
			meta.Name = name
		}
	} else {
		c.logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	return meta
}

func (c *Client) BalanceOf(ctx context.Context, token, account common.Address) (units.HumanAmount, error) {
	raw, err := contracts.CallBigInt(ctx, c.backend, token, c.abi, "balanceOf", account)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.converter.ToHumanUnits(ctx, token, units.NewBaseAmount(raw)), nil
}

func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (units.HumanAmount, error) {
	raw, err := contracts.CallBigInt(ctx, c.backend, token, c.abi, "allowance", owner, spender)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return c.converter.ToHumanUnits(ctx, token, units.NewBaseAmount(raw)), nil
}

// Approve lets spender move amount of token on behalf of the signer.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount units.HumanAmount) (*types.Receipt, error) {
	if c.submitter == nil {
		return nil, txn.ErrNoSigner
	}
	value, err := c.converter.ToBaseUnits(ctx, token, amount)
	if err != nil {
		return nil, err
	}
	return c.submitter.Submit(ctx, txn.Call{
		Contract: string(contracts.KindERC20),
		To:       token,
		ABI:      c.abi,
		Method:   "approve",
		Args:     []interface{}{spender, value.Int()},
	})
}
