package fixedrate

import (
	"context"
	"errors"
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

var (
	ErrExchangeNotFound = errors.New("exchange not found")
	ErrNotAuthorized    = errors.New("caller may not manage exchange")
)

// IDStore caches exchange ids resolved from the chain.
type IDStore interface {
	GetExchangeID(exchange, baseToken, datatoken, owner common.Address) ([32]byte, bool)
	SetExchangeID(exchange, baseToken, datatoken, owner common.Address, id [32]byte) error
}

// Client wraps one fixed-rate exchange contract, which hosts many exchanges
// addressed by id.
type Client struct {
	address   common.Address
	backend   chain.Backend
	abi       abi.ABI
	converter *units.Converter
	submitter *txn.Submitter
	ids       IDStore
	logger    *zap.Logger
}

// NewClient builds an exchange client. submitter and ids may be nil.
func NewClient(address common.Address, backend chain.Backend, registry *contracts.Registry, converter *units.Converter, submitter *txn.Submitter, ids IDStore, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		return nil, fmt.Errorf("contract registry is nil")
	}
	if converter == nil {
		return nil, fmt.Errorf("unit converter is nil")
	}
	parsed, err := registry.ABI(contracts.KindFixedRate, contracts.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Client{
		address:   address,
		backend:   backend,
		abi:       parsed,
		converter: converter,
		submitter: submitter,
		ids:       ids,
		logger:    logger.With(zap.String("exchange_contract", address.Hex())),
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	values, err := contracts.Call(ctx, c.backend, c.address, c.abi, method, args...)
	if err != nil {
		c.logger.Debug("exchange call failed", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func (c *Client) callBigInt(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return contracts.AsBigInt(values[0])
}

func (c *Client) callAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	values, err := c.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return contracts.AsAddress(values[0])
}

func (c *Client) submit(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	if c.submitter == nil {
		c.logger.Error("exchange submission without signer", zap.String("method", method))
		return nil, txn.ErrNoSigner
	}
	return c.submitter.Submit(ctx, txn.Call{
		Contract: string(contracts.KindFixedRate),
		To:       c.address,
		ABI:      c.abi,
		Method:   method,
		Args:     args,
	})
}

// GenerateExchangeID asks the contract for the id of the (baseToken,
// datatoken, owner) exchange. The id is never computed locally.
func (c *Client) GenerateExchangeID(ctx context.Context, baseToken, datatoken, owner common.Address) ([32]byte, error) {
	if c.ids != nil {
		if id, ok := c.ids.GetExchangeID(c.address, baseToken, datatoken, owner); ok {
			return id, nil
		}
	}
	values, err := c.call(ctx, "generateExchangeId", baseToken, datatoken, owner)
	if err != nil {
		return [32]byte{}, err
	}
	id, err := contracts.AsBytes32(values[0])
	if err != nil {
		return [32]byte{}, err
	}
	if c.ids != nil {
		if err := c.ids.SetExchangeID(c.address, baseToken, datatoken, owner, id); err != nil {
			c.logger.Debug("exchange id cache write failed", zap.Error(err))
		}
	}
	return id, nil
}

func (c *Client) GetNumberOfExchanges(ctx context.Context) (uint64, error) {
	n, err := c.callBigInt(ctx, "getNumberOfExchanges")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (c *Client) GetExchanges(ctx context.Context) ([][32]byte, error) {
	values, err := c.call(ctx, "getExchanges")
	if err != nil {
		return nil, err
	}
	return contracts.AsBytes32s(values[0])
}

func (c *Client) GetOPCCollector(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "getOPCCollector")
}

func (c *Client) GetRouter(ctx context.Context) (common.Address, error) {
	return c.callAddress(ctx, "router")
}

// GetRate returns base token units per datatoken.
func (c *Client) GetRate(ctx context.Context, exchangeID [32]byte) (units.HumanAmount, error) {
	raw, err := c.callBigInt(ctx, "getRate", exchangeID)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return units.FromWeiInt(raw), nil
}

// GetDTSupply returns the datatokens available to buy.
func (c *Client) GetDTSupply(ctx context.Context, exchangeID [32]byte) (units.HumanAmount, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return units.HumanAmount{}, err
	}
	raw, err := c.callBigInt(ctx, "getDTSupply", exchangeID)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return units.ToHuman(units.NewBaseAmount(raw), exchange.DTDecimals), nil
}

// GetBTSupply returns the base tokens available to pay sellers.
func (c *Client) GetBTSupply(ctx context.Context, exchangeID [32]byte) (units.HumanAmount, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return units.HumanAmount{}, err
	}
	raw, err := c.callBigInt(ctx, "getBTSupply", exchangeID)
	if err != nil {
		return units.HumanAmount{}, err
	}
	return units.ToHuman(units.NewBaseAmount(raw), exchange.BTDecimals), nil
}

func (c *Client) GetAllowedSwapper(ctx context.Context, exchangeID [32]byte) (common.Address, error) {
	return c.callAddress(ctx, "getAllowedSwapper", exchangeID)
}

func (c *Client) IsActive(ctx context.Context, exchangeID [32]byte) (bool, error) {
	values, err := c.call(ctx, "isActive", exchangeID)
	if err != nil {
		return false, err
	}
	return contracts.AsBool(values[0])
}

func (c *Client) GetExchangeOwner(ctx context.Context, exchangeID [32]byte) (common.Address, error) {
	exchange, err := c.requireExchange(ctx, exchangeID)
	if err != nil {
		return common.Address{}, err
	}
	return exchange.Owner, nil
}
