// Package chaintest provides an in-memory chain.Backend that answers contract
// calls from per-method handlers and records submitted transactions.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"liquidityLayer/internal/chain"
)

// KeyHex is a throwaway private key for signing test transactions.
const KeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// ErrNoHandler is returned for calls to methods without a handler.
var ErrNoHandler = errors.New("execution reverted")

// Handler answers one contract method. args are the decoded inputs; the
// returned values are packed with the method outputs.
type Handler func(args []interface{}) ([]interface{}, error)

// SendHook runs for each submitted transaction and returns the receipt logs.
type SendHook func(method string, args []interface{}) ([]*types.Log, uint64)

// Sent is a submitted transaction decoded against the target contract ABI.
type Sent struct {
	Tx     *types.Transaction
	To     common.Address
	Method string
	Args   []interface{}
}

type contract struct {
	abi      abi.ABI
	handlers map[string]Handler
}

// Backend implements chain.Backend in memory.
type Backend struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	Head         uint64
	GasPrice     *big.Int
	GasPriceErr  error
	GasEstimate  uint64
	EstimateErr  error
	SendErr      error
	OnSend       SendHook
	Logs         []types.Log

	contracts map[common.Address]*contract
	calls     map[string]int
	estimates []ethereum.CallMsg
	sent      []Sent
	receipts  map[common.Hash]*types.Receipt
	nonces    map[common.Address]uint64
}

var _ chain.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		ChainIDValue: big.NewInt(1337),
		Head:         100,
		GasPrice:     big.NewInt(1_000_000_000),
		GasEstimate:  50_000,
		contracts:    make(map[common.Address]*contract),
		calls:        make(map[string]int),
		receipts:     make(map[common.Hash]*types.Receipt),
		nonces:       make(map[common.Address]uint64),
	}
}

// Handle registers handler for method on the contract at address.
func (b *Backend) Handle(address common.Address, parsed abi.ABI, method string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[address]
	if !ok {
		c = &contract{abi: parsed, handlers: make(map[string]Handler)}
		b.contracts[address] = c
	}
	c.handlers[method] = handler
}

// Return registers a handler that always returns outputs.
func (b *Backend) Return(address common.Address, parsed abi.ABI, method string, outputs ...interface{}) {
	b.Handle(address, parsed, method, func([]interface{}) ([]interface{}, error) {
		return outputs, nil
	})
}

// Fail registers a handler that always fails.
func (b *Backend) Fail(address common.Address, parsed abi.ABI, method string) {
	b.Handle(address, parsed, method, func([]interface{}) ([]interface{}, error) {
		return nil, ErrNoHandler
	})
}

// Calls reports how many times method was called as a view.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// Sent returns the submitted transactions in order.
func (b *Backend) Sent() []Sent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Sent, len(b.sent))
	copy(out, b.sent)
	return out
}

// Estimates returns every message passed to EstimateGas.
func (b *Backend) Estimates() []ethereum.CallMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ethereum.CallMsg, len(b.estimates))
	copy(out, b.estimates)
	return out
}

func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.ChainIDValue), nil
}

func (b *Backend) BlockNumber(ctx context.Context) (uint64, error) {
	return b.Head, nil
}

func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, fmt.Errorf("call without target")
	}
	b.mu.Lock()
	c, ok := b.contracts[*msg.To]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no contract at %s", ErrNoHandler, msg.To.Hex())
	}
	method, args, err := decodeCall(c.abi, msg.Data)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.calls[method.Name]++
	handler, ok := c.handlers[method.Name]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, method.Name)
	}
	outputs, err := handler(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(outputs...)
}

// CodeAt reports code at every address so deploy checks pass.
func (b *Backend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	b.estimates = append(b.estimates, msg)
	b.mu.Unlock()
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}
	return b.GasEstimate, nil
}

func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if b.GasPriceErr != nil {
		return nil, b.GasPriceErr
	}
	return new(big.Int).Set(b.GasPrice), nil
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	if tx.To() == nil {
		return fmt.Errorf("contract creation is not supported")
	}
	from, err := types.Sender(types.LatestSignerForChainID(b.ChainIDValue), tx)
	if err != nil {
		return fmt.Errorf("recover sender: %w", err)
	}

	b.mu.Lock()
	c, ok := b.contracts[*tx.To()]
	b.mu.Unlock()

	record := Sent{Tx: tx, To: *tx.To()}
	if ok {
		method, args, err := decodeCall(c.abi, tx.Data())
		if err != nil {
			return err
		}
		record.Method = method.Name
		record.Args = args
	}

	status := types.ReceiptStatusSuccessful
	var logs []*types.Log
	if b.OnSend != nil {
		logs, status = b.OnSend(record.Method, record.Args)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nonces[from]++
	b.Head++
	for i, lg := range logs {
		lg.TxHash = tx.Hash()
		lg.BlockNumber = b.Head
		lg.Index = uint(i)
	}
	b.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: new(big.Int).SetUint64(b.Head),
		Logs:        logs,
	}
	b.sent = append(b.sent, record)
	return nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// FilterLogs returns the configured Logs that match the query range,
// addresses and topic0 set.
func (b *Backend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []types.Log
	for _, lg := range b.Logs {
		if query.FromBlock != nil && lg.BlockNumber < query.FromBlock.Uint64() {
			continue
		}
		if query.ToBlock != nil && lg.BlockNumber > query.ToBlock.Uint64() {
			continue
		}
		if len(query.Addresses) > 0 && !containsAddress(query.Addresses, lg.Address) {
			continue
		}
		if len(query.Topics) > 0 && len(query.Topics[0]) > 0 {
			if len(lg.Topics) == 0 || !containsHash(query.Topics[0], lg.Topics[0]) {
				continue
			}
		}
		out = append(out, lg)
	}
	return out, nil
}

func decodeCall(parsed abi.ABI, data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("calldata too short")
	}
	method, err := parsed.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("unpack %s inputs: %w", method.Name, err)
	}
	return method, args, nil
}

func containsAddress(list []common.Address, target common.Address) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func containsHash(list []common.Hash, target common.Hash) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
