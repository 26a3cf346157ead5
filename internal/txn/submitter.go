package txn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/gas"
)

var (
	ErrNoSigner   = errors.New("no signer configured")
	ErrSubmission = errors.New("transaction submission failed")
	ErrReverted   = errors.New("transaction reverted")
)

const defaultReceiptTimeout = 5 * time.Minute

// Call describes one state-changing contract method invocation.
type Call struct {
	Contract string
	To       common.Address
	ABI      abi.ABI
	Method   string
	Args     []interface{}
}

// Submitter packs, prices, signs and sends contract calls, then waits for
// the receipt.
type Submitter struct {
	backend        chain.Backend
	estimator      *gas.Estimator
	signer         Signer
	logger         *zap.Logger
	receiptTimeout time.Duration
}

func NewSubmitter(backend chain.Backend, estimator *gas.Estimator, signer Signer, receiptTimeout time.Duration, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if estimator == nil {
		estimator = gas.NewEstimator(backend, gas.Config{}, logger)
	}
	if receiptTimeout <= 0 {
		receiptTimeout = defaultReceiptTimeout
	}
	return &Submitter{
		backend:        backend,
		estimator:      estimator,
		signer:         signer,
		logger:         logger,
		receiptTimeout: receiptTimeout,
	}
}

// From returns the sending account, or the zero address without a signer.
func (s *Submitter) From() common.Address {
	if s == nil || s.signer == nil {
		return common.Address{}
	}
	return s.signer.Address()
}

// Estimator exposes the gas estimator used for submissions.
func (s *Submitter) Estimator() *gas.Estimator {
	return s.estimator
}

// EstimateGas returns the gas limit Submit would use for call, without the
// submission margin.
func (s *Submitter) EstimateGas(ctx context.Context, call Call) (uint64, error) {
	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return 0, fmt.Errorf("pack %s: %w", call.Method, err)
	}
	return s.estimator.Estimate(ctx, s.From(), call.To, data, nil), nil
}

// Submit sends call and waits for its receipt. A reverted transaction returns
// the receipt together with ErrReverted.
func (s *Submitter) Submit(ctx context.Context, call Call) (*types.Receipt, error) {
	if s.signer == nil {
		s.logFailure(call, ErrNoSigner)
		return nil, ErrNoSigner
	}
	from := s.signer.Address()

	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: pack %s: %v", ErrSubmission, call.Method, err)
	}

	// some networks reject a limit that exactly meets the estimate
	gasLimit := s.estimator.Estimate(ctx, from, call.To, data, nil) + 1

	gasPrice, err := s.estimator.FairGasPrice(ctx)
	if err != nil {
		s.logFailure(call, err)
		return nil, err
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: chain id: %v", ErrSubmission, err)
	}
	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: nonce: %v", ErrSubmission, err)
	}

	to := call.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Data:     data,
	})
	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: sign: %v", ErrSubmission, err)
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: send: %v", ErrSubmission, err)
	}

	s.logger.Debug("transaction sent",
		zap.String("method", call.Method),
		zap.String("contract", call.To.Hex()),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("gas_limit", gasLimit),
		zap.String("gas_price", gasPrice.String()),
	)

	waitCtx, cancel := context.WithTimeout(ctx, s.receiptTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, s.backend, signed)
	if err != nil {
		s.logFailure(call, err)
		return nil, fmt.Errorf("%w: wait receipt %s: %v", ErrSubmission, signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		err := fmt.Errorf("%w: %s", ErrReverted, signed.Hash().Hex())
		s.logFailure(call, err)
		return receipt, err
	}
	return receipt, nil
}

func (s *Submitter) logFailure(call Call, err error) {
	fields := []zap.Field{
		zap.String("method", call.Method),
		zap.String("contract_kind", call.Contract),
		zap.String("contract", call.To.Hex()),
		zap.String("caller", s.From().Hex()),
		zap.Error(err),
	}
	fields = append(fields, argFields(call)...)
	s.logger.Error("contract call failed", fields...)
}

func argFields(call Call) []zap.Field {
	method, ok := call.ABI.Methods[call.Method]
	if !ok {
		return []zap.Field{zap.Any("args", call.Args)}
	}
	fields := make([]zap.Field, 0, len(call.Args))
	for i, arg := range call.Args {
		name := fmt.Sprintf("arg%d", i)
		if i < len(method.Inputs) && method.Inputs[i].Name != "" {
			name = method.Inputs[i].Name
		}
		value := fmt.Sprint(arg)
		if id, ok := arg.([32]byte); ok {
			value = common.Hash(id).Hex()
		}
		fields = append(fields, zap.String("arg."+name, value))
	}
	return fields
}
