package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/config"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/fixedrate"
	"liquidityLayer/internal/gas"
	"liquidityLayer/internal/storage/bolt"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

const memoryDecimalsCacheSize = 1024

// env carries the shared collaborators a command builds its clients from.
type env struct {
	cfg       config.Config
	logger    *zap.Logger
	chain     *chain.Client
	registry  *contracts.Registry
	converter *units.Converter
	submitter *txn.Submitter
	ids       fixedrate.IDStore
	cache     *bolt.Store
}

func newEnv(ctx context.Context, cfg config.Config, logger *zap.Logger) (*env, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	registry := contracts.NewRegistry()
	if err := registry.LoadOverrides(cfg.ABIOverrides); err != nil {
		return nil, err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	e := &env{cfg: cfg, logger: logger, chain: chainClient, registry: registry}

	var decimals units.DecimalsStore = units.NewMemoryStore(memoryDecimalsCacheSize)
	if cfg.DecimalsCache != "" {
		cache, err := bolt.Open(cfg.DecimalsCache)
		if err != nil {
			e.close()
			return nil, err
		}
		e.cache = cache
		e.ids = cache
		decimals = cache
	}

	e.converter, err = units.NewConverter(chainClient, registry, decimals, logger)
	if err != nil {
		e.close()
		return nil, err
	}

	if cfg.PrivateKey != "" {
		signer, err := txn.NewKeySigner(cfg.PrivateKey)
		if err != nil {
			e.close()
			return nil, err
		}
		estimator := gas.NewEstimator(chainClient, gas.Config{
			DefaultLimit:  cfg.GasLimit,
			FeeMultiplier: cfg.GasFeeMultiplier,
		}, logger)
		e.submitter = txn.NewSubmitter(chainClient, estimator, signer, cfg.ReceiptTimeout, logger)
	}
	return e, nil
}

func (e *env) close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Warn("close decimals cache", zap.Error(err))
		}
	}
	e.chain.Close()
}

// runWithEnv loads the shared config, builds the env and runs fn under a
// signal-aware context.
func runWithEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	return fn(ctx, e)
}

func addressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return common.Address{}, fmt.Errorf("--%s is required", name)
	}
	address, err := chain.ParseAddress(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return address, nil
}

// optionalAddressFlag returns the zero address when the flag is unset.
func optionalAddressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return common.Address{}, nil
	}
	address, err := chain.ParseAddress(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return address, nil
}

func amountFlag(cmd *cobra.Command, name string) (units.HumanAmount, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return units.HumanAmount{}, fmt.Errorf("--%s is required", name)
	}
	amount, err := units.ParseHuman(raw)
	if err != nil {
		return units.HumanAmount{}, fmt.Errorf("--%s: %w", name, err)
	}
	return amount, nil
}

// optionalAmountFlag returns zero when the flag is unset.
func optionalAmountFlag(cmd *cobra.Command, name string) (units.HumanAmount, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return units.HumanAmount{}, nil
	}
	amount, err := units.ParseHuman(raw)
	if err != nil {
		return units.HumanAmount{}, fmt.Errorf("--%s: %w", name, err)
	}
	return amount, nil
}

func exchangeIDFlag(cmd *cobra.Command) ([32]byte, error) {
	raw, _ := cmd.Flags().GetString("id")
	if raw == "" {
		return [32]byte{}, fmt.Errorf("--id is required")
	}
	id, err := chain.ParseBytes32(raw)
	if err != nil {
		return [32]byte{}, fmt.Errorf("--id: %w", err)
	}
	return id, nil
}

type receiptSummary struct {
	Status      string `json:"status"`
	TxHash      string `json:"tx_hash,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
}

// printReceipt reports a submission. A nil receipt means nothing was sent.
func printReceipt(w io.Writer, receipt *types.Receipt) error {
	if receipt == nil {
		return printJSON(w, receiptSummary{Status: "unchanged"})
	}
	status := "success"
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = "reverted"
	}
	summary := receiptSummary{
		Status:  status,
		TxHash:  receipt.TxHash.Hex(),
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		summary.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return printJSON(w, summary)
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
