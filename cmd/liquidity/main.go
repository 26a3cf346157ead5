package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "liquidity",
		Short:        "Datatoken pool, fixed-rate exchange and staking client",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", "", "EVM RPC URL")
	flags.String("private-key", "", "hex private key used to sign transactions")
	flags.Uint64("gas-limit", 1_000_000, "gas limit used when estimation fails")
	flags.Float64("gas-fee-multiplier", 1, "multiplier applied to the suggested gas price")
	flags.Duration("receipt-timeout", 5*time.Minute, "how long to wait for a receipt")
	flags.StringSlice("abi-override", nil, "ABI overrides as kind=path (erc20, pool, fixedrate, sidestaking)")
	flags.String("decimals-cache", "", "bbolt file caching token decimals and exchange ids")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newTokenCommand(),
		newPoolCommand(),
		newExchangeCommand(),
		newStakingCommand(),
		newEventsCommand(),
		newSnapshotCommand(),
	)
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
