package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/config"
	"liquidityLayer/internal/snapshot"
	"liquidityLayer/internal/storage/postgres"
)

func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Read pool, exchange and vesting state into Postgres",
		RunE:  runSnapshot,
	}

	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().StringSlice("pool", nil, "pool addresses (comma-separated)")
	cmd.Flags().StringSlice("exchange", nil, "fixed-rate exchange contracts (comma-separated)")
	cmd.Flags().String("staking", "", "side-staking contract")
	cmd.Flags().StringSlice("datatoken", nil, "datatokens vesting on the staking contract (comma-separated)")
	cmd.Flags().Int("batch-size", 500, "rows per database batch")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	pools, err := chain.ParseAddresses(cfg.Pools)
	if err != nil {
		return err
	}
	exchanges, err := chain.ParseAddresses(cfg.Exchanges)
	if err != nil {
		return err
	}
	datatokens, err := chain.ParseAddresses(cfg.Datatokens)
	if err != nil {
		return err
	}
	var staking common.Address
	if cfg.Staking != "" {
		if staking, err = chain.ParseAddress(cfg.Staking); err != nil {
			return err
		}
	}
	if len(pools) == 0 && len(exchanges) == 0 && len(datatokens) == 0 {
		return fmt.Errorf("at least one pool, exchange or datatoken is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	collector := snapshot.NewCollector(snapshot.Config{
		Pools:      pools,
		Exchanges:  exchanges,
		Staking:    staking,
		Datatokens: datatokens,
		BatchSize:  cfg.BatchSize,
	}, e.chain, e.registry, e.converter, store, logger)

	logger.Info("snapshot start",
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("pools", len(pools)),
		zap.Int("exchanges", len(exchanges)),
		zap.Int("datatokens", len(datatokens)),
	)

	_, err = collector.Run(ctx)
	return err
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
