package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/config"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/events"
	"liquidityLayer/internal/storage"
)

func newEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Fetch and decode past pool, exchange and staking events",
		RunE:  runEvents,
	}

	cmd.Flags().Uint64("from", 0, "start block (inclusive)")
	cmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest minus confirmations")
	cmd.Flags().Uint64("confirmations", 0, "blocks to stay behind the head")
	cmd.Flags().StringSlice("address", nil, "pool, exchange or staking addresses (comma-separated)")
	cmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	cmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	cmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("sink", "jsonl", "event sink (jsonl, kafka)")
	cmd.Flags().String("out", "./data/events.jsonl", "output JSONL path")
	cmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL path")
	cmd.Flags().StringSlice("kafka-brokers", nil, "kafka brokers (comma-separated)")
	cmd.Flags().String("kafka-topic", "liquidity-events", "kafka topic for events")
	cmd.Flags().String("kafka-errors-topic", "", "kafka topic for decode errors")
	return cmd
}

func runEvents(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEvents(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	addresses, err := chain.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	registry := contracts.NewRegistry()
	if err := registry.LoadOverrides(cfg.ABIOverrides); err != nil {
		return err
	}
	decoder, err := events.NewDecoder(registry)
	if err != nil {
		return err
	}

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("close sink", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	fetcher := events.NewFetcher(events.FetchConfig{
		FromBlock:      cfg.FromBlock,
		ToBlock:        cfg.ToBlock,
		Confirmations:  cfg.Confirmations,
		Addresses:      addresses,
		BatchSize:      cfg.BatchSize,
		CheckpointPath: cfg.CheckpointPath(),
		MaxRetries:     cfg.MaxRetries,
		RetryBackoff:   cfg.RetryBackoff,
	}, chainClient, decoder, sink, logger)

	logger.Info("events start",
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Uint64("confirmations", cfg.Confirmations),
		zap.Int("addresses", len(addresses)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("sink", cfg.Sink),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	stats, err := fetcher.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("events complete",
		zap.Uint64("from", stats.FromBlock),
		zap.Uint64("to", stats.ToBlock),
		zap.Int("events", stats.Events),
		zap.Int("failures", stats.Failures),
	)
	return nil
}

func newSink(cfg config.EventsConfig) (storage.Sink, error) {
	switch cfg.Sink {
	case "", "jsonl":
		if cfg.Out == "" {
			return nil, fmt.Errorf("output path is required")
		}
		return storage.NewJsonlSink(cfg.Out, cfg.Errors), nil
	case "kafka":
		return storage.NewKafkaSink(storage.KafkaConfig{
			Brokers:     cfg.KafkaBrokers,
			Topic:       cfg.KafkaTopic,
			ErrorsTopic: cfg.KafkaErrors,
		})
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}
