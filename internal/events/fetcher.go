package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/model"
	"liquidityLayer/internal/storage"
)

// FetchConfig bounds a past-event fetch.
type FetchConfig struct {
	FromBlock uint64
	// ToBlock 0 means the chain head minus Confirmations.
	ToBlock        uint64
	Confirmations  uint64
	Addresses      []common.Address
	BatchSize      uint64
	CheckpointPath string
	MaxRetries     int
	RetryBackoff   time.Duration
}

// FetchStats summarizes a completed fetch.
type FetchStats struct {
	FromBlock uint64
	ToBlock   uint64
	Events    int
	Failures  int
}

// Fetcher pulls past pool, exchange and staking logs in block batches, decodes
// them and hands them to a sink.
type Fetcher struct {
	cfg        FetchConfig
	backend    chain.Backend
	decoder    *Decoder
	sink       storage.Sink
	checkpoint *CheckpointStore
	logger     *zap.Logger
	seen       map[string]struct{}
}

func NewFetcher(cfg FetchConfig, backend chain.Backend, decoder *Decoder, sink storage.Sink, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:        cfg,
		backend:    backend,
		decoder:    decoder,
		sink:       sink,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.Addresses),
		logger:     logger,
		seen:       make(map[string]struct{}),
	}
}

// Run fetches every batch in the configured range, resuming after the last
// checkpointed block.
func (f *Fetcher) Run(ctx context.Context) (FetchStats, error) {
	var stats FetchStats
	if f.backend == nil {
		return stats, fmt.Errorf("chain backend is nil")
	}
	if f.decoder == nil {
		return stats, fmt.Errorf("decoder is nil")
	}
	if f.sink == nil {
		return stats, fmt.Errorf("sink is nil")
	}
	if f.cfg.BatchSize == 0 {
		return stats, fmt.Errorf("batch size must be greater than zero")
	}
	if len(f.cfg.Addresses) == 0 {
		return stats, fmt.Errorf("at least one address is required")
	}

	chainID, err := f.backend.ChainID(ctx)
	if err != nil {
		return stats, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return stats, fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}

	from, to, err := f.resolveRange(ctx)
	if err != nil {
		return stats, err
	}
	stats.FromBlock, stats.ToBlock = from, to
	if from > to {
		f.logger.Info("nothing to fetch", zap.Uint64("from", from), zap.Uint64("to", to))
		return stats, nil
	}

	ranges, err := SplitRange(from, to, f.cfg.BatchSize)
	if err != nil {
		return stats, err
	}
	topics := f.decoder.Topic0s()

	for _, blockRange := range ranges {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		logs, err := f.filterLogsWithRetry(ctx, blockRange, topics)
		if err != nil {
			return stats, fmt.Errorf("filter logs: %w", err)
		}

		decoded, failures := f.decode(chainID.Uint64(), logs)
		if err := f.sink.PutEvents(ctx, decoded); err != nil {
			return stats, fmt.Errorf("store events: %w", err)
		}
		if err := f.sink.PutDecodeErrors(ctx, failures); err != nil {
			return stats, fmt.Errorf("store decode errors: %w", err)
		}
		if err := f.checkpoint.Save(blockRange.To); err != nil {
			return stats, err
		}

		stats.Events += len(decoded)
		stats.Failures += len(failures)
		f.logger.Info("batch complete",
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
			zap.Int("events", len(decoded)),
			zap.Int("failures", len(failures)),
		)
	}
	return stats, nil
}

func (f *Fetcher) resolveRange(ctx context.Context) (uint64, uint64, error) {
	from := f.cfg.FromBlock
	to := f.cfg.ToBlock
	if to == 0 {
		head, err := f.backend.BlockNumber(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("get latest block: %w", err)
		}
		if head < f.cfg.Confirmations {
			return 1, 0, nil
		}
		to = head - f.cfg.Confirmations
	}

	cp, ok, err := f.checkpoint.Load()
	if err != nil {
		return 0, 0, err
	}
	if ok && cp.LastProcessedBlock >= from {
		from = cp.LastProcessedBlock + 1
		f.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp.LastProcessedBlock), zap.Uint64("from", from))
	}
	return from, to, nil
}

func (f *Fetcher) filterLogsWithRetry(ctx context.Context, blockRange BlockRange, topics []common.Hash) ([]types.Log, error) {
	query := chain.RangeQuery(blockRange.From, blockRange.To, f.cfg.Addresses, topics)
	var logs []types.Log
	err := withRetry(ctx, f.cfg.MaxRetries, f.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = f.backend.FilterLogs(ctx, query)
		if err != nil {
			f.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
		}
		return err
	})
	return logs, err
}

func (f *Fetcher) decode(chainID uint64, logs []types.Log) ([]model.TypedEvent, []model.DecodeError) {
	decoded := make([]model.TypedEvent, 0, len(logs))
	var failures []model.DecodeError
	for _, lg := range logs {
		if lg.Removed || f.isDuplicate(lg) {
			continue
		}
		event, err := f.decoder.Decode(chainID, lg)
		if err != nil {
			if errors.Is(err, ErrUnsupported) {
				continue
			}
			f.logger.Debug("decode failed", zap.String("tx_hash", lg.TxHash.Hex()), zap.Uint("log_index", lg.Index), zap.Error(err))
			failures = append(failures, model.DecodeError{Log: BuildLogRecord(chainID, lg), Error: err.Error()})
			continue
		}
		decoded = append(decoded, *event)
	}
	return decoded, failures
}

func (f *Fetcher) isDuplicate(lg types.Log) bool {
	id := fmt.Sprintf("%d:%s:%d", lg.BlockNumber, lg.TxHash.Hex(), lg.Index)
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}
