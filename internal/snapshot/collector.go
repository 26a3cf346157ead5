package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/fixedrate"
	"liquidityLayer/internal/model"
	"liquidityLayer/internal/pool"
	"liquidityLayer/internal/sidestaking"
	"liquidityLayer/internal/units"
)

const defaultBatchSize = 500

// Store persists snapshot rows.
type Store interface {
	UpsertPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error
	UpsertExchangeSnapshots(ctx context.Context, snapshots []model.ExchangeSnapshot) error
	UpsertVestingSnapshots(ctx context.Context, snapshots []model.VestingSnapshot) error
}

// Config names the contracts to read.
type Config struct {
	Pools []common.Address
	// Exchanges are fixed-rate contracts; every exchange they host is read.
	Exchanges  []common.Address
	Staking    common.Address
	Datatokens []common.Address
	BatchSize  int
}

// Stats summarizes one collection run.
type Stats struct {
	BlockNumber uint64
	Pools       int
	Exchanges   int
	Vestings    int
	Failed      int
}

// Collector reads pool, exchange and vesting state at the chain head and
// writes it to a Store.
type Collector struct {
	cfg       Config
	backend   chain.Backend
	registry  *contracts.Registry
	converter *units.Converter
	store     Store
	logger    *zap.Logger
	now       func() time.Time
}

func NewCollector(cfg Config, backend chain.Backend, registry *contracts.Registry, converter *units.Converter, store Store, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Collector{
		cfg:       cfg,
		backend:   backend,
		registry:  registry,
		converter: converter,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Run takes one snapshot of every configured contract. A contract that fails
// to read is logged and counted; the run continues.
func (c *Collector) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if c.store == nil {
		return stats, fmt.Errorf("store is nil")
	}
	if c.backend == nil {
		return stats, fmt.Errorf("chain backend is nil")
	}

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return stats, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return stats, fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	block, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return stats, fmt.Errorf("get latest block: %w", err)
	}
	stats.BlockNumber = block
	takenAt := c.now().UTC()
	header := rowHeader{chainID: chainID.Uint64(), block: block, takenAt: takenAt}

	if err := c.collectPools(ctx, header, &stats); err != nil {
		return stats, err
	}
	if err := c.collectExchanges(ctx, header, &stats); err != nil {
		return stats, err
	}
	if err := c.collectVestings(ctx, header, &stats); err != nil {
		return stats, err
	}

	c.logger.Info("snapshot complete",
		zap.Uint64("block", block),
		zap.Int("pools", stats.Pools),
		zap.Int("exchanges", stats.Exchanges),
		zap.Int("vestings", stats.Vestings),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

type rowHeader struct {
	chainID uint64
	block   uint64
	takenAt time.Time
}

func (c *Collector) collectPools(ctx context.Context, header rowHeader, stats *Stats) error {
	batch := make([]model.PoolSnapshot, 0, c.cfg.BatchSize)
	for _, address := range c.cfg.Pools {
		snapshot, err := c.poolSnapshot(ctx, header, address)
		if err != nil {
			stats.Failed++
			c.logger.Warn("pool snapshot failed", zap.String("pool", address.Hex()), zap.Error(err))
			continue
		}
		batch = append(batch, snapshot)
		if len(batch) >= c.cfg.BatchSize {
			if err := c.store.UpsertPoolSnapshots(ctx, batch); err != nil {
				return fmt.Errorf("store pool snapshots: %w", err)
			}
			stats.Pools += len(batch)
			batch = batch[:0]
		}
	}
	if err := c.store.UpsertPoolSnapshots(ctx, batch); err != nil {
		return fmt.Errorf("store pool snapshots: %w", err)
	}
	stats.Pools += len(batch)
	return nil
}

func (c *Collector) poolSnapshot(ctx context.Context, header rowHeader, address common.Address) (model.PoolSnapshot, error) {
	client, err := pool.NewClient(address, c.backend, c.registry, c.converter, nil, c.logger)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	baseToken, err := client.GetBaseToken(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	datatoken, err := client.GetDatatoken(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	baseReserve, err := client.GetReserve(ctx, baseToken)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	datatokenReserve, err := client.GetReserve(ctx, datatoken)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	shares, err := client.GetPoolSharesTotalSupply(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	swapFee, err := client.GetSwapFee(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	marketFee, err := client.GetMarketFee(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	finalized, err := client.IsFinalized(ctx)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	// Price of one datatoken in base token, without a consume market fee.
	price, err := client.GetSpotPrice(ctx, baseToken, datatoken, units.HumanAmount{})
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	return model.PoolSnapshot{
		ChainID:          header.chainID,
		PoolAddress:      addressKey(address),
		BlockNumber:      header.block,
		BaseToken:        addressKey(baseToken),
		Datatoken:        addressKey(datatoken),
		BaseReserve:      baseReserve.String(),
		DatatokenReserve: datatokenReserve.String(),
		SharesSupply:     shares.String(),
		SwapFee:          swapFee.String(),
		MarketFee:        marketFee.String(),
		SpotPrice:        price.String(),
		Finalized:        finalized,
		TakenAt:          header.takenAt,
	}, nil
}

func (c *Collector) collectExchanges(ctx context.Context, header rowHeader, stats *Stats) error {
	batch := make([]model.ExchangeSnapshot, 0, c.cfg.BatchSize)
	flush := func() error {
		if err := c.store.UpsertExchangeSnapshots(ctx, batch); err != nil {
			return fmt.Errorf("store exchange snapshots: %w", err)
		}
		stats.Exchanges += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, address := range c.cfg.Exchanges {
		client, err := fixedrate.NewClient(address, c.backend, c.registry, c.converter, nil, nil, c.logger)
		if err != nil {
			return err
		}
		ids, err := client.GetExchanges(ctx)
		if err != nil {
			stats.Failed++
			c.logger.Warn("list exchanges failed", zap.String("exchange_contract", address.Hex()), zap.Error(err))
			continue
		}
		for _, id := range ids {
			snapshot, err := exchangeSnapshot(ctx, header, client, id)
			if err != nil {
				stats.Failed++
				c.logger.Warn("exchange snapshot failed",
					zap.String("exchange_contract", address.Hex()),
					zap.String("exchange_id", common.Hash(id).Hex()),
					zap.Error(err),
				)
				continue
			}
			batch = append(batch, snapshot)
			if len(batch) >= c.cfg.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

func exchangeSnapshot(ctx context.Context, header rowHeader, client *fixedrate.Client, id [32]byte) (model.ExchangeSnapshot, error) {
	exchange, err := client.GetExchange(ctx, id)
	if err != nil {
		return model.ExchangeSnapshot{}, err
	}
	fees, err := client.GetFeesInfo(ctx, id)
	if err != nil {
		return model.ExchangeSnapshot{}, err
	}
	return model.ExchangeSnapshot{
		ChainID:            header.chainID,
		ExchangeAddress:    addressKey(client.Address()),
		ExchangeID:         strings.ToLower(common.Hash(id).Hex()),
		BlockNumber:        header.block,
		Owner:              addressKey(exchange.Owner),
		BaseToken:          addressKey(exchange.BaseToken),
		Datatoken:          addressKey(exchange.Datatoken),
		FixedRate:          exchange.FixedRate.String(),
		Active:             exchange.Active,
		WithMint:           exchange.WithMint,
		DTSupply:           exchange.DTSupply.String(),
		BTSupply:           exchange.BTSupply.String(),
		MarketFee:          fees.MarketFee.String(),
		MarketFeeAvailable: fees.MarketFeeAvailable.String(),
		OceanFeeAvailable:  fees.OceanFeeAvailable.String(),
		TakenAt:            header.takenAt,
	}, nil
}

func (c *Collector) collectVestings(ctx context.Context, header rowHeader, stats *Stats) error {
	if len(c.cfg.Datatokens) == 0 {
		return nil
	}
	if c.cfg.Staking == (common.Address{}) {
		return fmt.Errorf("datatokens configured without a staking contract")
	}
	client, err := sidestaking.NewClient(c.cfg.Staking, c.backend, c.registry, c.converter, nil, c.logger)
	if err != nil {
		return err
	}

	batch := make([]model.VestingSnapshot, 0, len(c.cfg.Datatokens))
	for _, datatoken := range c.cfg.Datatokens {
		info, err := client.GetVestingInfo(ctx, datatoken)
		if err != nil {
			stats.Failed++
			c.logger.Warn("vesting snapshot failed", zap.String("datatoken", datatoken.Hex()), zap.Error(err))
			continue
		}
		circulating, err := client.GetDatatokenCirculatingSupply(ctx, datatoken)
		if err != nil {
			stats.Failed++
			c.logger.Warn("circulating supply failed", zap.String("datatoken", datatoken.Hex()), zap.Error(err))
			continue
		}
		batch = append(batch, model.VestingSnapshot{
			ChainID:        header.chainID,
			StakingAddress: addressKey(c.cfg.Staking),
			Datatoken:      addressKey(datatoken),
			BlockNumber:    header.block,
			Publisher:      addressKey(info.Publisher),
			PoolAddress:    addressKey(info.Pool),
			VestingAmount:  info.VestingAmount.String(),
			VestedSoFar:    info.VestedSoFar.String(),
			VestingEnd:     info.EndBlock,
			VestingLast:    info.LastBlock,
			Circulating:    circulating.String(),
			TakenAt:        header.takenAt,
		})
	}
	if err := c.store.UpsertVestingSnapshots(ctx, batch); err != nil {
		return fmt.Errorf("store vesting snapshots: %w", err)
	}
	stats.Vestings += len(batch)
	return nil
}

func addressKey(address common.Address) string {
	return strings.ToLower(address.Hex())
}
