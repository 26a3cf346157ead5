package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityLayer/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const schema = `
CREATE TABLE IF NOT EXISTS pool_snapshots (
	chain_id BIGINT NOT NULL,
	pool_address TEXT NOT NULL,
	block_number BIGINT NOT NULL,
	base_token TEXT NOT NULL,
	datatoken TEXT NOT NULL,
	base_reserve NUMERIC NOT NULL,
	datatoken_reserve NUMERIC NOT NULL,
	shares_supply NUMERIC NOT NULL,
	swap_fee NUMERIC NOT NULL,
	market_fee NUMERIC NOT NULL,
	spot_price NUMERIC NOT NULL,
	finalized BOOLEAN NOT NULL,
	taken_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (chain_id, pool_address, block_number)
);
CREATE TABLE IF NOT EXISTS exchange_snapshots (
	chain_id BIGINT NOT NULL,
	exchange_address TEXT NOT NULL,
	exchange_id TEXT NOT NULL,
	block_number BIGINT NOT NULL,
	owner TEXT NOT NULL,
	base_token TEXT NOT NULL,
	datatoken TEXT NOT NULL,
	fixed_rate NUMERIC NOT NULL,
	active BOOLEAN NOT NULL,
	with_mint BOOLEAN NOT NULL,
	dt_supply NUMERIC NOT NULL,
	bt_supply NUMERIC NOT NULL,
	market_fee NUMERIC NOT NULL,
	market_fee_available NUMERIC NOT NULL,
	ocean_fee_available NUMERIC NOT NULL,
	taken_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (chain_id, exchange_address, exchange_id, block_number)
);
CREATE TABLE IF NOT EXISTS vesting_snapshots (
	chain_id BIGINT NOT NULL,
	staking_address TEXT NOT NULL,
	datatoken TEXT NOT NULL,
	block_number BIGINT NOT NULL,
	publisher TEXT NOT NULL,
	pool_address TEXT NOT NULL,
	vesting_amount NUMERIC NOT NULL,
	vested_so_far NUMERIC NOT NULL,
	vesting_end_block BIGINT NOT NULL,
	vesting_last_block BIGINT NOT NULL,
	circulating_supply NUMERIC NOT NULL,
	taken_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (chain_id, staking_address, datatoken, block_number)
);
`

// Store persists pool, exchange and vesting snapshots in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertPoolSnapshots inserts or replaces pool snapshots.
func (s *Store) UpsertPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range snapshots {
		batch.Queue(`
			INSERT INTO pool_snapshots (
				chain_id, pool_address, block_number, base_token, datatoken, base_reserve,
				datatoken_reserve, shares_supply, swap_fee, market_fee, spot_price, finalized, taken_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (chain_id, pool_address, block_number)
			DO UPDATE SET
				base_reserve = EXCLUDED.base_reserve,
				datatoken_reserve = EXCLUDED.datatoken_reserve,
				shares_supply = EXCLUDED.shares_supply,
				swap_fee = EXCLUDED.swap_fee,
				market_fee = EXCLUDED.market_fee,
				spot_price = EXCLUDED.spot_price,
				finalized = EXCLUDED.finalized,
				taken_at = EXCLUDED.taken_at
		`,
			int64(p.ChainID),
			p.PoolAddress,
			int64(p.BlockNumber),
			p.BaseToken,
			p.Datatoken,
			p.BaseReserve,
			p.DatatokenReserve,
			p.SharesSupply,
			p.SwapFee,
			p.MarketFee,
			p.SpotPrice,
			p.Finalized,
			p.TakenAt,
		)
	}
	return s.sendBatch(ctx, batch, len(snapshots))
}

// UpsertExchangeSnapshots inserts or replaces exchange snapshots.
func (s *Store) UpsertExchangeSnapshots(ctx context.Context, snapshots []model.ExchangeSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range snapshots {
		batch.Queue(`
			INSERT INTO exchange_snapshots (
				chain_id, exchange_address, exchange_id, block_number, owner, base_token, datatoken,
				fixed_rate, active, with_mint, dt_supply, bt_supply, market_fee,
				market_fee_available, ocean_fee_available, taken_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
			ON CONFLICT (chain_id, exchange_address, exchange_id, block_number)
			DO UPDATE SET
				owner = EXCLUDED.owner,
				fixed_rate = EXCLUDED.fixed_rate,
				active = EXCLUDED.active,
				with_mint = EXCLUDED.with_mint,
				dt_supply = EXCLUDED.dt_supply,
				bt_supply = EXCLUDED.bt_supply,
				market_fee = EXCLUDED.market_fee,
				market_fee_available = EXCLUDED.market_fee_available,
				ocean_fee_available = EXCLUDED.ocean_fee_available,
				taken_at = EXCLUDED.taken_at
		`,
			int64(e.ChainID),
			e.ExchangeAddress,
			e.ExchangeID,
			int64(e.BlockNumber),
			e.Owner,
			e.BaseToken,
			e.Datatoken,
			e.FixedRate,
			e.Active,
			e.WithMint,
			e.DTSupply,
			e.BTSupply,
			e.MarketFee,
			e.MarketFeeAvailable,
			e.OceanFeeAvailable,
			e.TakenAt,
		)
	}
	return s.sendBatch(ctx, batch, len(snapshots))
}

// UpsertVestingSnapshots inserts or replaces vesting snapshots.
func (s *Store) UpsertVestingSnapshots(ctx context.Context, snapshots []model.VestingSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range snapshots {
		batch.Queue(`
			INSERT INTO vesting_snapshots (
				chain_id, staking_address, datatoken, block_number, publisher, pool_address,
				vesting_amount, vested_so_far, vesting_end_block, vesting_last_block,
				circulating_supply, taken_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (chain_id, staking_address, datatoken, block_number)
			DO UPDATE SET
				vested_so_far = EXCLUDED.vested_so_far,
				vesting_last_block = EXCLUDED.vesting_last_block,
				circulating_supply = EXCLUDED.circulating_supply,
				taken_at = EXCLUDED.taken_at
		`,
			int64(v.ChainID),
			v.StakingAddress,
			v.Datatoken,
			int64(v.BlockNumber),
			v.Publisher,
			v.PoolAddress,
			v.VestingAmount,
			v.VestedSoFar,
			int64(v.VestingEnd),
			int64(v.VestingLast),
			v.Circulating,
			v.TakenAt,
		)
	}
	return s.sendBatch(ctx, batch, len(snapshots))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LatestPoolSnapshot returns the newest stored snapshot of a pool.
func (s *Store) LatestPoolSnapshot(ctx context.Context, chainID uint64, poolAddress string) (model.PoolSnapshot, bool, error) {
	query, args, err := latestPoolSnapshotQuery(chainID, poolAddress).ToSql()
	if err != nil {
		return model.PoolSnapshot{}, false, fmt.Errorf("build query: %w", err)
	}

	var (
		p           model.PoolSnapshot
		chain       int64
		blockNumber int64
	)
	err = s.pool.QueryRow(ctx, query, args...).Scan(
		&chain,
		&p.PoolAddress,
		&blockNumber,
		&p.BaseToken,
		&p.Datatoken,
		&p.BaseReserve,
		&p.DatatokenReserve,
		&p.SharesSupply,
		&p.SwapFee,
		&p.MarketFee,
		&p.SpotPrice,
		&p.Finalized,
		&p.TakenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolSnapshot{}, false, nil
		}
		return model.PoolSnapshot{}, false, err
	}
	p.ChainID = uint64(chain)
	p.BlockNumber = uint64(blockNumber)
	return p, true, nil
}

func latestPoolSnapshotQuery(chainID uint64, poolAddress string) sq.SelectBuilder {
	return psql.
		Select(
			"chain_id", "pool_address", "block_number", "base_token", "datatoken",
			"base_reserve::text", "datatoken_reserve::text", "shares_supply::text",
			"swap_fee::text", "market_fee::text", "spot_price::text", "finalized", "taken_at",
		).
		From("pool_snapshots").
		Where(sq.Eq{"chain_id": int64(chainID), "pool_address": poolAddress}).
		OrderBy("block_number DESC").
		Limit(1)
}

// ExchangeHistory returns stored snapshots of one exchange between two blocks, oldest first.
func (s *Store) ExchangeHistory(ctx context.Context, chainID uint64, exchangeID string, fromBlock, toBlock uint64) ([]model.ExchangeSnapshot, error) {
	query, args, err := exchangeHistoryQuery(chainID, exchangeID, fromBlock, toBlock).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExchangeSnapshot
	for rows.Next() {
		var (
			e           model.ExchangeSnapshot
			chain       int64
			blockNumber int64
		)
		if err := rows.Scan(
			&chain,
			&e.ExchangeAddress,
			&e.ExchangeID,
			&blockNumber,
			&e.Owner,
			&e.BaseToken,
			&e.Datatoken,
			&e.FixedRate,
			&e.Active,
			&e.WithMint,
			&e.DTSupply,
			&e.BTSupply,
			&e.MarketFee,
			&e.MarketFeeAvailable,
			&e.OceanFeeAvailable,
			&e.TakenAt,
		); err != nil {
			return nil, err
		}
		e.ChainID = uint64(chain)
		e.BlockNumber = uint64(blockNumber)
		out = append(out, e)
	}
	return out, rows.Err()
}

func exchangeHistoryQuery(chainID uint64, exchangeID string, fromBlock, toBlock uint64) sq.SelectBuilder {
	query := psql.
		Select(
			"chain_id", "exchange_address", "exchange_id", "block_number", "owner", "base_token",
			"datatoken", "fixed_rate::text", "active", "with_mint", "dt_supply::text", "bt_supply::text",
			"market_fee::text", "market_fee_available::text", "ocean_fee_available::text", "taken_at",
		).
		From("exchange_snapshots").
		Where(sq.Eq{"chain_id": int64(chainID), "exchange_id": exchangeID}).
		Where(sq.GtOrEq{"block_number": int64(fromBlock)})
	if toBlock > 0 {
		query = query.Where(sq.LtOrEq{"block_number": int64(toBlock)})
	}
	return query.OrderBy("block_number ASC")
}
