package model

import "time"

// PoolSnapshot is the normalized state of one pool at a block.
type PoolSnapshot struct {
	ChainID          uint64    `json:"chain_id"`
	PoolAddress      string    `json:"pool_address"`
	BlockNumber      uint64    `json:"block_number"`
	BaseToken        string    `json:"base_token"`
	Datatoken        string    `json:"datatoken"`
	BaseReserve      string    `json:"base_reserve"`
	DatatokenReserve string    `json:"datatoken_reserve"`
	SharesSupply     string    `json:"shares_supply"`
	SwapFee          string    `json:"swap_fee"`
	MarketFee        string    `json:"market_fee"`
	SpotPrice        string    `json:"spot_price"`
	Finalized        bool      `json:"finalized"`
	TakenAt          time.Time `json:"taken_at"`
}

// ExchangeSnapshot is the normalized state of one fixed-rate exchange.
type ExchangeSnapshot struct {
	ChainID            uint64    `json:"chain_id"`
	ExchangeAddress    string    `json:"exchange_address"`
	ExchangeID         string    `json:"exchange_id"`
	BlockNumber        uint64    `json:"block_number"`
	Owner              string    `json:"owner"`
	BaseToken          string    `json:"base_token"`
	Datatoken          string    `json:"datatoken"`
	FixedRate          string    `json:"fixed_rate"`
	Active             bool      `json:"active"`
	WithMint           bool      `json:"with_mint"`
	DTSupply           string    `json:"dt_supply"`
	BTSupply           string    `json:"bt_supply"`
	MarketFee          string    `json:"market_fee"`
	MarketFeeAvailable string    `json:"market_fee_available"`
	OceanFeeAvailable  string    `json:"ocean_fee_available"`
	TakenAt            time.Time `json:"taken_at"`
}

// VestingSnapshot is the vesting state of one datatoken on a staking contract.
type VestingSnapshot struct {
	ChainID        uint64    `json:"chain_id"`
	StakingAddress string    `json:"staking_address"`
	Datatoken      string    `json:"datatoken"`
	BlockNumber    uint64    `json:"block_number"`
	Publisher      string    `json:"publisher"`
	PoolAddress    string    `json:"pool_address"`
	VestingAmount  string    `json:"vesting_amount"`
	VestedSoFar    string    `json:"vested_so_far"`
	VestingEnd     uint64    `json:"vesting_end_block"`
	VestingLast    uint64    `json:"vesting_last_block"`
	Circulating    string    `json:"circulating_supply"`
	TakenAt        time.Time `json:"taken_at"`
}
