package model

// Event names emitted by pool, exchange and staking contracts.
const (
	EventSwap    = "LOG_SWAP"
	EventJoin    = "LOG_JOIN"
	EventExit    = "LOG_EXIT"
	EventSwapped = "Swapped"
	EventVesting = "Vesting"
)

// SwapEventData is the decoded LOG_SWAP payload. Amounts are base units.
type SwapEventData struct {
	Caller         string `json:"caller"`
	TokenIn        string `json:"token_in"`
	TokenOut       string `json:"token_out"`
	TokenAmountIn  string `json:"token_amount_in"`
	TokenAmountOut string `json:"token_amount_out"`
	Timestamp      uint64 `json:"timestamp"`
	InBalance      string `json:"in_balance"`
	OutBalance     string `json:"out_balance"`
	NewSpotPrice   string `json:"new_spot_price"`
}

// JoinEventData is the decoded LOG_JOIN payload, one per token added.
type JoinEventData struct {
	Caller        string `json:"caller"`
	TokenIn       string `json:"token_in"`
	TokenAmountIn string `json:"token_amount_in"`
	Timestamp     uint64 `json:"timestamp"`
}

// ExitEventData is the decoded LOG_EXIT payload, one per token removed.
type ExitEventData struct {
	Caller         string `json:"caller"`
	TokenOut       string `json:"token_out"`
	TokenAmountOut string `json:"token_amount_out"`
	Timestamp      uint64 `json:"timestamp"`
}

// SwappedEventData is the decoded fixed-rate exchange Swapped payload.
type SwappedEventData struct {
	ExchangeID             string `json:"exchange_id"`
	By                     string `json:"by"`
	TokenOut               string `json:"token_out"`
	DatatokenSwappedAmount string `json:"datatoken_swapped_amount"`
	BaseTokenSwappedAmount string `json:"base_token_swapped_amount"`
	MarketFeeAmount        string `json:"market_fee_amount"`
	OceanFeeAmount         string `json:"ocean_fee_amount"`
	ConsumeMarketFeeAmount string `json:"consume_market_fee_amount"`
}

// VestingEventData is the decoded side-staking Vesting payload.
type VestingEventData struct {
	Datatoken string `json:"datatoken"`
	Publisher string `json:"publisher"`
	Caller    string `json:"caller"`
	Amount    string `json:"amount"`
}
