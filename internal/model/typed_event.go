package model

import "strconv"

// TypedEvent is a decoded contract event with its chain position.
type TypedEvent struct {
	ChainID     uint64      `json:"chain_id"`
	BlockNumber uint64      `json:"block_number"`
	BlockHash   string      `json:"block_hash"`
	TxHash      string      `json:"tx_hash"`
	LogIndex    uint64      `json:"log_index"`
	Address     string      `json:"address"`
	Contract    string      `json:"contract"`
	EventName   string      `json:"event_name"`
	Decoded     interface{} `json:"decoded"`
	Raw         *RawLogRef  `json:"raw,omitempty"`
}

// RawLogRef keeps topic0 and data for traceability.
type RawLogRef struct {
	Topic0 string `json:"topic0"`
	Data   string `json:"data"`
}

// Key identifies the event by transaction and log position.
func (e TypedEvent) Key() string {
	return e.TxHash + ":" + strconv.FormatUint(e.LogIndex, 10)
}
