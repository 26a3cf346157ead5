package model

// LogRecord is a raw chain log in string form, kept for logs that fail to decode.
type LogRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash"`
	TxHash      string   `json:"tx_hash"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed"`
}

// DecodeError records why a log could not be decoded.
type DecodeError struct {
	Log   LogRecord `json:"log"`
	Error string    `json:"error"`
}
