package chaintest

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// AddressTopic left-pads an address into an indexed topic.
func AddressTopic(address common.Address) common.Hash {
	return common.BytesToHash(address.Bytes())
}

// EventLog builds a log for event emitted by address. indexed are the topics
// after topic0; values are packed as the non-indexed data.
func EventLog(address common.Address, parsed abi.ABI, event string, indexed []common.Hash, values ...interface{}) (*types.Log, error) {
	ev, ok := parsed.Events[event]
	if !ok {
		return nil, errUnknownEvent(event)
	}
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		return nil, err
	}
	topics := append([]common.Hash{ev.ID}, indexed...)
	return &types.Log{
		Address: address,
		Topics:  topics,
		Data:    data,
	}, nil
}

type errUnknownEvent string

func (e errUnknownEvent) Error() string {
	return "unknown event " + string(e)
}
