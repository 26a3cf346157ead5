package events

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"liquidityLayer/internal/model"
)

// ErrEventNotFound is returned when a receipt carries no matching event.
var ErrEventNotFound = errors.New("event not found in receipt")

func (d *Decoder) fromReceipt(receipt *types.Receipt, name string) ([]interface{}, error) {
	if receipt == nil {
		return nil, fmt.Errorf("receipt is nil")
	}
	topic, ok := d.TopicOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	var out []interface{}
	for _, lg := range receipt.Logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != topic {
			continue
		}
		event, err := d.Decode(0, *lg)
		if err != nil {
			return nil, err
		}
		out = append(out, event.Decoded)
	}
	return out, nil
}

// SwapFromReceipt returns the first LOG_SWAP in receipt.
func (d *Decoder) SwapFromReceipt(receipt *types.Receipt) (model.SwapEventData, error) {
	values, err := d.fromReceipt(receipt, model.EventSwap)
	if err != nil {
		return model.SwapEventData{}, err
	}
	if len(values) == 0 {
		return model.SwapEventData{}, fmt.Errorf("%w: %s", ErrEventNotFound, model.EventSwap)
	}
	return values[0].(model.SwapEventData), nil
}

// JoinsFromReceipt returns every LOG_JOIN in receipt.
func (d *Decoder) JoinsFromReceipt(receipt *types.Receipt) ([]model.JoinEventData, error) {
	values, err := d.fromReceipt(receipt, model.EventJoin)
	if err != nil {
		return nil, err
	}
	out := make([]model.JoinEventData, 0, len(values))
	for _, value := range values {
		out = append(out, value.(model.JoinEventData))
	}
	return out, nil
}

// ExitsFromReceipt returns every LOG_EXIT in receipt.
func (d *Decoder) ExitsFromReceipt(receipt *types.Receipt) ([]model.ExitEventData, error) {
	values, err := d.fromReceipt(receipt, model.EventExit)
	if err != nil {
		return nil, err
	}
	out := make([]model.ExitEventData, 0, len(values))
	for _, value := range values {
		out = append(out, value.(model.ExitEventData))
	}
	return out, nil
}

// SwappedFromReceipt returns the first fixed-rate Swapped event in receipt.
func (d *Decoder) SwappedFromReceipt(receipt *types.Receipt) (model.SwappedEventData, error) {
	values, err := d.fromReceipt(receipt, model.EventSwapped)
	if err != nil {
		return model.SwappedEventData{}, err
	}
	if len(values) == 0 {
		return model.SwappedEventData{}, fmt.Errorf("%w: %s", ErrEventNotFound, model.EventSwapped)
	}
	return values[0].(model.SwappedEventData), nil
}

// VestingFromReceipt returns the first Vesting event in receipt.
func (d *Decoder) VestingFromReceipt(receipt *types.Receipt) (model.VestingEventData, error) {
	values, err := d.fromReceipt(receipt, model.EventVesting)
	if err != nil {
		return model.VestingEventData{}, err
	}
	if len(values) == 0 {
		return model.VestingEventData{}, fmt.Errorf("%w: %s", ErrEventNotFound, model.EventVesting)
	}
	return values[0].(model.VestingEventData), nil
}
