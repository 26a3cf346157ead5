package events

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/model"
)

// ErrUnsupported marks a log whose topic0 the decoder does not know.
var ErrUnsupported = errors.New("unsupported event")

type eventKey struct {
	kind contracts.Kind
	name string
}

// Decoder decodes pool, fixed-rate exchange and side-staking events.
type Decoder struct {
	events map[common.Hash]eventKey
	abis   map[contracts.Kind]abi.ABI
}

// NewDecoder loads event ABIs from registry.
func NewDecoder(registry *contracts.Registry) (*Decoder, error) {
	if registry == nil {
		return nil, fmt.Errorf("contract registry is nil")
	}
	d := &Decoder{
		events: make(map[common.Hash]eventKey),
		abis:   make(map[contracts.Kind]abi.ABI),
	}
	wanted := map[contracts.Kind][]string{
		contracts.KindPool:        {model.EventSwap, model.EventJoin, model.EventExit},
		contracts.KindFixedRate:   {model.EventSwapped},
		contracts.KindSideStaking: {model.EventVesting},
	}
	for kind, names := range wanted {
		parsed, err := registry.ABI(kind, contracts.DefaultVersion)
		if err != nil {
			return nil, err
		}
		d.abis[kind] = parsed
		for _, name := range names {
			event, ok := parsed.Events[name]
			if !ok {
				return nil, fmt.Errorf("%s abi has no %s event", kind, name)
			}
			d.events[event.ID] = eventKey{kind: kind, name: name}
		}
	}
	return d, nil
}

// Topic0s returns every topic0 the decoder understands.
func (d *Decoder) Topic0s() []common.Hash {
	out := make([]common.Hash, 0, len(d.events))
	for topic := range d.events {
		out = append(out, topic)
	}
	return out
}

// TopicOf returns topic0 for a known event name.
func (d *Decoder) TopicOf(name string) (common.Hash, bool) {
	for topic, key := range d.events {
		if key.name == name {
			return topic, true
		}
	}
	return common.Hash{}, false
}

func (d *Decoder) CanDecode(lg types.Log) bool {
	if len(lg.Topics) == 0 {
		return false
	}
	_, ok := d.events[lg.Topics[0]]
	return ok
}

// Decode converts a chain log into a TypedEvent.
func (d *Decoder) Decode(chainID uint64, lg types.Log) (*model.TypedEvent, error) {
	if len(lg.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	key, ok := d.events[lg.Topics[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, lg.Topics[0].Hex())
	}
	event := d.abis[key.kind].Events[key.name]

	var (
		decoded interface{}
		err     error
	)
	switch key.name {
	case model.EventSwap:
		decoded, err = decodeSwap(event, lg)
	case model.EventJoin:
		decoded, err = decodeJoin(event, lg)
	case model.EventExit:
		decoded, err = decodeExit(event, lg)
	case model.EventSwapped:
		decoded, err = decodeSwapped(event, lg)
	case model.EventVesting:
		decoded, err = decodeVesting(event, lg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, key.name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key.name, err)
	}
	return &model.TypedEvent{
		ChainID:     chainID,
		BlockNumber: lg.BlockNumber,
		BlockHash:   lg.BlockHash.Hex(),
		TxHash:      lg.TxHash.Hex(),
		LogIndex:    uint64(lg.Index),
		Address:     lg.Address.Hex(),
		Contract:    string(key.kind),
		EventName:   key.name,
		Decoded:     decoded,
		Raw:         &model.RawLogRef{Topic0: lg.Topics[0].Hex(), Data: hexutil.Encode(lg.Data)},
	}, nil
}

func decodeSwap(event abi.Event, lg types.Log) (model.SwapEventData, error) {
	var indexed struct {
		Caller   common.Address
		TokenIn  common.Address
		TokenOut common.Address
	}
	if err := parseTopics(event, lg, &indexed); err != nil {
		return model.SwapEventData{}, err
	}
	values, err := unpackNonIndexed(event, lg.Data, 6)
	if err != nil {
		return model.SwapEventData{}, err
	}
	return model.SwapEventData{
		Caller:         indexed.Caller.Hex(),
		TokenIn:        indexed.TokenIn.Hex(),
		TokenOut:       indexed.TokenOut.Hex(),
		TokenAmountIn:  values[0].String(),
		TokenAmountOut: values[1].String(),
		Timestamp:      values[2].Uint64(),
		InBalance:      values[3].String(),
		OutBalance:     values[4].String(),
		NewSpotPrice:   values[5].String(),
	}, nil
}

func decodeJoin(event abi.Event, lg types.Log) (model.JoinEventData, error) {
	var indexed struct {
		Caller  common.Address
		TokenIn common.Address
	}
	if err := parseTopics(event, lg, &indexed); err != nil {
		return model.JoinEventData{}, err
	}
	values, err := unpackNonIndexed(event, lg.Data, 2)
	if err != nil {
		return model.JoinEventData{}, err
	}
	return model.JoinEventData{
		Caller:        indexed.Caller.Hex(),
		TokenIn:       indexed.TokenIn.Hex(),
		TokenAmountIn: values[0].String(),
		Timestamp:     values[1].Uint64(),
	}, nil
}

func decodeExit(event abi.Event, lg types.Log) (model.ExitEventData, error) {
	var indexed struct {
		Caller   common.Address
		TokenOut common.Address
	}
	if err := parseTopics(event, lg, &indexed); err != nil {
		return model.ExitEventData{}, err
	}
	values, err := unpackNonIndexed(event, lg.Data, 2)
	if err != nil {
		return model.ExitEventData{}, err
	}
	return model.ExitEventData{
		Caller:         indexed.Caller.Hex(),
		TokenOut:       indexed.TokenOut.Hex(),
		TokenAmountOut: values[0].String(),
		Timestamp:      values[1].Uint64(),
	}, nil
}

func decodeSwapped(event abi.Event, lg types.Log) (model.SwappedEventData, error) {
	var indexed struct {
		ExchangeId      [32]byte
		By              common.Address
		TokenOutAddress common.Address
	}
	if err := parseTopics(event, lg, &indexed); err != nil {
		return model.SwappedEventData{}, err
	}
	values, err := unpackNonIndexed(event, lg.Data, 5)
	if err != nil {
		return model.SwappedEventData{}, err
	}
	return model.SwappedEventData{
		ExchangeID:             common.Hash(indexed.ExchangeId).Hex(),
		By:                     indexed.By.Hex(),
		TokenOut:               indexed.TokenOutAddress.Hex(),
		DatatokenSwappedAmount: values[0].String(),
		BaseTokenSwappedAmount: values[1].String(),
		MarketFeeAmount:        values[2].String(),
		OceanFeeAmount:         values[3].String(),
		ConsumeMarketFeeAmount: values[4].String(),
	}, nil
}

func decodeVesting(event abi.Event, lg types.Log) (model.VestingEventData, error) {
	var indexed struct {
		DatatokenAddress common.Address
		PublisherAddress common.Address
		Caller           common.Address
	}
	if err := parseTopics(event, lg, &indexed); err != nil {
		return model.VestingEventData{}, err
	}
	values, err := unpackNonIndexed(event, lg.Data, 1)
	if err != nil {
		return model.VestingEventData{}, err
	}
	return model.VestingEventData{
		Datatoken: indexed.DatatokenAddress.Hex(),
		Publisher: indexed.PublisherAddress.Hex(),
		Caller:    indexed.Caller.Hex(),
		Amount:    values[0].String(),
	}, nil
}

func parseTopics(event abi.Event, lg types.Log, out interface{}) error {
	indexed := indexedArguments(event.Inputs)
	if len(lg.Topics) != len(indexed)+1 {
		return fmt.Errorf("expected %d topics, got %d", len(indexed)+1, len(lg.Topics))
	}
	if err := abi.ParseTopics(out, indexed, lg.Topics[1:]); err != nil {
		return fmt.Errorf("parse topics: %w", err)
	}
	return nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

// unpackNonIndexed decodes the data section, which for these events is
// always a run of uint256 values.
func unpackNonIndexed(event abi.Event, data []byte, want int) ([]*big.Int, error) {
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	if len(values) != want {
		return nil, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}
	out := make([]*big.Int, 0, len(values))
	for i, value := range values {
		v, err := contracts.AsBigInt(value)
		if err != nil {
			return nil, fmt.Errorf("%s value %d: %w", event.Name, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// BuildLogRecord renders a log in string form.
func BuildLogRecord(chainID uint64, lg types.Log) model.LogRecord {
	topics := make([]string, 0, len(lg.Topics))
	for _, topic := range lg.Topics {
		topics = append(topics, topic.Hex())
	}
	return model.LogRecord{
		ChainID:     chainID,
		BlockNumber: lg.BlockNumber,
		BlockHash:   lg.BlockHash.Hex(),
		TxHash:      lg.TxHash.Hex(),
		LogIndex:    uint64(lg.Index),
		Address:     lg.Address.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(lg.Data),
		Removed:     lg.Removed,
	}
}
