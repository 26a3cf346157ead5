package events

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"liquidityLayer/internal/chain/chaintest"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/model"
)

var (
	poolAddr     = common.HexToAddress("0x0000000000000000000000000000000000001000")
	exchangeAddr = common.HexToAddress("0x0000000000000000000000000000000000002000")
	traderAddr   = common.HexToAddress("0x0000000000000000000000000000000000003000")
	tokenA       = common.HexToAddress("0x0000000000000000000000000000000000004000")
	tokenB       = common.HexToAddress("0x0000000000000000000000000000000000005000")
)

func mustABI(t *testing.T, registry *contracts.Registry, kind contracts.Kind) abi.ABI {
	t.Helper()
	parsed, err := registry.ABI(kind, "")
	if err != nil {
		t.Fatalf("%s abi: %v", kind, err)
	}
	return parsed
}

// mustLog takes the result of chaintest.EventLog directly.
func mustLog(t *testing.T) func(*types.Log, error) types.Log {
	return func(lg *types.Log, err error) types.Log {
		t.Helper()
		if err != nil {
			t.Fatalf("build log: %v", err)
		}
		return *lg
	}
}

func joinLog(t *testing.T, poolABI abi.ABI, block uint64, amount int64) types.Log {
	t.Helper()
	lg := mustLog(t)(chaintest.EventLog(poolAddr, poolABI, "LOG_JOIN",
		[]common.Hash{chaintest.AddressTopic(traderAddr), chaintest.AddressTopic(tokenA)},
		big.NewInt(amount), big.NewInt(1_700_000_000),
	))
	lg.BlockNumber = block
	lg.TxHash = common.BigToHash(new(big.Int).SetUint64(block))
	return lg
}

func TestDecodeSwapped(t *testing.T) {
	registry := contracts.NewRegistry()
	decoder, err := NewDecoder(registry)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	fixedRateABI := mustABI(t, registry, contracts.KindFixedRate)

	exchangeID := common.Hash{0x0e}
	lg := mustLog(t)(chaintest.EventLog(exchangeAddr, fixedRateABI, "Swapped",
		[]common.Hash{exchangeID, chaintest.AddressTopic(traderAddr), chaintest.AddressTopic(tokenA)},
		big.NewInt(10), big.NewInt(20), big.NewInt(1), big.NewInt(2), big.NewInt(3),
	))
	lg.BlockNumber = 42

	if !decoder.CanDecode(lg) {
		t.Fatalf("decoder should accept Swapped")
	}
	event, err := decoder.Decode(137, lg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.EventName != model.EventSwapped || event.Contract != string(contracts.KindFixedRate) {
		t.Fatalf("unexpected event: %s/%s", event.Contract, event.EventName)
	}
	if event.ChainID != 137 || event.BlockNumber != 42 {
		t.Fatalf("unexpected position: %+v", event)
	}
	swapped, ok := event.Decoded.(model.SwappedEventData)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Decoded)
	}
	if swapped.ExchangeID != exchangeID.Hex() {
		t.Fatalf("unexpected exchange id: %s", swapped.ExchangeID)
	}
	if common.HexToAddress(swapped.TokenOut) != tokenA || common.HexToAddress(swapped.By) != traderAddr {
		t.Fatalf("unexpected indexed fields: %+v", swapped)
	}
	if swapped.DatatokenSwappedAmount != "10" || swapped.BaseTokenSwappedAmount != "20" || swapped.ConsumeMarketFeeAmount != "3" {
		t.Fatalf("unexpected amounts: %+v", swapped)
	}
}

func TestDecodeJoinAndExit(t *testing.T) {
	registry := contracts.NewRegistry()
	decoder, err := NewDecoder(registry)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	poolABI := mustABI(t, registry, contracts.KindPool)

	exit := mustLog(t)(chaintest.EventLog(poolAddr, poolABI, "LOG_EXIT",
		[]common.Hash{chaintest.AddressTopic(traderAddr), chaintest.AddressTopic(tokenB)},
		big.NewInt(99), big.NewInt(1_700_000_001),
	))
	first := joinLog(t, poolABI, 1, 5)
	second := joinLog(t, poolABI, 1, 6)
	receipt := &types.Receipt{Logs: []*types.Log{&first, &second, &exit}}

	joins, err := decoder.JoinsFromReceipt(receipt)
	if err != nil {
		t.Fatalf("joins: %v", err)
	}
	if len(joins) != 2 || joins[0].TokenAmountIn != "5" || joins[1].TokenAmountIn != "6" {
		t.Fatalf("unexpected joins: %+v", joins)
	}
	exits, err := decoder.ExitsFromReceipt(receipt)
	if err != nil {
		t.Fatalf("exits: %v", err)
	}
	if len(exits) != 1 || exits[0].TokenAmountOut != "99" || exits[0].Timestamp != 1_700_000_001 {
		t.Fatalf("unexpected exits: %+v", exits)
	}

	if _, err := decoder.SwapFromReceipt(receipt); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestDecodeRejectsUnknownAndMalformed(t *testing.T) {
	registry := contracts.NewRegistry()
	decoder, err := NewDecoder(registry)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	poolABI := mustABI(t, registry, contracts.KindPool)

	unknown := types.Log{Address: poolAddr, Topics: []common.Hash{{0xff}}}
	if decoder.CanDecode(unknown) {
		t.Fatalf("unknown topic should not decode")
	}
	if _, err := decoder.Decode(1, unknown); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	malformed := joinLog(t, poolABI, 1, 5)
	malformed.Topics = malformed.Topics[:2]
	if _, err := decoder.Decode(1, malformed); err == nil {
		t.Fatalf("expected error for missing topic")
	}

	truncated := joinLog(t, poolABI, 1, 5)
	truncated.Data = truncated.Data[:16]
	if _, err := decoder.Decode(1, truncated); err == nil {
		t.Fatalf("expected error for short data")
	}
}

func TestBuildLogRecord(t *testing.T) {
	lg := types.Log{
		Address:     poolAddr,
		Topics:      []common.Hash{{0x01}, {0x02}},
		Data:        []byte{0xde, 0xad},
		BlockNumber: 7,
		Index:       3,
		Removed:     true,
	}
	record := BuildLogRecord(10, lg)
	if record.ChainID != 10 || record.BlockNumber != 7 || record.LogIndex != 3 || !record.Removed {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Data != "0xdead" || len(record.Topics) != 2 {
		t.Fatalf("unexpected payload: %+v", record)
	}
}
