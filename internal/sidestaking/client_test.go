package sidestaking

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain/chaintest"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/events"
	"liquidityLayer/internal/gas"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

var (
	stakingAddr = common.HexToAddress("0x0000000000000000000000000000000000005500")
	datatoken   = common.HexToAddress("0x0000000000000000000000000000000000005501")
	baseToken   = common.HexToAddress("0x0000000000000000000000000000000000005502")
	publisher   = common.HexToAddress("0x0000000000000000000000000000000000005503")
	poolAddr    = common.HexToAddress("0x0000000000000000000000000000000000005504")
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func newTestClient(t *testing.T, withSigner bool) (*Client, *chaintest.Backend, abi.ABI, *contracts.Registry) {
	t.Helper()
	registry := contracts.NewRegistry()
	stakingABI, err := registry.ABI(contracts.KindSideStaking, "")
	if err != nil {
		t.Fatalf("staking abi: %v", err)
	}
	erc20ABI, err := registry.ABI(contracts.KindERC20, "")
	if err != nil {
		t.Fatalf("erc20 abi: %v", err)
	}

	backend := chaintest.New()
	backend.Return(datatoken, erc20ABI, "decimals", uint8(18))
	backend.Return(baseToken, erc20ABI, "decimals", uint8(6))

	backend.Return(stakingAddr, stakingABI, "getPublisherAddress", publisher)
	backend.Return(stakingAddr, stakingABI, "getPoolAddress", poolAddr)
	backend.Return(stakingAddr, stakingABI, "getBaseTokenAddress", baseToken)
	backend.Return(stakingAddr, stakingABI, "getvestingAmount", tokens(1000))
	backend.Return(stakingAddr, stakingABI, "getvestingAmountSoFar", tokens(250))
	backend.Return(stakingAddr, stakingABI, "getAvailableVesting", tokens(10))
	backend.Return(stakingAddr, stakingABI, "getvestingLastBlock", big.NewInt(90))
	backend.Return(stakingAddr, stakingABI, "getvestingEndBlock", big.NewInt(2_426_000))
	backend.Return(stakingAddr, stakingABI, "getDatatokenBalance", tokens(9000))
	backend.Return(stakingAddr, stakingABI, "getBaseTokenBalance", big.NewInt(42_500_000))
	backend.Return(stakingAddr, stakingABI, "getDatatokenCirculatingSupply", tokens(1000))
	backend.Return(stakingAddr, stakingABI, "getDatatokenCurrentCirculatingSupply", tokens(600))

	converter, err := units.NewConverter(backend, registry, units.NewMemoryStore(8), zap.NewNop())
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	var submitter *txn.Submitter
	if withSigner {
		signer, err := txn.NewKeySigner(chaintest.KeyHex)
		if err != nil {
			t.Fatalf("signer: %v", err)
		}
		submitter = txn.NewSubmitter(backend, gas.NewEstimator(backend, gas.Config{}, zap.NewNop()), signer, 0, zap.NewNop())
	}
	client, err := NewClient(stakingAddr, backend, registry, converter, submitter, zap.NewNop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return client, backend, stakingABI, registry
}

func TestCirculatingSupplyIncludesPool(t *testing.T) {
	client, _, _, _ := newTestClient(t, false)
	ctx := context.Background()

	total, err := client.GetDatatokenCirculatingSupply(ctx, datatoken)
	if err != nil {
		t.Fatalf("circulating: %v", err)
	}
	current, err := client.GetDatatokenCurrentCirculatingSupply(ctx, datatoken)
	if err != nil {
		t.Fatalf("current circulating: %v", err)
	}
	if total.Cmp(current) < 0 {
		t.Fatalf("circulating %s below current %s", total, current)
	}
	if !total.Equal(units.MustHuman("1000")) || !current.Equal(units.MustHuman("600")) {
		t.Fatalf("unexpected supplies: %s %s", total, current)
	}
}

func TestGetVestingInfo(t *testing.T) {
	client, _, _, _ := newTestClient(t, false)

	info, err := client.GetVestingInfo(context.Background(), datatoken)
	if err != nil {
		t.Fatalf("vesting info: %v", err)
	}
	if info.Publisher != publisher || info.Pool != poolAddr || info.BaseToken != baseToken {
		t.Fatalf("unexpected addresses: %+v", info)
	}
	if info.VestedSoFar.Cmp(info.VestingAmount) > 0 {
		t.Fatalf("vested %s exceeds schedule %s", info.VestedSoFar, info.VestingAmount)
	}
	if !info.Remaining().Equal(units.MustHuman("750")) {
		t.Fatalf("unexpected remaining: %s", info.Remaining())
	}
	if info.EndBlock != 2_426_000 || info.LastBlock != 90 {
		t.Fatalf("unexpected blocks: last=%d end=%d", info.LastBlock, info.EndBlock)
	}
	if !info.BaseTokenHeld.Equal(units.MustHuman("42.5")) {
		t.Fatalf("base token balance must use base token decimals: %s", info.BaseTokenHeld)
	}
	if !info.Available.Equal(units.MustHuman("10")) {
		t.Fatalf("unexpected available: %s", info.Available)
	}
}

func TestGetBaseTokenBalance(t *testing.T) {
	client, _, _, _ := newTestClient(t, false)

	balance, err := client.GetBaseTokenBalance(context.Background(), datatoken)
	if err != nil {
		t.Fatalf("base balance: %v", err)
	}
	if !balance.Equal(units.MustHuman("42.5")) {
		t.Fatalf("unexpected balance: %s", balance)
	}
}

func TestBlockNumberOutOfRange(t *testing.T) {
	client, backend, stakingABI, _ := newTestClient(t, false)
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	backend.Return(stakingAddr, stakingABI, "getvestingEndBlock", huge)

	if _, err := client.GetVestingEndBlock(context.Background(), datatoken); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestGetVestingAlwaysSubmits(t *testing.T) {
	client, backend, stakingABI, registry := newTestClient(t, true)
	backend.Return(stakingAddr, stakingABI, "getAvailableVesting", big.NewInt(0))

	caller := common.Address{}
	backend.OnSend = func(method string, args []interface{}) ([]*types.Log, uint64) {
		lg, err := chaintest.EventLog(stakingAddr, stakingABI, "Vesting",
			[]common.Hash{chaintest.AddressTopic(datatoken), chaintest.AddressTopic(publisher), chaintest.AddressTopic(caller)},
			big.NewInt(0),
		)
		if err != nil {
			t.Errorf("build log: %v", err)
			return nil, types.ReceiptStatusFailed
		}
		return []*types.Log{lg}, types.ReceiptStatusSuccessful
	}

	receipt, err := client.GetVesting(context.Background(), datatoken)
	if err != nil {
		t.Fatalf("get vesting: %v", err)
	}
	sent := backend.Sent()
	if len(sent) != 1 || sent[0].Method != "getVesting" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	if sent[0].Args[0].(common.Address) != datatoken {
		t.Fatalf("unexpected datatoken argument: %v", sent[0].Args[0])
	}

	decoder, err := events.NewDecoder(registry)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	vesting, err := decoder.VestingFromReceipt(receipt)
	if err != nil {
		t.Fatalf("vesting event: %v", err)
	}
	if common.HexToAddress(vesting.Publisher) != publisher || vesting.Amount != "0" {
		t.Fatalf("unexpected vesting event: %+v", vesting)
	}
}

func TestGetVestingWithoutSigner(t *testing.T) {
	client, backend, _, _ := newTestClient(t, false)

	if _, err := client.GetVesting(context.Background(), datatoken); !errors.Is(err, txn.ErrNoSigner) {
		t.Fatalf("expected ErrNoSigner, got %v", err)
	}
	if len(backend.Sent()) != 0 {
		t.Fatalf("no transaction expected")
	}
}

func TestVestingNeverExceedsSchedule(t *testing.T) {
	client, backend, stakingABI, _ := newTestClient(t, true)
	ctx := context.Background()

	total := tokens(1000)
	vested := tokens(250)
	held := tokens(750)
	step := tokens(300)
	available := func() *big.Int {
		left := new(big.Int).Sub(total, vested)
		if left.Cmp(step) > 0 {
			return new(big.Int).Set(step)
		}
		return left
	}
	backend.Handle(stakingAddr, stakingABI, "getvestingAmountSoFar", func([]interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(vested)}, nil
	})
	backend.Handle(stakingAddr, stakingABI, "getAvailableVesting", func([]interface{}) ([]interface{}, error) {
		return []interface{}{available()}, nil
	})
	backend.Handle(stakingAddr, stakingABI, "getDatatokenBalance", func([]interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(held)}, nil
	})
	backend.OnSend = func(method string, args []interface{}) ([]*types.Log, uint64) {
		if method != "getVesting" {
			return nil, types.ReceiptStatusFailed
		}
		amount := available()
		vested.Add(vested, amount)
		held.Sub(held, amount)
		lg, err := chaintest.EventLog(stakingAddr, stakingABI, "Vesting",
			[]common.Hash{chaintest.AddressTopic(datatoken), chaintest.AddressTopic(publisher), chaintest.AddressTopic(common.Address{})},
			amount,
		)
		if err != nil {
			t.Errorf("build log: %v", err)
			return nil, types.ReceiptStatusFailed
		}
		return []*types.Log{lg}, types.ReceiptStatusSuccessful
	}

	for i := 0; i < 5; i++ {
		if _, err := client.GetVesting(ctx, datatoken); err != nil {
			t.Fatalf("get vesting %d: %v", i, err)
		}
		info, err := client.GetVestingInfo(ctx, datatoken)
		if err != nil {
			t.Fatalf("vesting info %d: %v", i, err)
		}
		if info.VestedSoFar.Cmp(info.VestingAmount) > 0 {
			t.Fatalf("call %d: vested %s exceeds schedule %s", i, info.VestedSoFar, info.VestingAmount)
		}
		if info.VestedSoFar.Add(info.DatatokenHeld).Cmp(info.VestingAmount) > 0 {
			t.Fatalf("call %d: vested %s plus held %s exceeds schedule %s", i, info.VestedSoFar, info.DatatokenHeld, info.VestingAmount)
		}
		if info.Remaining().IsNegative() {
			t.Fatalf("call %d: negative remaining %s", i, info.Remaining())
		}
	}

	if vested.Cmp(total) != 0 || held.Sign() != 0 {
		t.Fatalf("expected the schedule to be fully vested, got vested=%s held=%s", vested, held)
	}
	if sent := backend.Sent(); len(sent) != 5 {
		t.Fatalf("expected five submissions, got %d", len(sent))
	}
}
