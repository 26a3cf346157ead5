package fixedrate

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"liquidityLayer/internal/chain/chaintest"
	"liquidityLayer/internal/contracts"
	"liquidityLayer/internal/gas"
	"liquidityLayer/internal/txn"
	"liquidityLayer/internal/units"
)

var (
	contractAddr = common.HexToAddress("0x0000000000000000000000000000000000000f00")
	datatoken    = common.HexToAddress("0x0000000000000000000000000000000000000d00")
	usdc         = common.HexToAddress("0x0000000000000000000000000000000000000b00")
	stranger     = common.HexToAddress("0x0000000000000000000000000000000000000e00")
	marketAddr   = common.HexToAddress("0x0000000000000000000000000000000000000c00")
	exchangeID   = [32]byte{0x01, 0x02, 0x03}
)

type memoryIDs map[[4]common.Address][32]byte

func (m memoryIDs) GetExchangeID(exchange, baseToken, datatoken, owner common.Address) ([32]byte, bool) {
	id, ok := m[[4]common.Address{exchange, baseToken, datatoken, owner}]
	return id, ok
}

func (m memoryIDs) SetExchangeID(exchange, baseToken, datatoken, owner common.Address, id [32]byte) error {
	m[[4]common.Address{exchange, baseToken, datatoken, owner}] = id
	return nil
}

type exchangeState struct {
	owner    common.Address
	rate     *big.Int
	active   bool
	withMint bool
}

type fixture struct {
	backend *chaintest.Backend
	abi     abi.ABI
	client  *Client
	caller  common.Address
	ids     memoryIDs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := contracts.NewRegistry()
	parsed, err := registry.ABI(contracts.KindFixedRate, "")
	if err != nil {
		t.Fatalf("fixed rate abi: %v", err)
	}
	erc20ABI, err := registry.ABI(contracts.KindERC20, "")
	if err != nil {
		t.Fatalf("erc20 abi: %v", err)
	}

	backend := chaintest.New()
	backend.Return(datatoken, erc20ABI, "decimals", uint8(18))
	backend.Return(usdc, erc20ABI, "decimals", uint8(6))

	converter, err := units.NewConverter(backend, registry, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	signer, err := txn.NewKeySigner(chaintest.KeyHex)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	submitter := txn.NewSubmitter(backend, gas.NewEstimator(backend, gas.Config{}, zap.NewNop()), signer, 0, zap.NewNop())

	ids := memoryIDs{}
	client, err := NewClient(contractAddr, backend, registry, converter, submitter, ids, zap.NewNop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return &fixture{backend: backend, abi: parsed, client: client, caller: signer.Address(), ids: ids}
}

func (f *fixture) exchange(state exchangeState) {
	f.backend.Return(contractAddr, f.abi, "getExchange",
		state.owner,
		datatoken,
		big.NewInt(18),
		usdc,
		big.NewInt(6),
		state.rate,
		state.active,
		new(big.Int).Mul(big.NewInt(500), big.NewInt(1e18)),
		big.NewInt(1_000_000_000),
		new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		big.NewInt(250_000_000),
		state.withMint,
	)
}

func (f *fixture) fees(collector common.Address) {
	f.backend.Return(contractAddr, f.abi, "getFeesInfo",
		big.NewInt(1e15), collector, big.NewInt(1e15), big.NewInt(1_500_000), big.NewInt(500_000),
	)
}

func TestGetExchangeUsesReportedDecimals(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: f.caller, rate: big.NewInt(2e18), active: true})

	exchange, err := f.client.GetExchange(context.Background(), exchangeID)
	if err != nil {
		t.Fatalf("get exchange: %v", err)
	}
	if !exchange.Exists() {
		t.Fatalf("exchange should exist")
	}
	if !exchange.FixedRate.Equal(units.MustHuman("2")) {
		t.Fatalf("unexpected rate: %s", exchange.FixedRate)
	}
	if !exchange.DTSupply.Equal(units.MustHuman("500")) {
		t.Fatalf("unexpected dt supply: %s", exchange.DTSupply)
	}
	if !exchange.BTSupply.Equal(units.MustHuman("1000")) {
		t.Fatalf("unexpected bt supply: %s", exchange.BTSupply)
	}
	if !exchange.BTBalance.Equal(units.MustHuman("250")) {
		t.Fatalf("unexpected bt balance: %s", exchange.BTBalance)
	}

	f.fees(stranger)
	info, err := f.client.GetFeesInfo(context.Background(), exchangeID)
	if err != nil {
		t.Fatalf("fees: %v", err)
	}
	if !info.MarketFee.Equal(units.MustHuman("0.001")) {
		t.Fatalf("unexpected market fee: %s", info.MarketFee)
	}
	if !info.MarketFeeAvailable.Equal(units.MustHuman("1.5")) {
		t.Fatalf("unexpected accrued market fee: %s", info.MarketFeeAvailable)
	}
}

func TestBuyQuoteIsRateTimesAmountPlusFees(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: f.caller, rate: big.NewInt(2e18), active: true})

	var gotAmount, gotFee *big.Int
	f.backend.Handle(contractAddr, f.abi, "calcBaseInGivenOutDT", func(args []interface{}) ([]interface{}, error) {
		gotAmount = args[1].(*big.Int)
		gotFee = args[2].(*big.Int)
		// rate 2, base token with 6 decimals
		base := new(big.Int).Div(new(big.Int).Mul(gotAmount, big.NewInt(2)), big.NewInt(1e12))
		oceanFee := big.NewInt(20_000)
		marketFee := big.NewInt(20_000)
		total := new(big.Int).Add(base, oceanFee)
		total.Add(total, marketFee)
		total.Add(total, gotFee)
		return []interface{}{total, oceanFee, marketFee, gotFee}, nil
	})

	quote, err := f.client.CalcBaseInGivenOutDT(context.Background(), exchangeID, units.MustHuman("10"), units.MustHuman("0.5"))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if gotAmount.String() != "10000000000000000000" {
		t.Fatalf("datatoken amount must use datatoken decimals: %s", gotAmount)
	}
	if gotFee.String() != "500000" {
		t.Fatalf("consume fee must use base token decimals: %s", gotFee)
	}
	if !quote.BaseTokenAmount.Equal(units.MustHuman("20.54")) {
		t.Fatalf("unexpected base token amount: %s", quote.BaseTokenAmount)
	}
	fees := quote.OceanFeeAmount.Add(quote.MarketFeeAmount).Add(quote.ConsumeMarketFeeAmount)
	if !quote.BaseTokenAmount.Sub(fees).Equal(units.MustHuman("20")) {
		t.Fatalf("amount minus fees must be rate times amount, got %s", quote.BaseTokenAmount.Sub(fees))
	}
}

func TestBuyDTPacksTradeArguments(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: stranger, rate: big.NewInt(2e18), active: true})

	_, err := f.client.BuyDT(context.Background(), exchangeID, units.MustHuman("1.5"), units.MustHuman("3.1"), ConsumeMarket{
		Address: marketAddr,
		Fee:     units.MustHuman("0.01"),
	})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	sent := f.backend.Sent()
	if len(sent) != 1 || sent[0].Method != "buyDT" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	args := sent[0].Args
	if args[1].(*big.Int).String() != "1500000000000000000" {
		t.Fatalf("unexpected datatoken amount: %s", args[1])
	}
	if args[2].(*big.Int).String() != "3100000" {
		t.Fatalf("unexpected max base amount: %s", args[2])
	}
	if args[3].(common.Address) != marketAddr {
		t.Fatalf("unexpected consume market: %s", args[3])
	}
	if args[4].(*big.Int).String() != "10000" {
		t.Fatalf("unexpected consume fee: %s", args[4])
	}
}

func TestMissingExchangeIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{rate: big.NewInt(0)})
	ctx := context.Background()

	exchange, err := f.client.GetExchange(ctx, exchangeID)
	if err != nil {
		t.Fatalf("get exchange: %v", err)
	}
	if exchange.Exists() {
		t.Fatalf("zero owner must not exist")
	}

	if _, err := f.client.BuyDT(ctx, exchangeID, units.MustHuman("1"), units.MustHuman("1"), ConsumeMarket{}); !errors.Is(err, ErrExchangeNotFound) {
		t.Fatalf("buy: expected ErrExchangeNotFound, got %v", err)
	}
	if _, err := f.client.Activate(ctx, exchangeID); !errors.Is(err, ErrExchangeNotFound) {
		t.Fatalf("activate: expected ErrExchangeNotFound, got %v", err)
	}
	if _, err := f.client.CollectOceanFee(ctx, exchangeID); !errors.Is(err, ErrExchangeNotFound) {
		t.Fatalf("collect: expected ErrExchangeNotFound, got %v", err)
	}
	if _, err := f.client.GetDTSupply(ctx, exchangeID); !errors.Is(err, ErrExchangeNotFound) {
		t.Fatalf("supply: expected ErrExchangeNotFound, got %v", err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("missing exchange must not submit")
	}
}

func TestToggleIsNoOpWhenUnchanged(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: f.caller, rate: big.NewInt(1e18), active: true, withMint: false})
	ctx := context.Background()

	receipt, err := f.client.Activate(ctx, exchangeID)
	if err != nil || receipt != nil {
		t.Fatalf("activate active exchange: receipt=%v err=%v", receipt, err)
	}
	receipt, err = f.client.DeactivateMint(ctx, exchangeID)
	if err != nil || receipt != nil {
		t.Fatalf("deactivate mint: receipt=%v err=%v", receipt, err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("no-op toggles must not submit")
	}

	if _, err := f.client.Deactivate(ctx, exchangeID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.client.ActivateMint(ctx, exchangeID); err != nil {
		t.Fatalf("activate mint: %v", err)
	}
	sent := f.backend.Sent()
	if len(sent) != 2 || sent[0].Method != "toggleExchangeState" || sent[1].Method != "toggleMintState" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	if !sent[1].Args[1].(bool) {
		t.Fatalf("mint toggle must pass the target state")
	}
}

func TestCollectPermissions(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: stranger, rate: big.NewInt(1e18), active: true})
	f.fees(stranger)
	ctx := context.Background()

	if _, err := f.client.CollectBT(ctx, exchangeID, units.MustHuman("1")); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("collect bt: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := f.client.CollectDT(ctx, exchangeID, units.MustHuman("1")); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("collect dt: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := f.client.CollectMarketFee(ctx, exchangeID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("collect market fee: expected ErrNotAuthorized, got %v", err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("unauthorized calls must not submit")
	}

	// the collector may collect market fees without owning the exchange
	f.fees(f.caller)
	if _, err := f.client.CollectMarketFee(ctx, exchangeID); err != nil {
		t.Fatalf("collect market fee as collector: %v", err)
	}
	if _, err := f.client.CollectOceanFee(ctx, exchangeID); err != nil {
		t.Fatalf("collect ocean fee: %v", err)
	}
	if sent := f.backend.Sent(); len(sent) != 2 {
		t.Fatalf("expected two transactions, got %d", len(sent))
	}
}

func TestCollectBTUsesBaseTokenDecimals(t *testing.T) {
	f := newFixture(t)
	f.exchange(exchangeState{owner: f.caller, rate: big.NewInt(1e18), active: true})

	if _, err := f.client.CollectBT(context.Background(), exchangeID, units.MustHuman("12.5")); err != nil {
		t.Fatalf("collect bt: %v", err)
	}
	sent := f.backend.Sent()
	if got := sent[0].Args[1].(*big.Int).String(); got != "12500000" {
		t.Fatalf("unexpected amount: %s", got)
	}
}

// onChainExchangeID mirrors the contract: keccak256(abi.encode(baseToken, datatoken, owner)).
func onChainExchangeID(args []interface{}) ([]interface{}, error) {
	var packed []byte
	for _, arg := range args {
		packed = append(packed, common.LeftPadBytes(arg.(common.Address).Bytes(), 32)...)
	}
	return []interface{}{[32]byte(crypto.Keccak256Hash(packed))}, nil
}

func TestGenerateExchangeIDIsDeterministicAndDistinct(t *testing.T) {
	f := newFixture(t)
	f.backend.Handle(contractAddr, f.abi, "generateExchangeId", onChainExchangeID)
	ctx := context.Background()

	triples := [][3]common.Address{
		{usdc, datatoken, f.caller},
		{usdc, datatoken, stranger},
		{datatoken, usdc, f.caller},
		{usdc, marketAddr, f.caller},
	}
	seen := make(map[[32]byte][3]common.Address)
	for _, triple := range triples {
		id, err := f.client.GenerateExchangeID(ctx, triple[0], triple[1], triple[2])
		if err != nil {
			t.Fatalf("generate id: %v", err)
		}
		if prev, dup := seen[id]; dup {
			t.Fatalf("triples %v and %v share id %x", prev, triple, id)
		}
		seen[id] = triple

		again, err := f.client.GenerateExchangeID(ctx, triple[0], triple[1], triple[2])
		if err != nil {
			t.Fatalf("generate id again: %v", err)
		}
		if again != id {
			t.Fatalf("id changed for %v: %x != %x", triple, again, id)
		}
	}
	if calls := f.backend.Calls("generateExchangeId"); calls != len(triples) {
		t.Fatalf("expected one contract read per triple, got %d", calls)
	}

	uncached := newFixture(t)
	uncached.backend.Handle(contractAddr, uncached.abi, "generateExchangeId", onChainExchangeID)
	for id, triple := range seen {
		got, err := uncached.client.GenerateExchangeID(ctx, triple[0], triple[1], triple[2])
		if err != nil {
			t.Fatalf("generate id: %v", err)
		}
		if got != id {
			t.Fatalf("id for %v differs across clients: %x != %x", triple, got, id)
		}
	}
}

func TestExchangeList(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(contractAddr, f.abi, "getExchanges", [][32]byte{exchangeID, {0x09}})
	f.backend.Return(contractAddr, f.abi, "getNumberOfExchanges", big.NewInt(2))
	ctx := context.Background()

	ids, err := f.client.GetExchanges(ctx)
	if err != nil {
		t.Fatalf("exchanges: %v", err)
	}
	if len(ids) != 2 || ids[0] != exchangeID {
		t.Fatalf("unexpected ids: %x", ids)
	}
	n, err := f.client.GetNumberOfExchanges(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected count: %d", n)
	}
}
