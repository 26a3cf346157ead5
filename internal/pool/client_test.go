package pool

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
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
	poolAddr  = common.HexToAddress("0x0000000000000000000000000000000000000100")
	datatoken = common.HexToAddress("0x0000000000000000000000000000000000000200")
	baseToken = common.HexToAddress("0x0000000000000000000000000000000000000300")
	stable    = common.HexToAddress("0x0000000000000000000000000000000000000400")
	other     = common.HexToAddress("0x0000000000000000000000000000000000000500")
)

type fixture struct {
	backend   *chaintest.Backend
	registry  *contracts.Registry
	poolABI   abi.ABI
	client    *Client
	submitter *txn.Submitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := contracts.NewRegistry()
	poolABI, err := registry.ABI(contracts.KindPool, "")
	if err != nil {
		t.Fatalf("pool abi: %v", err)
	}
	erc20ABI, err := registry.ABI(contracts.KindERC20, "")
	if err != nil {
		t.Fatalf("erc20 abi: %v", err)
	}

	backend := chaintest.New()
	backend.Return(datatoken, erc20ABI, "decimals", uint8(18))
	backend.Return(baseToken, erc20ABI, "decimals", uint8(18))
	backend.Return(stable, erc20ABI, "decimals", uint8(6))

	converter, err := units.NewConverter(backend, registry, units.NewMemoryStore(16), zap.NewNop())
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	signer, err := txn.NewKeySigner(chaintest.KeyHex)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	submitter := txn.NewSubmitter(backend, gas.NewEstimator(backend, gas.Config{}, zap.NewNop()), signer, 0, zap.NewNop())

	client, err := NewClient(poolAddr, backend, registry, converter, submitter, zap.NewNop())
	if err != nil {
		t.Fatalf("pool client: %v", err)
	}
	return &fixture{
		backend:   backend,
		registry:  registry,
		poolABI:   poolABI,
		client:    client,
		submitter: submitter,
	}
}

func wei(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("bad integer " + value)
	}
	return v
}

func (f *fixture) reserves(balances map[common.Address]*big.Int) {
	f.backend.Handle(poolAddr, f.poolABI, "getBalance", func(args []interface{}) ([]interface{}, error) {
		token := args[0].(common.Address)
		balance, ok := balances[token]
		if !ok {
			return []interface{}{big.NewInt(0)}, nil
		}
		return []interface{}{balance}, nil
	})
}

func TestSwapExactAmountInEmitsSwapEvent(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		baseToken: wei("100000000000000000000"),
		datatoken: wei("1000000000000000000000"),
	})
	erc20ABI, err := f.registry.ABI(contracts.KindERC20, "")
	if err != nil {
		t.Fatalf("erc20 abi: %v", err)
	}

	caller := f.submitter.From()
	received := big.NewInt(0)
	f.backend.Handle(datatoken, erc20ABI, "balanceOf", func(args []interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(received)}, nil
	})
	f.backend.OnSend = func(method string, args []interface{}) ([]*types.Log, uint64) {
		if method != "swapExactAmountIn" {
			return nil, types.ReceiptStatusSuccessful
		}
		amounts := args[1].([4]*big.Int)
		amountOut := wei("9500000000000000000")
		if amountOut.Cmp(amounts[1]) < 0 {
			return nil, types.ReceiptStatusFailed
		}
		received.Add(received, amountOut)
		lg, err := chaintest.EventLog(poolAddr, f.poolABI, "LOG_SWAP",
			[]common.Hash{chaintest.AddressTopic(caller), chaintest.AddressTopic(baseToken), chaintest.AddressTopic(datatoken)},
			amounts[0], amountOut, big.NewInt(1_700_000_000), wei("110000000000000000000"), wei("990500000000000000000"), wei("111000000000000000"),
		)
		if err != nil {
			t.Errorf("build log: %v", err)
			return nil, types.ReceiptStatusFailed
		}
		return []*types.Log{lg}, types.ReceiptStatusSuccessful
	}

	ctx := context.Background()
	before, err := contracts.CallBigInt(ctx, f.backend, datatoken, erc20ABI, "balanceOf", caller)
	if err != nil {
		t.Fatalf("balance before: %v", err)
	}
	minAmountOut := units.MustHuman("9")
	receipt, err := f.client.SwapExactAmountIn(ctx,
		SwapTokens{TokenIn: baseToken, TokenOut: datatoken},
		SwapExactIn{
			TokenAmountIn: units.MustHuman("10"),
			MinAmountOut:  minAmountOut,
			SwapMarketFee: units.MustHuman("0.001"),
		},
	)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	sent := f.backend.Sent()
	if len(sent) != 1 || sent[0].Method != "swapExactAmountIn" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	amounts := sent[0].Args[1].([4]*big.Int)
	if amounts[0].String() != "10000000000000000000" {
		t.Fatalf("unexpected amount in: %s", amounts[0])
	}
	if amounts[1].String() != "9000000000000000000" {
		t.Fatalf("unexpected min out: %s", amounts[1])
	}
	if amounts[3].String() != "1000000000000000" {
		t.Fatalf("unexpected market fee: %s", amounts[3])
	}

	decoder, err := events.NewDecoder(f.registry)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	swap, err := decoder.SwapFromReceipt(receipt)
	if err != nil {
		t.Fatalf("swap event: %v", err)
	}
	if swap.TokenAmountIn != "10000000000000000000" {
		t.Fatalf("unexpected event amount in: %s", swap.TokenAmountIn)
	}
	if common.HexToAddress(swap.TokenIn) != baseToken {
		t.Fatalf("unexpected event token in: %s", swap.TokenIn)
	}
	if common.HexToAddress(swap.Caller) != caller {
		t.Fatalf("unexpected event caller: %s", swap.Caller)
	}

	amountOut, ok := new(big.Int).SetString(swap.TokenAmountOut, 10)
	if !ok {
		t.Fatalf("bad event amount out: %s", swap.TokenAmountOut)
	}
	if amountOut.Cmp(amounts[1]) < 0 {
		t.Fatalf("amount out %s below min %s", amountOut, amounts[1])
	}
	after, err := contracts.CallBigInt(ctx, f.backend, datatoken, erc20ABI, "balanceOf", caller)
	if err != nil {
		t.Fatalf("balance after: %v", err)
	}
	if delta := new(big.Int).Sub(after, before); delta.Cmp(amountOut) != 0 {
		t.Fatalf("balance delta %s does not match event amount out %s", delta, amountOut)
	}
}

func TestSwapAboveMaxRatioIsRejected(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		baseToken: wei("100000000000000000000"),
	})
	ctx := context.Background()

	max, err := f.client.GetMaxSwapExactIn(ctx, baseToken)
	if err != nil {
		t.Fatalf("max swap: %v", err)
	}
	if !max.Equal(units.MustHuman("50")) {
		t.Fatalf("expected half the reserve, got %s", max)
	}

	_, err = f.client.SwapExactAmountIn(ctx,
		SwapTokens{TokenIn: baseToken, TokenOut: datatoken},
		SwapExactIn{TokenAmountIn: units.MustHuman("50.000001")},
	)
	if !errors.Is(err, ErrExceedsMaxRatio) {
		t.Fatalf("expected ErrExceedsMaxRatio, got %v", err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("rejected swap must not be sent")
	}

	if _, err := f.client.SwapExactAmountIn(ctx,
		SwapTokens{TokenIn: baseToken, TokenOut: datatoken},
		SwapExactIn{TokenAmountIn: units.MustHuman("50")},
	); err != nil {
		t.Fatalf("swap at the max must pass: %v", err)
	}
}

func TestReserveUsesTokenDecimals(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		stable: big.NewInt(2_500_000),
	})
	reserve, err := f.client.GetReserve(context.Background(), stable)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !reserve.Equal(units.MustHuman("2.5")) {
		t.Fatalf("unexpected reserve: %s", reserve)
	}
}

func TestSpotPriceScaling(t *testing.T) {
	cases := []struct {
		name        string
		raw         *big.Int
		decimalsIn  uint8
		decimalsOut uint8
		want        string
	}{
		{"equal decimals", wei("2500000000000000000"), 18, 18, "2.5"},
		{"wider token in", wei("2500000000000000000"), 18, 6, "2.5"},
		{"wider token out", big.NewInt(25), 6, 18, "25000000"},
	}
	for _, tc := range cases {
		got := scaleSpotPrice(tc.raw, tc.decimalsIn, tc.decimalsOut)
		if !got.Equal(units.MustHuman(tc.want)) {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestGetSpotPricePassesFee(t *testing.T) {
	f := newFixture(t)
	var fee *big.Int
	f.backend.Handle(poolAddr, f.poolABI, "getSpotPrice", func(args []interface{}) ([]interface{}, error) {
		fee = args[2].(*big.Int)
		return []interface{}{wei("2500000000000000000")}, nil
	})

	price, err := f.client.GetSpotPrice(context.Background(), datatoken, stable, units.MustHuman("0.01"))
	if err != nil {
		t.Fatalf("spot price: %v", err)
	}
	if !price.Equal(units.MustHuman("2.5")) {
		t.Fatalf("unexpected price: %s", price)
	}
	if fee.String() != "10000000000000000" {
		t.Fatalf("unexpected fee: %s", fee)
	}
}

func TestQuoteFeesInTokenIn(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		stable:    big.NewInt(1_000_000_000),
		datatoken: wei("1000000000000000000000"),
	})
	f.backend.Return(poolAddr, f.poolABI, "getAmountOutExactIn",
		wei("3000000000000000000"), big.NewInt(1_000), big.NewInt(2_000), big.NewInt(3_000), big.NewInt(4_000),
	)

	quote, err := f.client.GetAmountOutExactIn(context.Background(), stable, datatoken, units.MustHuman("10"), units.HumanAmount{})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !quote.Amount.Equal(units.MustHuman("3")) {
		t.Fatalf("unexpected amount: %s", quote.Amount)
	}
	if !quote.LPFee.Equal(units.MustHuman("0.001")) {
		t.Fatalf("lp fee must use token in decimals: %s", quote.LPFee)
	}
	if !quote.ConsumeMarketFee.Equal(units.MustHuman("0.004")) {
		t.Fatalf("unexpected consume fee: %s", quote.ConsumeMarketFee)
	}
}

func TestCollectMarketFeeRequiresCollector(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(poolAddr, f.poolABI, "getMarketFeeCollector", other)

	if _, err := f.client.CollectMarketFee(context.Background()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := f.client.UpdatePublishMarketFee(context.Background(), other, units.MustHuman("0.01")); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("unauthorized calls must not be sent")
	}

	f.backend.Return(poolAddr, f.poolABI, "getMarketFeeCollector", f.submitter.From())
	if _, err := f.client.CollectMarketFee(context.Background()); err != nil {
		t.Fatalf("collect as collector: %v", err)
	}
	if sent := f.backend.Sent(); len(sent) != 1 || sent[0].Method != "collectMarketFee" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
}

func TestJoinPoolConvertsPerToken(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(poolAddr, f.poolABI, "getCurrentTokens", []common.Address{datatoken, stable})

	_, err := f.client.JoinPool(context.Background(), units.MustHuman("1"), [2]units.HumanAmount{
		units.MustHuman("10"),
		units.MustHuman("20"),
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	sent := f.backend.Sent()
	if len(sent) != 1 || sent[0].Method != "joinPool" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	if shares := sent[0].Args[0].(*big.Int); shares.String() != "1000000000000000000" {
		t.Fatalf("unexpected shares: %s", shares)
	}
	amounts := sent[0].Args[1].([]*big.Int)
	if amounts[0].String() != "10000000000000000000" || amounts[1].String() != "20000000" {
		t.Fatalf("unexpected max amounts: %s %s", amounts[0], amounts[1])
	}
}

func TestJoinPoolRequiresTwoTokens(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(poolAddr, f.poolABI, "getCurrentTokens", []common.Address{datatoken})

	_, err := f.client.JoinPool(context.Background(), units.MustHuman("1"), [2]units.HumanAmount{})
	if !errors.Is(err, ErrNotTwoToken) {
		t.Fatalf("expected ErrNotTwoToken, got %v", err)
	}
}

func TestCurrentMarketFees(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(poolAddr, f.poolABI, "getCurrentMarketFees",
		[]common.Address{datatoken, stable},
		[]*big.Int{wei("1500000000000000000"), big.NewInt(250_000)},
	)

	fees, err := f.client.GetCurrentMarketFees(context.Background())
	if err != nil {
		t.Fatalf("market fees: %v", err)
	}
	if len(fees) != 2 {
		t.Fatalf("expected two fees, got %d", len(fees))
	}
	if !fees[0].Amount.Equal(units.MustHuman("1.5")) || !fees[1].Amount.Equal(units.MustHuman("0.25")) {
		t.Fatalf("unexpected fees: %+v", fees)
	}
}

func TestSubmitWithoutSigner(t *testing.T) {
	f := newFixture(t)
	converter, err := units.NewConverter(f.backend, f.registry, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	readOnly, err := NewClient(poolAddr, f.backend, f.registry, converter, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := readOnly.CollectOPC(context.Background()); !errors.Is(err, txn.ErrNoSigner) {
		t.Fatalf("expected ErrNoSigner, got %v", err)
	}
}

func TestSwapExactAmountOutConvertsPerToken(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		stable:    big.NewInt(1_000_000_000),
		datatoken: wei("1000000000000000000000"),
	})

	_, err := f.client.SwapExactAmountOut(context.Background(),
		SwapTokens{TokenIn: stable, TokenOut: datatoken},
		SwapExactOut{MaxAmountIn: units.MustHuman("5"), TokenAmountOut: units.MustHuman("2")},
	)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	sent := f.backend.Sent()
	if len(sent) != 1 || sent[0].Method != "swapExactAmountOut" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	amounts := sent[0].Args[1].([4]*big.Int)
	if amounts[0].String() != "5000000" {
		t.Fatalf("max in must use token in decimals: %s", amounts[0])
	}
	if amounts[1].String() != "2000000000000000000" {
		t.Fatalf("amount out must use token out decimals: %s", amounts[1])
	}
	if amounts[2].Cmp(math.MaxBig256) != 0 || amounts[3].Sign() != 0 {
		t.Fatalf("unexpected price bound or fee: %s %s", amounts[2], amounts[3])
	}
}

func TestExitPoolConvertsPerToken(t *testing.T) {
	f := newFixture(t)
	f.backend.Return(poolAddr, f.poolABI, "getCurrentTokens", []common.Address{datatoken, stable})

	_, err := f.client.ExitPool(context.Background(), units.MustHuman("1"), [2]units.HumanAmount{
		units.MustHuman("1"),
		units.MustHuman("2"),
	})
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	sent := f.backend.Sent()
	if len(sent) != 1 || sent[0].Method != "exitPool" {
		t.Fatalf("unexpected transactions: %+v", sent)
	}
	if shares := sent[0].Args[0].(*big.Int); shares.String() != "1000000000000000000" {
		t.Fatalf("unexpected shares: %s", shares)
	}
	amounts := sent[0].Args[1].([]*big.Int)
	if amounts[0].String() != "1000000000000000000" || amounts[1].String() != "2000000" {
		t.Fatalf("unexpected min amounts: %s %s", amounts[0], amounts[1])
	}
}

func TestSingleSidedLiquidityConvertsPerToken(t *testing.T) {
	ten := units.MustHuman("10")
	half := units.MustHuman("0.5")
	cases := []struct {
		method     string
		run        func(ctx context.Context, c *Client) error
		wantAmount string
		wantShares string
		sharesArg  int
	}{
		{
			method: "joinswapExternAmountIn",
			run: func(ctx context.Context, c *Client) error {
				_, err := c.JoinswapExternAmountIn(ctx, stable, ten, half)
				return err
			},
			wantAmount: "10000000", wantShares: "500000000000000000", sharesArg: 2,
		},
		{
			method: "joinswapPoolAmountOut",
			run: func(ctx context.Context, c *Client) error {
				_, err := c.JoinswapPoolAmountOut(ctx, stable, half, ten)
				return err
			},
			wantAmount: "10000000", wantShares: "500000000000000000", sharesArg: 1,
		},
		{
			method: "exitswapPoolAmountIn",
			run: func(ctx context.Context, c *Client) error {
				_, err := c.ExitswapPoolAmountIn(ctx, stable, half, ten)
				return err
			},
			wantAmount: "10000000", wantShares: "500000000000000000", sharesArg: 1,
		},
		{
			method: "exitswapExternAmountOut",
			run: func(ctx context.Context, c *Client) error {
				_, err := c.ExitswapExternAmountOut(ctx, stable, ten, half)
				return err
			},
			wantAmount: "10000000", wantShares: "500000000000000000", sharesArg: 2,
		},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.reserves(map[common.Address]*big.Int{stable: big.NewInt(1_000_000_000)})

		if err := tc.run(context.Background(), f.client); err != nil {
			t.Fatalf("%s: %v", tc.method, err)
		}
		sent := f.backend.Sent()
		if len(sent) != 1 || sent[0].Method != tc.method {
			t.Fatalf("%s: unexpected transactions: %+v", tc.method, sent)
		}
		if token := sent[0].Args[0].(common.Address); token != stable {
			t.Fatalf("%s: unexpected token: %s", tc.method, token.Hex())
		}
		amountArg := 3 - tc.sharesArg
		if amount := sent[0].Args[amountArg].(*big.Int); amount.String() != tc.wantAmount {
			t.Fatalf("%s: token amount must use token decimals: %s", tc.method, amount)
		}
		if shares := sent[0].Args[tc.sharesArg].(*big.Int); shares.String() != tc.wantShares {
			t.Fatalf("%s: shares must use 18 decimals: %s", tc.method, shares)
		}
	}
}

func TestSingleSidedLiquidityAboveMaxRatio(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{stable: big.NewInt(1_000_000_000)})
	ctx := context.Background()

	if _, err := f.client.JoinswapExternAmountIn(ctx, stable, units.MustHuman("500.000001"), units.HumanAmount{}); !errors.Is(err, ErrExceedsMaxRatio) {
		t.Fatalf("expected ErrExceedsMaxRatio on join, got %v", err)
	}
	if _, err := f.client.ExitswapExternAmountOut(ctx, stable, units.MustHuman("501"), units.MustHuman("1")); !errors.Is(err, ErrExceedsMaxRatio) {
		t.Fatalf("expected ErrExceedsMaxRatio on exit, got %v", err)
	}
	if len(f.backend.Sent()) != 0 {
		t.Fatalf("rejected liquidity changes must not be sent")
	}
}

func TestSingleSidedQuotes(t *testing.T) {
	cases := []struct {
		method  string
		quote   func(ctx context.Context, c *Client) (units.HumanAmount, error)
		wantArg string
		result  *big.Int
		want    string
	}{
		{
			method: "calcPoolOutGivenSingleIn",
			quote: func(ctx context.Context, c *Client) (units.HumanAmount, error) {
				return c.CalcPoolOutGivenSingleIn(ctx, stable, units.MustHuman("10"))
			},
			wantArg: "10000000", result: wei("500000000000000000"), want: "0.5",
		},
		{
			method: "calcSingleInGivenPoolOut",
			quote: func(ctx context.Context, c *Client) (units.HumanAmount, error) {
				return c.CalcSingleInGivenPoolOut(ctx, stable, units.MustHuman("0.5"))
			},
			wantArg: "500000000000000000", result: big.NewInt(10_000_000), want: "10",
		},
		{
			method: "calcSingleOutGivenPoolIn",
			quote: func(ctx context.Context, c *Client) (units.HumanAmount, error) {
				return c.CalcSingleOutGivenPoolIn(ctx, stable, units.MustHuman("0.5"))
			},
			wantArg: "500000000000000000", result: big.NewInt(9_750_000), want: "9.75",
		},
		{
			method: "calcPoolInGivenSingleOut",
			quote: func(ctx context.Context, c *Client) (units.HumanAmount, error) {
				return c.CalcPoolInGivenSingleOut(ctx, stable, units.MustHuman("10"))
			},
			wantArg: "10000000", result: wei("520000000000000000"), want: "0.52",
		},
	}
	for _, tc := range cases {
		f := newFixture(t)
		var got *big.Int
		result := tc.result
		f.backend.Handle(poolAddr, f.poolABI, tc.method, func(args []interface{}) ([]interface{}, error) {
			got = args[1].(*big.Int)
			return []interface{}{result}, nil
		})

		amount, err := tc.quote(context.Background(), f.client)
		if err != nil {
			t.Fatalf("%s: %v", tc.method, err)
		}
		if got == nil || got.String() != tc.wantArg {
			t.Fatalf("%s: unexpected argument %v", tc.method, got)
		}
		if !amount.Equal(units.MustHuman(tc.want)) {
			t.Fatalf("%s: got %s want %s", tc.method, amount, tc.want)
		}
		if len(f.backend.Sent()) != 0 {
			t.Fatalf("%s: quotes must not send transactions", tc.method)
		}
	}
}

func TestGetAmountInExactOut(t *testing.T) {
	f := newFixture(t)
	f.reserves(map[common.Address]*big.Int{
		stable:    big.NewInt(1_000_000_000),
		datatoken: wei("1000000000000000000000"),
	})
	var args []interface{}
	f.backend.Handle(poolAddr, f.poolABI, "getAmountInExactOut", func(in []interface{}) ([]interface{}, error) {
		args = in
		return []interface{}{big.NewInt(5_000_000), big.NewInt(1_000), big.NewInt(2_000), big.NewInt(3_000), big.NewInt(4_000)}, nil
	})

	quote, err := f.client.GetAmountInExactOut(context.Background(), stable, datatoken, units.MustHuman("2"), units.MustHuman("0.001"))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if args[0].(common.Address) != stable || args[1].(common.Address) != datatoken {
		t.Fatalf("unexpected tokens: %v %v", args[0], args[1])
	}
	if amountOut := args[2].(*big.Int); amountOut.String() != "2000000000000000000" {
		t.Fatalf("amount out must use token out decimals: %s", amountOut)
	}
	if fee := args[3].(*big.Int); fee.String() != "1000000000000000" {
		t.Fatalf("unexpected consume fee: %s", fee)
	}
	if !quote.Amount.Equal(units.MustHuman("5")) {
		t.Fatalf("amount in must use token in decimals: %s", quote.Amount)
	}
	if !quote.LPFee.Equal(units.MustHuman("0.001")) || !quote.OPCFee.Equal(units.MustHuman("0.002")) {
		t.Fatalf("fees must use token in decimals: %s %s", quote.LPFee, quote.OPCFee)
	}
	if !quote.PublishMarketFee.Equal(units.MustHuman("0.003")) || !quote.ConsumeMarketFee.Equal(units.MustHuman("0.004")) {
		t.Fatalf("unexpected market fees: %s %s", quote.PublishMarketFee, quote.ConsumeMarketFee)
	}

	if _, err := f.client.GetAmountInExactOut(context.Background(), stable, datatoken, units.MustHuman("600"), units.HumanAmount{}); !errors.Is(err, ErrExceedsMaxRatio) {
		t.Fatalf("expected ErrExceedsMaxRatio, got %v", err)
	}
}
