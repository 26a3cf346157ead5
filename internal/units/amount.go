package units

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ProtocolDecimals is the fixed-point scale the contracts use for fees,
// prices, rates and pool shares regardless of token decimals.
const ProtocolDecimals = 18

var ErrNegativeAmount = errors.New("amount must not be negative")

// HumanAmount is a token amount in display units ("1.5" tokens).
type HumanAmount struct {
	d decimal.Decimal
}

// BaseAmount is a token amount in the token's smallest on-chain unit.
type BaseAmount struct {
	v *big.Int
}

// ParseHuman parses a decimal string such as "1000" or "0.25".
func ParseHuman(value string) (HumanAmount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return HumanAmount{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return HumanAmount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return HumanAmount{d: d}, nil
}

// MustHuman is ParseHuman for constants and tests.
func MustHuman(value string) HumanAmount {
	h, err := ParseHuman(value)
	if err != nil {
		panic(err)
	}
	return h
}

func HumanFromDecimal(d decimal.Decimal) HumanAmount {
	return HumanAmount{d: d}
}

func (h HumanAmount) Decimal() decimal.Decimal { return h.d }
func (h HumanAmount) String() string           { return h.d.String() }
func (h HumanAmount) IsZero() bool             { return h.d.IsZero() }
func (h HumanAmount) IsNegative() bool         { return h.d.IsNegative() }
func (h HumanAmount) Equal(o HumanAmount) bool { return h.d.Equal(o.d) }
func (h HumanAmount) Cmp(o HumanAmount) int    { return h.d.Cmp(o.d) }

func (h HumanAmount) Add(o HumanAmount) HumanAmount { return HumanAmount{d: h.d.Add(o.d)} }
func (h HumanAmount) Sub(o HumanAmount) HumanAmount { return HumanAmount{d: h.d.Sub(o.d)} }
func (h HumanAmount) Mul(o HumanAmount) HumanAmount { return HumanAmount{d: h.d.Mul(o.d)} }

// Truncate drops fractional digits beyond places.
func (h HumanAmount) Truncate(places int32) HumanAmount {
	return HumanAmount{d: h.d.Truncate(places)}
}

func (h HumanAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.d.String())
}

func (h *HumanAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHuman(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func NewBaseAmount(v *big.Int) BaseAmount {
	if v == nil {
		return BaseAmount{v: new(big.Int)}
	}
	return BaseAmount{v: new(big.Int).Set(v)}
}

// ParseBase parses an integer string of base units.
func ParseBase(value string) (BaseAmount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return NewBaseAmount(nil), nil
	}
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return BaseAmount{}, fmt.Errorf("invalid base amount %q", value)
	}
	return BaseAmount{v: v}, nil
}

// Int returns a copy of the underlying integer.
func (b BaseAmount) Int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.v)
}

func (b BaseAmount) String() string {
	if b.v == nil {
		return "0"
	}
	return b.v.String()
}

func (b BaseAmount) Sign() int {
	if b.v == nil {
		return 0
	}
	return b.v.Sign()
}

func (b BaseAmount) Cmp(o BaseAmount) int { return b.Int().Cmp(o.Int()) }

func (b BaseAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BaseAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBase(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ToBase scales h by 10^decimals, truncating excess fractional digits.
func ToBase(h HumanAmount, decimals uint8) (BaseAmount, error) {
	if h.IsNegative() {
		return BaseAmount{}, ErrNegativeAmount
	}
	scaled := h.d.Shift(int32(decimals)).Truncate(0)
	return BaseAmount{v: scaled.BigInt()}, nil
}

// ToHuman scales b down by 10^decimals.
func ToHuman(b BaseAmount, decimals uint8) HumanAmount {
	return HumanAmount{d: decimal.NewFromBigInt(b.Int(), -int32(decimals))}
}

// ToWei converts a protocol-scaled value (fee fraction, rate, price, pool shares).
func ToWei(h HumanAmount) (BaseAmount, error) {
	return ToBase(h, ProtocolDecimals)
}

func FromWei(b BaseAmount) HumanAmount {
	return ToHuman(b, ProtocolDecimals)
}

// FromWeiInt is FromWei for a raw contract integer.
func FromWeiInt(v *big.Int) HumanAmount {
	return FromWei(NewBaseAmount(v))
}
