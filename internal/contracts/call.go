package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"liquidityLayer/internal/chain"
)

// Call performs a read-only contract call and returns the unpacked outputs.
func Call(ctx context.Context, backend chain.Backend, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if backend == nil {
		return nil, fmt.Errorf("chain backend is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// CallBigInt calls a method with a single integer output.
func CallBigInt(ctx context.Context, backend chain.Backend, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	values, err := Call(ctx, backend, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return AsBigInt(values[0])
}

// CallAddress calls a method with a single address output.
func CallAddress(ctx context.Context, backend chain.Backend, to common.Address, parsed abi.ABI, method string, args ...interface{}) (common.Address, error) {
	values, err := Call(ctx, backend, to, parsed, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(values) == 0 {
		return common.Address{}, fmt.Errorf("%s returned no values", method)
	}
	return AsAddress(values[0])
}

// CallBool calls a method with a single bool output.
func CallBool(ctx context.Context, backend chain.Backend, to common.Address, parsed abi.ABI, method string, args ...interface{}) (bool, error) {
	values, err := Call(ctx, backend, to, parsed, method, args...)
	if err != nil {
		return false, err
	}
	if len(values) == 0 {
		return false, fmt.Errorf("%s returned no values", method)
	}
	return AsBool(values[0])
}

func AsAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func AsAddresses(value interface{}) ([]common.Address, error) {
	switch v := value.(type) {
	case []common.Address:
		out := make([]common.Address, len(v))
		copy(out, v)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported address list type %T", value)
	}
}

func AsBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func AsBigInts(value interface{}) ([]*big.Int, error) {
	switch v := value.(type) {
	case []*big.Int:
		out := make([]*big.Int, 0, len(v))
		for _, item := range v {
			out = append(out, new(big.Int).Set(item))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported int list type %T", value)
	}
}

func AsUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func AsBool(value interface{}) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
	return v, nil
}

func AsBytes32(value interface{}) ([32]byte, error) {
	switch v := value.(type) {
	case [32]byte:
		return v, nil
	case common.Hash:
		return v, nil
	default:
		return [32]byte{}, fmt.Errorf("unsupported bytes32 type %T", value)
	}
}

func AsBytes32s(value interface{}) ([][32]byte, error) {
	v, ok := value.([][32]byte)
	if !ok {
		return nil, fmt.Errorf("unsupported bytes32 list type %T", value)
	}
	out := make([][32]byte, len(v))
	copy(out, v)
	return out, nil
}
