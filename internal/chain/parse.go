package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseAddress validates a single hex address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %q", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAddresses converts string addresses, skipping blanks.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		address, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// ParseBytes32 converts a 0x-prefixed 32-byte hex string, such as an exchange id.
func ParseBytes32(input string) ([32]byte, error) {
	var out [32]byte
	data, err := hexutil.Decode(strings.TrimSpace(input))
	if err != nil {
		return out, fmt.Errorf("invalid bytes32 %q: %w", input, err)
	}
	if len(data) != 32 {
		return out, fmt.Errorf("invalid bytes32 length %d: %q", len(data), input)
	}
	copy(out[:], data)
	return out, nil
}
