package units

import (
	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum/common"
)

// MemoryStore is an in-process LRU DecimalsStore.
type MemoryStore struct {
	cache gcache.Cache
}

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{cache: gcache.New(size).LRU().Build()}
}

func (s *MemoryStore) GetDecimals(token common.Address) (uint8, bool) {
	value, err := s.cache.Get(token)
	if err != nil {
		return 0, false
	}
	decimals, ok := value.(uint8)
	return decimals, ok
}

func (s *MemoryStore) SetDecimals(token common.Address, decimals uint8) error {
	return s.cache.Set(token, decimals)
}

// Purge drops every cached entry.
func (s *MemoryStore) Purge() {
	s.cache.Purge()
}
