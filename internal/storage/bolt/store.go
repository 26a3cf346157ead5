package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	bolt "go.etcd.io/bbolt"
)

var (
	decimalsBucket    = []byte("decimals")
	exchangeIDsBucket = []byte("exchange_ids")
)

// Store persists token decimals and resolved exchange ids in a bbolt file.
type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{decimalsBucket, exchangeIDsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bolt buckets: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDecimals implements units.DecimalsStore.
func (s *Store) GetDecimals(token common.Address) (uint8, bool) {
	var (
		decimals uint8
		found    bool
	)
	_ = s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(decimalsBucket).Get(token.Bytes())
		if len(value) == 1 {
			decimals, found = value[0], true
		}
		return nil
	})
	return decimals, found
}

func (s *Store) SetDecimals(token common.Address, decimals uint8) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(decimalsBucket).Put(token.Bytes(), []byte{decimals})
	})
}

func exchangeKey(exchange, baseToken, datatoken, owner common.Address) []byte {
	return []byte(strings.ToLower(strings.Join([]string{
		exchange.Hex(), baseToken.Hex(), datatoken.Hex(), owner.Hex(),
	}, "/")))
}

// GetExchangeID implements fixedrate.IDStore.
func (s *Store) GetExchangeID(exchange, baseToken, datatoken, owner common.Address) ([32]byte, bool) {
	var (
		id    [32]byte
		found bool
	)
	_ = s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(exchangeIDsBucket).Get(exchangeKey(exchange, baseToken, datatoken, owner))
		if len(value) == len(id) {
			copy(id[:], value)
			found = true
		}
		return nil
	})
	return id, found
}

func (s *Store) SetExchangeID(exchange, baseToken, datatoken, owner common.Address, id [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(exchangeIDsBucket).Put(exchangeKey(exchange, baseToken, datatoken, owner), id[:])
	})
}
