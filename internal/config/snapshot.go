package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SnapshotConfig holds configuration for the snapshot command.
type SnapshotConfig struct {
	Config
	PGDSN      string
	Pools      []string
	Exchanges  []string
	Staking    string
	Datatokens []string
	BatchSize  int
}

// LoadSnapshot merges .env, config file, environment variables, and flags into SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("batch-size", 500)
	})
	if err != nil {
		return SnapshotConfig{}, err
	}

	return SnapshotConfig{
		Config:     baseConfig(v),
		PGDSN:      v.GetString("pg-dsn"),
		Pools:      getStringSlice(v, "pool"),
		Exchanges:  getStringSlice(v, "exchange"),
		Staking:    v.GetString("staking"),
		Datatokens: getStringSlice(v, "datatoken"),
		BatchSize:  v.GetInt("batch-size"),
	}, nil
}
