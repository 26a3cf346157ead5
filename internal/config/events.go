package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EventsConfig holds configuration for the events command.
type EventsConfig struct {
	Config
	FromBlock         uint64
	ToBlock           uint64
	Confirmations     uint64
	Addresses         []string
	BatchSize         uint64
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	// Sink is "jsonl" or "kafka".
	Sink         string
	Out          string
	Errors       string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaErrors  string
}

// CheckpointPath returns the checkpoint file, or "" when checkpointing is off.
func (c EventsConfig) CheckpointPath() string {
	if !c.CheckpointEnabled {
		return ""
	}
	return c.Checkpoint
}

// LoadEvents merges .env, config file, environment variables, and flags into EventsConfig.
func LoadEvents(cfgFile string, flags *pflag.FlagSet) (EventsConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("batch-size", uint64(2000))
		v.SetDefault("confirmations", uint64(0))
		v.SetDefault("checkpoint", "./data/checkpoint.json")
		v.SetDefault("checkpoint-enabled", true)
		v.SetDefault("max-retries", 5)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
		v.SetDefault("sink", "jsonl")
		v.SetDefault("out", "./data/events.jsonl")
		v.SetDefault("errors", "./data/decode_errors.jsonl")
		v.SetDefault("kafka-topic", "liquidity-events")
	})
	if err != nil {
		return EventsConfig{}, err
	}

	return EventsConfig{
		Config:            baseConfig(v),
		FromBlock:         v.GetUint64("from"),
		ToBlock:           v.GetUint64("to"),
		Confirmations:     v.GetUint64("confirmations"),
		Addresses:         getStringSlice(v, "address"),
		BatchSize:         v.GetUint64("batch-size"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		Sink:              v.GetString("sink"),
		Out:               v.GetString("out"),
		Errors:            v.GetString("errors"),
		KafkaBrokers:      getStringSlice(v, "kafka-brokers"),
		KafkaTopic:        v.GetString("kafka-topic"),
		KafkaErrors:       v.GetString("kafka-errors-topic"),
	}, nil
}
