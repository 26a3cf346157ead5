package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "LIQUIDITY"

// Config holds the settings every command needs to reach the chain.
type Config struct {
	RPCURL           string
	PrivateKey       string
	GasLimit         uint64
	GasFeeMultiplier float64
	ReceiptTimeout   time.Duration
	// ABIOverrides maps a contract kind to an ABI JSON file.
	ABIOverrides  map[string]string
	DecimalsCache string
	LogLevel      string
}

// Load merges .env, config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {})
	if err != nil {
		return Config{}, err
	}
	return baseConfig(v), nil
}

func baseConfig(v *viper.Viper) Config {
	return Config{
		RPCURL:           v.GetString("rpc"),
		PrivateKey:       v.GetString("private-key"),
		GasLimit:         v.GetUint64("gas-limit"),
		GasFeeMultiplier: v.GetFloat64("gas-fee-multiplier"),
		ReceiptTimeout:   v.GetDuration("receipt-timeout"),
		ABIOverrides:     getStringMap(v, "abi-override"),
		DecimalsCache:    v.GetString("decimals-cache"),
		LogLevel:         v.GetString("log-level"),
	}
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	// A missing .env file is fine; variables may come from the process.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("gas-limit", uint64(1_000_000))
	v.SetDefault("gas-fee-multiplier", 1.0)
	v.SetDefault("receipt-timeout", 5*time.Minute)
	v.SetDefault("log-level", "info")
	defaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, item := range typed {
			out[k] = fmt.Sprintf("%v", item)
		}
		return out
	case []string:
		return parsePairs(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return parsePairs(items)
	case string:
		return parsePairs(strings.Split(typed, ","))
	default:
		return map[string]string{}
	}
}

// parsePairs reads kind=path entries, skipping malformed ones.
func parsePairs(pairs []string) map[string]string {
	out := make(map[string]string)
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
