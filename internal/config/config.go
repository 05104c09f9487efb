package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"poolPulse/internal/model"
)

// PoolConfig is one configured pool before validation. The token order
// is canonical: on-chain address derivation depends on it.
type PoolConfig struct {
	Name   string `mapstructure:"name"`
	TokenA string `mapstructure:"token-a"`
	TokenB string `mapstructure:"token-b"`
	Kind   string `mapstructure:"kind"`
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL            string
	ProgramID         string
	Pools             []PoolConfig
	PollInterval      time.Duration
	BroadcastInterval time.Duration
	FetchTimeout      time.Duration
	CacheTTL          time.Duration
	MaxFailures       int
	MaxDowntime       int
	Listen            string
	PGDSN             string
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("poll-interval", 3*time.Second)
	v.SetDefault("broadcast-interval", 5*time.Second)
	v.SetDefault("fetch-timeout", 2*time.Second)
	v.SetDefault("cache-ttl", 5*time.Second)
	v.SetDefault("max-failures", 3)
	v.SetDefault("max-downtime", 20)
	v.SetDefault("listen", ":8080")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	pools, err := getPools(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:            v.GetString("rpc"),
		ProgramID:         v.GetString("program-id"),
		Pools:             pools,
		PollInterval:      v.GetDuration("poll-interval"),
		BroadcastInterval: v.GetDuration("broadcast-interval"),
		FetchTimeout:      v.GetDuration("fetch-timeout"),
		CacheTTL:          v.GetDuration("cache-ttl"),
		MaxFailures:       v.GetInt("max-failures"),
		MaxDowntime:       v.GetInt("max-downtime"),
		Listen:            v.GetString("listen"),
		PGDSN:             v.GetString("pg-dsn"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the fields every run needs.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.ProgramID == "" {
		return fmt.Errorf("program id is required")
	}
	if len(c.Pools) == 0 {
		return fmt.Errorf("at least one pool is required")
	}
	if c.MaxFailures <= 0 {
		return fmt.Errorf("max-failures must be positive")
	}
	if c.MaxDowntime <= c.MaxFailures {
		return fmt.Errorf("max-downtime (%d) must exceed max-failures (%d)", c.MaxDowntime, c.MaxFailures)
	}
	return nil
}

// Identities validates the configured pools and converts them to their
// typed form.
func (c Config) Identities() ([]model.PoolIdentity, error) {
	pools := make([]model.PoolIdentity, 0, len(c.Pools))
	for _, p := range c.Pools {
		if p.Name == "" {
			return nil, fmt.Errorf("pool name is required")
		}
		kind, err := model.ParsePoolKind(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", p.Name, err)
		}
		if err := validateMint(p.TokenA); err != nil {
			return nil, fmt.Errorf("pool %s token-a: %w", p.Name, err)
		}
		if err := validateMint(p.TokenB); err != nil {
			return nil, fmt.Errorf("pool %s token-b: %w", p.Name, err)
		}
		pools = append(pools, model.PoolIdentity{
			Name:   p.Name,
			TokenA: p.TokenA,
			TokenB: p.TokenB,
			Kind:   kind,
		})
	}
	return pools, nil
}

func validateMint(addr string) error {
	if addr == "" {
		return fmt.Errorf("mint address is required")
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("decoded to %d bytes, want 32", len(raw))
	}
	return nil
}

// getPools accepts both the flag form ("NAME:tokenA:tokenB:kind",
// repeatable) and the config-file form (a list of maps).
func getPools(v *viper.Viper) ([]PoolConfig, error) {
	if !v.IsSet("pool") {
		return nil, nil
	}

	val := v.Get("pool")
	switch typed := val.(type) {
	case []string:
		return parsePoolSpecs(typed)
	case string:
		return parsePoolSpecs([]string{typed})
	case []interface{}:
		return decodePoolMaps(v)
	default:
		return nil, fmt.Errorf("unsupported pool config type %T", val)
	}
}

func parsePoolSpecs(specs []string) ([]PoolConfig, error) {
	pools := make([]PoolConfig, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		parts := strings.Split(spec, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("pool spec %q: want NAME:TOKEN_A:TOKEN_B:KIND", spec)
		}
		pools = append(pools, PoolConfig{
			Name:   strings.TrimSpace(parts[0]),
			TokenA: strings.TrimSpace(parts[1]),
			TokenB: strings.TrimSpace(parts[2]),
			Kind:   strings.TrimSpace(parts[3]),
		})
	}
	return pools, nil
}

func decodePoolMaps(v *viper.Viper) ([]PoolConfig, error) {
	var pools []PoolConfig
	if err := v.UnmarshalKey("pool", &pools); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	return pools, nil
}
