package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"poolPulse/internal/model"
)

const (
	mintA = "11111111111111111111111111111111"
	mintB = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.BroadcastInterval != 5*time.Second {
		t.Fatalf("BroadcastInterval = %v, want 5s", cfg.BroadcastInterval)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Fatalf("CacheTTL = %v, want 5s", cfg.CacheTTL)
	}
	if cfg.MaxFailures != 3 || cfg.MaxDowntime != 20 {
		t.Fatalf("thresholds = (%d, %d), want (3, 20)", cfg.MaxFailures, cfg.MaxDowntime)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("Listen = %q, want :8080", cfg.Listen)
	}
}

func TestLoadFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.String("program-id", "", "")
	flags.StringSlice("pool", nil, "")
	flags.Duration("poll-interval", 3*time.Second, "")

	args := []string{
		"--rpc", "https://api.devnet.solana.com",
		"--program-id", mintB,
		"--pool", "NTD-USD:" + mintA + ":" + mintB + ":stable",
		"--pool", "USD-YEN:" + mintB + ":" + mintA + ":standard",
		"--poll-interval", "1s",
	}
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPCURL != "https://api.devnet.solana.com" {
		t.Fatalf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if len(cfg.Pools) != 2 {
		t.Fatalf("len(Pools) = %d, want 2", len(cfg.Pools))
	}
	if cfg.Pools[0].Name != "NTD-USD" || cfg.Pools[0].Kind != "stable" {
		t.Fatalf("pool[0] = %+v", cfg.Pools[0])
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestMalformedPoolSpec(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringSlice("pool", nil, "")
	if err := flags.Parse([]string{"--pool", "NTD-USD:only-two-parts"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := Load("", flags); err == nil {
		t.Fatal("expected error for malformed pool spec")
	}
}

func TestIdentities(t *testing.T) {
	cfg := Config{Pools: []PoolConfig{
		{Name: "NTD-USD", TokenA: mintA, TokenB: mintB, Kind: "stable"},
	}}
	pools, err := cfg.Identities()
	if err != nil {
		t.Fatalf("Identities: %v", err)
	}
	if pools[0].Kind != model.PoolKindStable {
		t.Fatalf("Kind = %v, want stable", pools[0].Kind)
	}
}

func TestIdentitiesRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		pool PoolConfig
		want string
	}{
		{"bad kind", PoolConfig{Name: "P", TokenA: mintA, TokenB: mintB, Kind: "quantum"}, "unknown pool kind"},
		{"bad base58", PoolConfig{Name: "P", TokenA: "0OIl", TokenB: mintB, Kind: "stable"}, "invalid base58"},
		{"short mint", PoolConfig{Name: "P", TokenA: "abc", TokenB: mintB, Kind: "stable"}, "want 32"},
		{"missing name", PoolConfig{TokenA: mintA, TokenB: mintB, Kind: "stable"}, "name is required"},
	}
	for _, tc := range cases {
		cfg := Config{Pools: []PoolConfig{tc.pool}}
		_, err := cfg.Identities()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateThresholds(t *testing.T) {
	cfg := Config{
		RPCURL:      "https://api.devnet.solana.com",
		ProgramID:   mintB,
		Pools:       []PoolConfig{{Name: "P", TokenA: mintA, TokenB: mintB, Kind: "stable"}},
		MaxFailures: 20,
		MaxDowntime: 3,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max-downtime <= max-failures")
	}
}
