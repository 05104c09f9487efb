package model

import (
	"fmt"
	"strings"
	"time"
)

// PoolKind selects the fee rate and output formula used by the on-chain
// program. Values match the program's pool_type byte.
type PoolKind uint8

const (
	PoolKindStandard     PoolKind = 0
	PoolKindStable       PoolKind = 1
	PoolKindConcentrated PoolKind = 2
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindStandard:
		return "standard"
	case PoolKindStable:
		return "stable"
	case PoolKindConcentrated:
		return "concentrated"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParsePoolKind maps a configured kind name to its PoolKind value.
func ParsePoolKind(s string) (PoolKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return PoolKindStandard, nil
	case "stable":
		return PoolKindStable, nil
	case "concentrated":
		return PoolKindConcentrated, nil
	default:
		return 0, fmt.Errorf("unknown pool kind: %q", s)
	}
}

// PoolIdentity is the stable key for one configured pool. The (TokenA,
// TokenB) order is canonical: it is the order the pool was initialized
// with on chain, and address derivation depends on it.
type PoolIdentity struct {
	Name   string
	TokenA string
	TokenB string
	Kind   PoolKind
}

// PoolSnapshot is the cached authoritative state of one pool at the
// moment it was fetched. Snapshots are immutable; a new fetch produces a
// new snapshot. FeeRate is parts-per-100,000.
type PoolSnapshot struct {
	Pool          string    `json:"poolType"`
	TokenA        string    `json:"tokenA"`
	TokenB        string    `json:"tokenB"`
	LPMint        string    `json:"lpMint"`
	FeeRate       uint32    `json:"feeRate"`
	Kind          PoolKind  `json:"poolTypeNum"`
	ReserveA      uint64    `json:"vaultABalance"`
	ReserveB      uint64    `json:"vaultBBalance"`
	VaultA        string    `json:"vaultAAddress"`
	VaultB        string    `json:"vaultBAddress"`
	StateAddress  string    `json:"poolStateAddress"`
	VaultAMissing bool      `json:"vaultAMissing,omitempty"`
	VaultBMissing bool      `json:"vaultBMissing,omitempty"`
	CapturedAt    time.Time `json:"capturedAt"`
}
