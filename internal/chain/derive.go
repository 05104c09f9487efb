package chain

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// Derivation scheme v1. The seed strings are fixed by the on-chain
// program; any divergence here silently retargets every subsequent read
// at the wrong accounts.
const (
	seedPool          = "pool"
	seedPoolAuthority = "pool_authority"
	seedLPMint        = "lp_mint"
	seedVaultA        = "vault_a"
	seedVaultB        = "vault_b"
)

// PoolAddresses holds every derived account address for one pool.
type PoolAddresses struct {
	State     common.PublicKey
	Authority common.PublicKey
	LPMint    common.PublicKey
	VaultA    common.PublicKey
	VaultB    common.PublicKey
}

// DeriveAddresses computes the pool's program-derived addresses from the
// two token mints, in their canonical configured order.
func DeriveAddresses(programID, tokenA, tokenB common.PublicKey) (PoolAddresses, error) {
	var (
		addrs PoolAddresses
		err   error
	)
	for _, d := range []struct {
		seed string
		out  *common.PublicKey
	}{
		{seedPool, &addrs.State},
		{seedPoolAuthority, &addrs.Authority},
		{seedLPMint, &addrs.LPMint},
		{seedVaultA, &addrs.VaultA},
		{seedVaultB, &addrs.VaultB},
	} {
		*d.out, _, err = common.FindProgramAddress(
			[][]byte{[]byte(d.seed), tokenA.Bytes(), tokenB.Bytes()},
			programID,
		)
		if err != nil {
			return PoolAddresses{}, fmt.Errorf("derive %s address: %w", d.seed, err)
		}
	}
	return addrs, nil
}

// ParsePublicKey validates a base58 account address and returns it as a
// public key. Rejecting malformed keys here keeps a misconfigured mint
// from turning into silent wrong-account reads later.
func ParsePublicKey(s string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("decode public key %q: %w", s, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("public key %q: got %d bytes, want %d", s, len(raw), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(raw), nil
}
