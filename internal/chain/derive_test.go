package chain

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
)

func testKey(b byte) common.PublicKey {
	raw := make([]byte, common.PublicKeyLength)
	for i := range raw {
		raw[i] = b
	}
	return common.PublicKeyFromBytes(raw)
}

func TestDeriveAddressesDeterministic(t *testing.T) {
	program := testKey(1)
	tokenA := testKey(2)
	tokenB := testKey(3)

	first, err := DeriveAddresses(program, tokenA, tokenB)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	second, err := DeriveAddresses(program, tokenA, tokenB)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	if first != second {
		t.Fatalf("derivation is not deterministic: %+v != %+v", first, second)
	}
}

func TestDeriveAddressesDistinctPerSeed(t *testing.T) {
	addrs, err := DeriveAddresses(testKey(1), testKey(2), testKey(3))
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	seen := map[string]string{}
	for name, key := range map[string]common.PublicKey{
		"state":     addrs.State,
		"authority": addrs.Authority,
		"lp_mint":   addrs.LPMint,
		"vault_a":   addrs.VaultA,
		"vault_b":   addrs.VaultB,
	} {
		b58 := key.ToBase58()
		if prev, ok := seen[b58]; ok {
			t.Fatalf("%s and %s derived the same address %s", name, prev, b58)
		}
		seen[b58] = name
	}
}

func TestDeriveAddressesOrderSensitive(t *testing.T) {
	program := testKey(1)
	tokenA := testKey(2)
	tokenB := testKey(3)

	forward, err := DeriveAddresses(program, tokenA, tokenB)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	reversed, err := DeriveAddresses(program, tokenB, tokenA)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	if forward.State == reversed.State {
		t.Fatalf("token order must change the derived state address")
	}
}

func TestParsePublicKey(t *testing.T) {
	key := testKey(7)
	parsed, err := ParsePublicKey(key.ToBase58())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != key {
		t.Fatalf("round trip mismatch: %s != %s", parsed.ToBase58(), key.ToBase58())
	}

	if _, err := ParsePublicKey("not-base58-0OIl"); err == nil {
		t.Fatalf("expected error for invalid base58")
	}
	if _, err := ParsePublicKey("abc"); err == nil {
		t.Fatalf("expected error for short key")
	}
}
