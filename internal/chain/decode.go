package chain

import (
	"encoding/binary"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"poolPulse/internal/model"
)

// On-chain pool state account layout: 8-byte discriminator, tokenA (32),
// tokenB (32), lpMint (32), feeRate (u32 LE), poolKind (u8), bump (u8).
const (
	poolAccountSize = 8 + 32 + 32 + 32 + 4 + 1 + 1

	tokenAOffset  = 8
	tokenBOffset  = 40
	lpMintOffset  = 72
	feeRateOffset = 104
	kindOffset    = 108
)

// SPL token account layout: mint (32), owner (32), amount (u64 LE), rest.
const (
	tokenAmountOffset = 64
	tokenAccountMin   = tokenAmountOffset + 8
)

type poolAccount struct {
	TokenA  common.PublicKey
	TokenB  common.PublicKey
	LPMint  common.PublicKey
	FeeRate uint32
	Kind    model.PoolKind
}

// decodePoolAccount parses a pool state account. Short or garbled data is
// a transient-class error: the account bytes came back, they just were
// not what the program writes.
func decodePoolAccount(data []byte) (poolAccount, error) {
	if len(data) < poolAccountSize {
		return poolAccount{}, fmt.Errorf("pool account: got %d bytes, want %d", len(data), poolAccountSize)
	}

	kind := data[kindOffset]
	if kind > uint8(model.PoolKindConcentrated) {
		return poolAccount{}, fmt.Errorf("pool account: invalid pool kind %d", kind)
	}

	return poolAccount{
		TokenA:  common.PublicKeyFromBytes(data[tokenAOffset : tokenAOffset+32]),
		TokenB:  common.PublicKeyFromBytes(data[tokenBOffset : tokenBOffset+32]),
		LPMint:  common.PublicKeyFromBytes(data[lpMintOffset : lpMintOffset+32]),
		FeeRate: binary.LittleEndian.Uint32(data[feeRateOffset : feeRateOffset+4]),
		Kind:    model.PoolKind(kind),
	}, nil
}

// decodeTokenAmount reads the balance out of a raw SPL token account.
func decodeTokenAmount(data []byte) (uint64, error) {
	if len(data) < tokenAccountMin {
		return 0, fmt.Errorf("token account: got %d bytes, want at least %d", len(data), tokenAccountMin)
	}
	return binary.LittleEndian.Uint64(data[tokenAmountOffset : tokenAmountOffset+8]), nil
}
