package chain

import (
	"encoding/binary"
	"testing"

	"poolPulse/internal/model"
)

func buildPoolAccount(feeRate uint32, kind byte) []byte {
	data := make([]byte, poolAccountSize)
	copy(data[tokenAOffset:], testKey(2).Bytes())
	copy(data[tokenBOffset:], testKey(3).Bytes())
	copy(data[lpMintOffset:], testKey(4).Bytes())
	binary.LittleEndian.PutUint32(data[feeRateOffset:], feeRate)
	data[kindOffset] = kind
	return data
}

func TestDecodePoolAccount(t *testing.T) {
	account, err := decodePoolAccount(buildPoolAccount(300, 1))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if account.TokenA != testKey(2) || account.TokenB != testKey(3) || account.LPMint != testKey(4) {
		t.Fatalf("key mismatch: %+v", account)
	}
	if account.FeeRate != 300 {
		t.Fatalf("fee rate = %d, want 300", account.FeeRate)
	}
	if account.Kind != model.PoolKindStable {
		t.Fatalf("kind = %v, want stable", account.Kind)
	}
}

func TestDecodePoolAccountShortData(t *testing.T) {
	if _, err := decodePoolAccount(make([]byte, poolAccountSize-1)); err == nil {
		t.Fatalf("expected error for short account data")
	}
}

func TestDecodePoolAccountInvalidKind(t *testing.T) {
	if _, err := decodePoolAccount(buildPoolAccount(300, 9)); err == nil {
		t.Fatalf("expected error for out-of-range pool kind")
	}
}

func TestDecodeTokenAmount(t *testing.T) {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[tokenAmountOffset:], 12_345_678)

	amount, err := decodeTokenAmount(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if amount != 12_345_678 {
		t.Fatalf("amount = %d, want 12345678", amount)
	}

	if _, err := decodeTokenAmount(make([]byte, 10)); err == nil {
		t.Fatalf("expected error for short token account")
	}
}
