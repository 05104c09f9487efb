package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"go.uber.org/zap"

	"poolPulse/internal/model"
)

// AccountReader is the RPC surface the Reader needs.
type AccountReader interface {
	AccountInfo(ctx context.Context, address string) ([]byte, bool, error)
}

// Reader fetches one pool's authoritative state and turns it into a
// snapshot. Three outcomes are kept apart on purpose: a snapshot, a nil
// snapshot with nil error (pool not initialized yet, expected absence),
// and an error (transient upstream trouble). Callers count only the last
// kind against upstream health.
type Reader struct {
	client    AccountReader
	programID common.PublicKey
	logger    *zap.Logger
}

// NewReader builds a Reader for the given program.
func NewReader(client AccountReader, programID common.PublicKey, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		client:    client,
		programID: programID,
		logger:    logger,
	}
}

// FetchPoolState reads the pool state account and both vault balances.
// A missing vault yields a zero reserve with the matching VaultMissing
// flag set; display callers may use the zero, strict callers must check
// the flag.
func (r *Reader) FetchPoolState(ctx context.Context, pool model.PoolIdentity) (*model.PoolSnapshot, error) {
	tokenA, err := ParsePublicKey(pool.TokenA)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.Name, err)
	}
	tokenB, err := ParsePublicKey(pool.TokenB)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.Name, err)
	}

	addrs, err := DeriveAddresses(r.programID, tokenA, tokenB)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.Name, err)
	}

	stateAddr := addrs.State.ToBase58()
	data, exists, err := r.client.AccountInfo(ctx, stateAddr)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.Name, err)
	}
	if !exists {
		r.logger.Debug("pool state account not found",
			zap.String("pool", pool.Name),
			zap.String("address", stateAddr))
		return nil, nil
	}

	account, err := decodePoolAccount(data)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.Name, err)
	}

	snap := &model.PoolSnapshot{
		Pool:         pool.Name,
		TokenA:       account.TokenA.ToBase58(),
		TokenB:       account.TokenB.ToBase58(),
		LPMint:       account.LPMint.ToBase58(),
		FeeRate:      account.FeeRate,
		Kind:         account.Kind,
		VaultA:       addrs.VaultA.ToBase58(),
		VaultB:       addrs.VaultB.ToBase58(),
		StateAddress: stateAddr,
		CapturedAt:   time.Now().UTC(),
	}

	snap.ReserveA, snap.VaultAMissing = r.vaultBalance(ctx, pool.Name, snap.VaultA)
	snap.ReserveB, snap.VaultBMissing = r.vaultBalance(ctx, pool.Name, snap.VaultB)

	return snap, nil
}

// vaultBalance reads one reserve vault. Partial data beats no data for
// display, so a missing or unreadable vault reports zero with the
// missing flag set rather than failing the whole read.
func (r *Reader) vaultBalance(ctx context.Context, pool, address string) (uint64, bool) {
	data, exists, err := r.client.AccountInfo(ctx, address)
	if err != nil {
		r.logger.Warn("vault read failed",
			zap.String("pool", pool),
			zap.String("vault", address),
			zap.Error(err))
		return 0, true
	}
	if !exists {
		r.logger.Warn("vault account not found",
			zap.String("pool", pool),
			zap.String("vault", address))
		return 0, true
	}

	amount, err := decodeTokenAmount(data)
	if err != nil {
		r.logger.Warn("vault decode failed",
			zap.String("pool", pool),
			zap.String("vault", address),
			zap.Error(err))
		return 0, true
	}
	return amount, false
}
