package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolPulse/internal/model"
)

// Store provides Postgres persistence for user profiles.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Profile returns one user's profile row, or nil when the user has
// never stored one.
func (s *Store) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	var p model.UserProfile
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, email, wallet_address, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&p.UserID, &p.Email, &p.WalletAddress, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertProfile inserts or updates a profile and returns the stored
// row. Empty email or wallet fields leave the existing values in place.
func (s *Store) UpsertProfile(ctx context.Context, userID, email, walletAddress string) (*model.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	var p model.UserProfile
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, email, wallet_address, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), user_profiles.email),
			wallet_address = COALESCE(NULLIF(EXCLUDED.wallet_address, ''), user_profiles.wallet_address),
			updated_at = now()
		RETURNING user_id, email, wallet_address, created_at, updated_at
	`, userID, email, walletAddress)
	if err := row.Scan(&p.UserID, &p.Email, &p.WalletAddress, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetWalletAddress binds a wallet to a user, creating the profile row
// if it does not exist yet.
func (s *Store) SetWalletAddress(ctx context.Context, userID, walletAddress string) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	if walletAddress == "" {
		return fmt.Errorf("wallet address required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, email, wallet_address, created_at, updated_at)
		VALUES ($1, '', $2, now(), now())
		ON CONFLICT (user_id)
		DO UPDATE SET wallet_address = EXCLUDED.wallet_address, updated_at = now()
	`, userID, walletAddress)
	return err
}
