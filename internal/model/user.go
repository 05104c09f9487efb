package model

import "time"

// UserProfile is one row of the user-profile store.
type UserProfile struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
