package model

import "encoding/json"

// Gateway event names. Inbound events come from clients, outbound events
// are emitted by the server; both travel inside an Envelope.
const (
	EventSwap            = "swap"
	EventAddLiquidity    = "add_liquidity"
	EventRemoveLiquidity = "remove_liquidity"
	EventGetPools        = "get_pools"
	EventGetStatus       = "get_status"
	EventGetProfile      = "get_profile"
	EventUpdateProfile   = "update_profile"

	EventPoolsUpdate       = "pools_update"
	EventDevnetStatus      = "devnet_status"
	EventTransactionResult = "transaction_result"
	EventStatusResult      = "status_result"
	EventProfileResult     = "profile_result"
	EventProfileUpdated    = "profile_updated"
)

// Envelope frames every gateway message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PoolsUpdate carries every cached pool snapshot, keyed by pool name.
type PoolsUpdate struct {
	Data map[string]PoolSnapshot `json:"data"`
}

// DevnetStatus is broadcast while the upstream is degraded.
type DevnetStatus struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	FailureCount int    `json:"failureCount"`
}

// TransactionRequest is the payload of swap, add_liquidity and
// remove_liquidity events. The transaction is built and signed by the
// client; the gateway only gates and submits it.
type TransactionRequest struct {
	PoolType string `json:"poolType"`
	SignedTx string `json:"signedTx"`
}

// TransactionResult is the per-request reply to a write operation.
type TransactionResult struct {
	Success     bool   `json:"success"`
	TxSignature string `json:"txSignature,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ProfileRequest asks for one user's profile row.
type ProfileRequest struct {
	UserID string `json:"userId"`
}

// ProfileUpdateRequest carries profile fields to change.
type ProfileUpdateRequest struct {
	UserID        string `json:"userId"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// ProfileResult is the reply to get_profile and update_profile.
type ProfileResult struct {
	Success bool         `json:"success"`
	Profile *UserProfile `json:"profile,omitempty"`
	Error   string       `json:"error,omitempty"`
}
