package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
)

// Client wraps the Solana RPC client and applies a per-call timeout so a
// hung upstream bounds every read.
type Client struct {
	rpc     *client.Client
	timeout time.Duration
}

// NewClient creates a chain client for the RPC endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		rpc:     client.NewClient(endpoint),
		timeout: timeout,
	}
}

// AccountInfo fetches one account's raw data. The second return value is
// false when the account does not exist; that is an expected state, not
// an error.
func (c *Client) AccountInfo(ctx context.Context, address string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, false, fmt.Errorf("get account info %s: %w", address, err)
	}
	if len(info.Data) == 0 && info.Lamports == 0 {
		return nil, false, nil
	}
	return info.Data, true, nil
}

// SubmitTransaction sends a client-signed, serialized transaction and
// returns its signature. Signing happens upstream of the relay; only raw
// bytes pass through here.
func (c *Client) SubmitTransaction(ctx context.Context, rawTx []byte) (string, error) {
	tx, err := types.TransactionDeserialize(rawTx)
	if err != nil {
		return "", fmt.Errorf("deserialize transaction: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}
