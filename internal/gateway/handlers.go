package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"poolPulse/internal/model"
	"poolPulse/internal/watchdog"
)

// handleMessage dispatches one inbound frame. Every failure is reported
// to the sending client only; broadcasts happen solely on success paths
// that changed shared state.
func (h *Hub) handleMessage(ctx context.Context, c *Client, raw []byte) {
	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("malformed frame", zap.Error(err))
		return
	}

	switch env.Event {
	case model.EventSwap, model.EventAddLiquidity, model.EventRemoveLiquidity:
		h.handleTransaction(ctx, c, env)
	case model.EventGetPools:
		c.sendEvent(model.EventPoolsUpdate, model.PoolsUpdate{Data: h.collectPools(ctx)})
	case model.EventGetStatus:
		c.sendEvent(model.EventStatusResult, h.watchdog.Status())
	case model.EventGetProfile:
		h.handleGetProfile(ctx, c, env)
	case model.EventUpdateProfile:
		h.handleUpdateProfile(ctx, c, env)
	default:
		h.logger.Warn("unknown event", zap.String("event", env.Event))
	}
}

// handleTransaction gates a write request against the upstream health,
// submits it, and refreshes exactly the affected pool on success. The
// down gate is checked before the lock gate so a dead upstream reports
// itself as offline, not merely unstable.
func (h *Hub) handleTransaction(ctx context.Context, c *Client, env model.Envelope) {
	status := h.watchdog.Status()
	if status.IsDown {
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   offlineMessage,
		})
		return
	}
	if status.IsTransactionsLocked {
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   unstableMessage,
		})
		return
	}

	var req model.TransactionRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   "invalid transaction request: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.SignedTx) == "" {
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   "signedTx is required",
		})
		return
	}

	rawTx, err := base64.StdEncoding.DecodeString(req.SignedTx)
	if err != nil {
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   "signedTx is not valid base64",
		})
		return
	}

	sig, err := h.submitter.SubmitTransaction(ctx, rawTx)
	if err != nil {
		h.logger.Warn("transaction submission failed",
			zap.String("event", env.Event),
			zap.String("pool", req.PoolType),
			zap.Error(err))
		c.sendEvent(model.EventTransactionResult, model.TransactionResult{
			Success: false,
			Error:   "transaction failed: " + err.Error(),
		})
		return
	}

	h.logger.Info("transaction submitted",
		zap.String("event", env.Event),
		zap.String("pool", req.PoolType),
		zap.String("signature", sig))
	c.sendEvent(model.EventTransactionResult, model.TransactionResult{
		Success:     true,
		TxSignature: sig,
		Message:     "Transaction submitted",
	})

	h.refreshAfterWrite(ctx, req.PoolType)
}

// refreshAfterWrite force-refreshes the pool a confirmed write touched
// and pushes the resulting snapshots out, so clients see post-trade
// reserves without waiting for the next polling round.
func (h *Hub) refreshAfterWrite(ctx context.Context, pool string) {
	if _, err := h.watchdog.ForceRefresh(ctx, pool); err != nil {
		if errors.Is(err, watchdog.ErrUnknownPool) {
			h.logger.Warn("write named an unconfigured pool", zap.String("pool", pool))
		} else {
			h.logger.Warn("post-write refresh failed",
				zap.String("pool", pool),
				zap.Error(err))
		}
	}
	h.broadcastPools(ctx)
}

func (h *Hub) handleGetProfile(ctx context.Context, c *Client, env model.Envelope) {
	if h.users == nil {
		c.sendEvent(model.EventProfileResult, model.ProfileResult{
			Success: false,
			Error:   "profile store is not configured",
		})
		return
	}

	var req model.ProfileRequest
	if err := json.Unmarshal(env.Data, &req); err != nil || req.UserID == "" {
		c.sendEvent(model.EventProfileResult, model.ProfileResult{
			Success: false,
			Error:   "userId is required",
		})
		return
	}

	profile, err := h.users.Profile(ctx, req.UserID)
	if err != nil {
		h.logger.Error("profile lookup failed",
			zap.String("user", req.UserID),
			zap.Error(err))
		c.sendEvent(model.EventProfileResult, model.ProfileResult{
			Success: false,
			Error:   "profile lookup failed",
		})
		return
	}
	if profile == nil {
		c.sendEvent(model.EventProfileResult, model.ProfileResult{
			Success: false,
			Error:   "profile not found",
		})
		return
	}
	c.sendEvent(model.EventProfileResult, model.ProfileResult{Success: true, Profile: profile})
}

func (h *Hub) handleUpdateProfile(ctx context.Context, c *Client, env model.Envelope) {
	if h.users == nil {
		c.sendEvent(model.EventProfileUpdated, model.ProfileResult{
			Success: false,
			Error:   "profile store is not configured",
		})
		return
	}

	var req model.ProfileUpdateRequest
	if err := json.Unmarshal(env.Data, &req); err != nil || req.UserID == "" {
		c.sendEvent(model.EventProfileUpdated, model.ProfileResult{
			Success: false,
			Error:   "userId is required",
		})
		return
	}

	profile, err := h.users.UpsertProfile(ctx, req.UserID, req.Email, req.WalletAddress)
	if err != nil {
		h.logger.Error("profile update failed",
			zap.String("user", req.UserID),
			zap.Error(err))
		c.sendEvent(model.EventProfileUpdated, model.ProfileResult{
			Success: false,
			Error:   "profile update failed",
		})
		return
	}
	c.sendEvent(model.EventProfileUpdated, model.ProfileResult{Success: true, Profile: profile})
}
