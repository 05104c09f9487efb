package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"poolPulse/internal/cache"
	"poolPulse/internal/metrics"
	"poolPulse/internal/model"
)

const (
	defaultBroadcastInterval = 5 * time.Second
	defaultSendBuffer        = 32
)

// User-facing copy for the two degradation gates. The down message is
// also what write requests get while the upstream is offline.
const (
	offlineMessage  = "Devnet is currently offline. Please try again in 2 hours."
	unstableMessage = "Devnet is unstable. Transactions are temporarily disabled."
)

// Watchdog is the slice of the poller the gateway needs.
type Watchdog interface {
	ForceRefresh(ctx context.Context, name string) (*model.PoolSnapshot, error)
	Status() model.HealthStatus
	Pools() []model.PoolIdentity
}

// Submitter sends a signed transaction to the upstream chain.
type Submitter interface {
	SubmitTransaction(ctx context.Context, rawTx []byte) (string, error)
}

// UserStore persists user profiles. A nil store disables the profile
// events without affecting the rest of the gateway.
type UserStore interface {
	Profile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, userID, email, walletAddress string) (*model.UserProfile, error)
}

type Config struct {
	BroadcastInterval time.Duration
	SendBuffer        int
}

// Hub owns the set of connected clients, fans broadcasts out to them
// and dispatches their inbound events.
type Hub struct {
	cfg       Config
	watchdog  Watchdog
	poolCache *cache.PoolCache
	submitter Submitter
	users     UserStore
	metrics   *metrics.Metrics
	logger    *zap.Logger
	upgrader  websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(cfg Config, w Watchdog, poolCache *cache.PoolCache, submitter Submitter, users UserStore, m *metrics.Metrics, logger *zap.Logger) *Hub {
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = defaultBroadcastInterval
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		cfg:       cfg,
		watchdog:  w,
		poolCache: poolCache,
		submitter: submitter,
		users:     users,
		metrics:   m,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeHTTP upgrades the request and runs the connection's pumps until
// it drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("remote", r.RemoteAddr),
			zap.Error(err))
		return
	}

	c := newClient(h, conn)
	h.register(c)
	go c.writePump()
	c.readPump(r.Context())
}

// Run drives the periodic broadcast loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("gateway broadcast loop stopped")
			return
		case <-ticker.C:
			h.broadcastTick(ctx)
		}
	}
}

// broadcastTick emits the messages due for one interval. While the
// upstream is down only the status message goes out; a locked upstream
// still gets pool snapshots alongside the warning.
func (h *Hub) broadcastTick(ctx context.Context) {
	status := h.watchdog.Status()

	if status.IsDown {
		h.broadcastStatus(status)
		return
	}

	h.broadcastPools(ctx)
	if status.IsTransactionsLocked {
		h.broadcastStatus(status)
	}
}

func (h *Hub) broadcastStatus(status model.HealthStatus) {
	h.broadcast(model.EventDevnetStatus, model.DevnetStatus{
		Status:       status.UpstreamStatus(),
		Message:      statusMessage(status),
		FailureCount: status.FailureCount,
	})
	h.metrics.IncBroadcast(model.EventDevnetStatus)
}

func (h *Hub) broadcastPools(ctx context.Context) {
	snaps := h.collectPools(ctx)
	h.broadcast(model.EventPoolsUpdate, model.PoolsUpdate{Data: snaps})
	h.metrics.IncBroadcast(model.EventPoolsUpdate)
}

// collectPools prefers the aggregate cache entry and falls back to the
// per-pool entries when the aggregate has expired between rounds.
func (h *Hub) collectPools(context.Context) map[string]model.PoolSnapshot {
	if snaps, ok := h.poolCache.AllPools(); ok {
		return snaps
	}

	snaps := make(map[string]model.PoolSnapshot)
	for _, pool := range h.watchdog.Pools() {
		if snap, ok := h.poolCache.Pool(pool.Name); ok {
			snaps[pool.Name] = snap
		}
	}
	return snaps
}

func statusMessage(status model.HealthStatus) string {
	switch {
	case status.IsDown:
		return offlineMessage
	case status.IsTransactionsLocked:
		return unstableMessage
	default:
		return ""
	}
}

// broadcast marshals once and hands the frame to every connected
// client. Slow clients drop frames rather than stalling the loop.
func (h *Hub) broadcast(event string, data any) {
	frame, err := encodeEnvelope(event, data)
	if err != nil {
		h.logger.Error("broadcast encode failed",
			zap.String("event", event),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(frame)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetConnectedClients(n)
	h.logger.Info("client connected", zap.Int("clients", n))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	h.metrics.SetConnectedClients(n)
	h.logger.Info("client disconnected", zap.Int("clients", n))
}

func encodeEnvelope(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.Envelope{Event: event, Data: payload})
}
