// Package monitoring pushes live dashboard snapshots to connected clients
// over WebSocket.
package monitoring

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"

	"github.com/gorilla/websocket"
)

// Snapshot is one dashboard frame
type Snapshot struct {
	Stats         *models.DashboardStats `json:"stats"`
	Notifications []models.Notification  `json:"notifications"`
	Timestamp     time.Time              `json:"timestamp"`
}

// StatsSource and NotificationSource are satisfied by the stats and
// notification services.
type StatsSource interface {
	Dashboard(ctx context.Context, actor policy.Actor) (*models.DashboardStats, error)
}

type NotificationSource interface {
	List(ctx context.Context, actor policy.Actor) ([]models.Notification, error)
}

type LiveFeed struct {
	stats    StatsSource
	notes    NotificationSource
	interval time.Duration
	now      func() time.Time

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	trigger    chan struct{}
}

var upgrader = websocket.Upgrader{
	// origin is enforced by the CORS layer and the bearer token
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewLiveFeed(stats StatsSource, notes NotificationSource, interval time.Duration) *LiveFeed {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LiveFeed{
		stats:    stats,
		notes:    notes,
		interval: interval,
		now:      time.Now,
		clients:  make(map[*websocket.Conn]bool),
		trigger:  make(chan struct{}, 1),
	}
}

// Collect builds a snapshot as the system actor
func (f *LiveFeed) Collect(ctx context.Context) (*Snapshot, error) {
	stats, err := f.stats.Dashboard(ctx, policy.System)
	if err != nil {
		return nil, err
	}
	notes, err := f.notes.List(ctx, policy.System)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Stats: stats, Notifications: notes, Timestamp: f.now()}, nil
}

// Notify asks for an immediate push, coalescing bursts of mutations
func (f *LiveFeed) Notify() {
	select {
	case f.trigger <- struct{}{}:
	default:
	}
}

// Run pushes a snapshot on every tick or Notify until ctx is done
func (f *LiveFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case <-ticker.C:
		case <-f.trigger:
		}
		if f.ClientCount() == 0 {
			continue
		}
		snap, err := f.Collect(ctx)
		if err != nil {
			log.Printf("[LiveFeed] collect failed: %v", err)
			continue
		}
		f.broadcast(snap)
	}
}

func (f *LiveFeed) broadcast(snap *Snapshot) {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	for client := range f.clients {
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(snap); err != nil {
			client.Close()
			delete(f.clients, client)
		}
	}
}

func (f *LiveFeed) closeAll() {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	for client := range f.clients {
		client.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		client.Close()
		delete(f.clients, client)
	}
}

func (f *LiveFeed) ClientCount() int {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	return len(f.clients)
}

// HandleWebSocket upgrades an authenticated request and sends the current
// snapshot right away. The connection is dropped when the client goes away.
func (f *LiveFeed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[LiveFeed] WebSocket upgrade error:", err)
		return
	}

	if snap, err := f.Collect(r.Context()); err == nil {
		conn.WriteJSON(snap)
	}

	f.clientsMux.Lock()
	f.clients[conn] = true
	f.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.clientsMux.Lock()
			if f.clients[conn] {
				delete(f.clients, conn)
				conn.Close()
			}
			f.clientsMux.Unlock()
			return
		}
	}
}
