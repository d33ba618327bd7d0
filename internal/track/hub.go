// Package track serves the live tracking feed: citizens watching a
// tracking page hold a WebSocket and receive status changes as they
// are published on Redis by the ingestion service.
package track

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatusEvent is one status change on the feed.
type StatusEvent struct {
	TrackingID string `json:"tracking_id"`
	Status     string `json:"status"`
}

const statusChannelPrefix = "reports:status:"

// Hub fans status events out to the clients watching each tracking id.
type Hub struct {
	Redis *redis.Client
	Log   *zap.Logger

	RegisterCh   chan *Client
	UnregisterCh chan *Client

	watchers map[string]map[*Client]bool
	events   chan StatusEvent
}

func NewHub(rdb *redis.Client, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Redis:        rdb,
		Log:          log,
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		watchers:     make(map[string]map[*Client]bool),
		events:       make(chan StatusEvent),
	}
}

// Run owns the watcher map; all mutation happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	if h.Redis != nil {
		go h.listen(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.RegisterCh:
			set := h.watchers[client.TrackingID]
			if set == nil {
				set = make(map[*Client]bool)
				h.watchers[client.TrackingID] = set
			}
			set[client] = true

		case client := <-h.UnregisterCh:
			if set, ok := h.watchers[client.TrackingID]; ok {
				if set[client] {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.watchers, client.TrackingID)
				}
			}

		case event := <-h.events:
			for client := range h.watchers[event.TrackingID] {
				select {
				case client.Send <- event:
				default:
					// Slow consumer; drop the connection.
					delete(h.watchers[event.TrackingID], client)
					close(client.Send)
				}
			}
		}
	}
}

// listen subscribes to every status channel and feeds the hub loop.
func (h *Hub) listen(ctx context.Context) {
	pubsub := h.Redis.PSubscribe(ctx, statusChannelPrefix+"*")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event StatusEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			h.Log.Warn("bad status event payload", zap.Error(err))
			continue
		}
		if event.TrackingID == "" {
			event.TrackingID = strings.TrimPrefix(msg.Channel, statusChannelPrefix)
		}
		select {
		case h.events <- event:
		case <-ctx.Done():
			return
		}
	}
}
