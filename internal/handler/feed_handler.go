package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/middleware"
	"github.com/stemsi/presensi-backend/internal/model"
	ws "github.com/stemsi/presensi-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams committed attendance markings to admins.
type FeedHandler struct {
	feed     *ws.RedisFeed
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed *ws.RedisFeed, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feed:     feed,
		log:      log.With().Str("component", "feed_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttendanceFeed godoc
// WS /ws/v1/admin/attendance/feed?token=
// Relays every committed marking. Clients may send {"action":"filter"}
// to narrow the stream to one batch and/or department, and
// {"action":"ping"} to keep the connection alive.
func (h *FeedHandler) AttendanceFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)

	ctx := c.Request.Context()
	pubsub := h.feed.Subscribe(ctx)
	defer pubsub.Close()
	events := pubsub.Channel()

	wsLog := h.log.With().Str("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Admin connected to attendance feed")

	// The reader hands requests to this goroutine, which does every write.
	requests := make(chan ws.FilterRequest)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			msg, err := conn.Receive()
			if err != nil {
				if ws.IsUnexpectedClose(err) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			select {
			case requests <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	var filter ws.Filter
	for {
		select {
		case <-ctx.Done():
			conn.Shutdown("server shutting down")
			return
		case <-closed:
			wsLog.Debug().Msg("Admin disconnected from attendance feed")
			_ = conn.Close()
			return

		case msg := <-requests:
			if err := conn.Send(ws.Respond(msg, &filter)); err != nil {
				_ = conn.Close()
				return
			}

		case m, ok := <-events:
			if !ok {
				conn.Shutdown("feed closed")
				return
			}
			var ev model.AttendanceEvent
			if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed feed payload")
				continue
			}
			if !filter.Match(ev) {
				continue
			}
			if err := conn.Send(ws.MarkedEvent{Event: ws.EventMarked, Data: ev}); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
