package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// PendingRequestsEvent names the snapshots pushed on the feed
const PendingRequestsEvent = "pending_requests"

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // callers are authenticated by their bearer token
	},
}

// Feed exported for testing purposes
type Feed struct {
	RF *mentorship.RequestFeed
}

// FeedMessage is one frame of the pending request feed
type FeedMessage struct {
	Event string                     `json:"event"`
	Data  []models.MentorshipRequest `json:"data"`
}

// PendingRequestsWebSocket pushes the full list of the mentor's pending
// requests on connect and again after every change
func (f Feed) PendingRequestsWebSocket(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	mentorID := r.URL.Query().Get("mentorId")
	if mentorID == "" {
		mentorID = id
	}
	if mentorID != id {
		engineError("cannot watch another mentor's requests", w, mentorship.ErrForbidden)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots, err := f.RF.PendingForMentor(ctx, mentorID)
	if err != nil {
		engineError("failed to watch requests", w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "mentorId", mentorID, "error", err)
		return
	}
	defer conn.Close()
	zap.S().Infow("mentor connected to /ws/requests", "mentorId", mentorID)

	// the read loop only serves control frames and notices the disconnect
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				zap.S().Infow("request feed closed", "mentorId", mentorID)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(FeedMessage{Event: PendingRequestsEvent, Data: snap}); err != nil {
				zap.S().Warnw("error sending pending requests", "mentorId", mentorID, "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			zap.S().Infow("mentor disconnected from /ws/requests", "mentorId", mentorID)
			return
		}
	}
}
