package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"urbaniq/backend/internal/track"
	"urbaniq/backend/internal/tracking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tracking pages are served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchReport upgrades to WebSocket and streams status changes for a
// tracking id. Visibility is enforced the same way as TrackReport.
func (h *Handler) WatchReport(c *gin.Context) {
	actor := mustActor(c)

	trackingID, err := tracking.Parse(c.Param("trackingId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if _, err := h.Ingest.Track(c.Request.Context(), actor, trackingID); err != nil {
		h.renderIngestError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := track.NewClient(h.Hub, trackingID, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}
