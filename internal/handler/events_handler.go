package handler

import (
	"io"
	"net/http"

	"teamtrack/internal/notify"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventsHandler streams broadcast events to clients over server-sent events.
type EventsHandler struct {
	hub *notify.Hub
}

func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Subscribe opens a stream for the requested project channels plus the global
// channel. Events missed while disconnected are gone; clients refetch on
// reconnect.
//
// GET /api/events?project=<id>&project=<id>
func (h *EventsHandler) Subscribe(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	channels := []string{notify.GlobalChannel}
	for _, raw := range c.QueryArray("project") {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
			return
		}
		channels = append(channels, notify.ProjectChannel(projectID))
	}

	sub := h.hub.Subscribe(channels...)
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-sub.Events():
			if !open {
				return false
			}
			sse.Encode(w, sse.Event{
				Event: event.Name,
				Data:  event,
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
