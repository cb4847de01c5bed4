package events

import (
	"io"
	"net/http"
	"time"

	"myassistant/model"
	"myassistant/services"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const keepAlive = 20 * time.Second

// Snapshot returns the events a freshly connected client needs to render
// current state before live updates arrive.
type Snapshot func() []model.Event

func EventsController(router gin.IRouter, broker *services.Broker, snapshot Snapshot) {
	router.GET("/events", func(c *gin.Context) {
		Stream(c, broker, snapshot)
	})
}

func render(c *gin.Context, ev model.Event) {
	c.Render(-1, sse.Event{
		Event: string(ev.Type),
		Data:  ev,
	})
}

func Stream(c *gin.Context, broker *services.Broker, snapshot Snapshot) {
	ch, cancel := broker.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if snapshot != nil {
		for _, ev := range snapshot() {
			render(c, ev)
		}
		c.Writer.Flush()
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			render(c, ev)
			return true
		case <-ticker.C:
			c.Render(-1, sse.Event{Event: "ping", Data: time.Now().Unix()})
			return true
		}
	})
}
