package session

import (
	"context"
	"net/http"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"
	"myassistant/welcome"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Sequencer    *welcome.Sequencer
	Engine       *scheduler.Engine
	Transactions *services.Collection[model.Transaction]
	Settings     *services.SettingsService
	Locator      *services.Locator
	Notifier     *services.Notifier
}

// SessionController starts the once-per-process welcome when the client has
// loaded. The sequence runs under appCtx, not the request.
func SessionController(appCtx context.Context, router gin.IRouter, deps Deps) {
	router.POST("/session", func(c *gin.Context) {
		StartSession(appCtx, c, deps)
	})
	router.GET("/session/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Sequencer.State())
	})
}

func StartSession(appCtx context.Context, c *gin.Context, deps Deps) {
	var req dto.StartSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	if req.Latitude != nil && req.Longitude != nil {
		deps.Locator.Set(model.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
	}

	deps.Notifier.RequestPermission()

	snap := welcome.Snapshot{
		Tasks:        deps.Engine.Tasks(),
		Transactions: deps.Transactions.All(),
		Settings:     deps.Settings.Settings(),
	}
	deps.Sequencer.Start(appCtx, snap)

	c.JSON(http.StatusAccepted, gin.H{"message": "Session started"})
}
