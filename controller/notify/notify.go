package notify

import (
	"net/http"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/services"

	"github.com/gin-gonic/gin"
)

func NotifyController(router gin.IRouter, notifier *services.Notifier) {
	router.GET("/notifications/permission", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"permission": notifier.Permission()})
	})
	// The client reports what the user answered.
	router.POST("/notifications/permission", func(c *gin.Context) {
		var req dto.PermissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		notifier.SetPermission(model.Permission(req.Permission))
		c.JSON(http.StatusOK, gin.H{"permission": notifier.Permission()})
	})
	router.POST("/notifications/request", func(c *gin.Context) {
		notifier.RequestPermission()
		c.JSON(http.StatusAccepted, gin.H{"permission": notifier.Permission()})
	})
}
