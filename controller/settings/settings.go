package settings

import (
	"net/http"

	"myassistant/dto"
	"myassistant/services"

	"github.com/gin-gonic/gin"
)

func SettingsController(router gin.IRouter, svc *services.SettingsService) {
	router.GET("/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Settings())
	})
	router.PUT("/settings", func(c *gin.Context) {
		UpdateSettings(c, svc)
	})
}

func UpdateSettings(c *gin.Context, svc *services.SettingsService) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	updated, err := svc.Update(c.Request.Context(), services.SettingsPatch{
		EnableWelcome: req.EnableWelcome,
		EnableSfx:     req.EnableSfx,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
