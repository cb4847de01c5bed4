package weather

import (
	"context"
	"net/http"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/services"

	"github.com/gin-gonic/gin"
)

func WeatherController(appCtx context.Context, router gin.IRouter, state *services.WeatherState, locator *services.Locator, provider *services.WeatherProvider) {
	router.GET("/weather", func(c *gin.Context) {
		current := state.Current()
		if current == nil {
			c.JSON(http.StatusOK, gin.H{"weather": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"weather":     current,
			"description": services.DescribeWeather(current.WeatherCode),
			"adverse":     current.Adverse(),
		})
	})

	router.POST("/location", func(c *gin.Context) {
		var req dto.LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		locator.Set(model.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
		go provider.Current(appCtx)
		c.JSON(http.StatusAccepted, gin.H{"message": "Location updated"})
	})
}
