package alarm

import (
	"net/http"

	"myassistant/model"
	"myassistant/scheduler"

	"github.com/gin-gonic/gin"
)

func AlarmController(router gin.IRouter, engine *scheduler.Engine) {
	router.GET("/alarm", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.AlarmState{
			Task:    engine.ActiveAlarm(),
			Ringing: engine.AlarmRinging(),
		})
	})
	router.POST("/alarm/dismiss", func(c *gin.Context) {
		dismissed := engine.DismissAlarm()
		if dismissed == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active alarm"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"dismissed": dismissed})
	})
}
