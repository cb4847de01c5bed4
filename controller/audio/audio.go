package audio

import (
	"context"
	"net/http"

	"myassistant/services"
	"myassistant/welcome"

	"github.com/gin-gonic/gin"
)

// AudioController exposes the user-gesture unlock. appCtx bounds playback
// started from a request, which must outlive the request itself.
func AudioController(appCtx context.Context, router gin.IRouter, hub *services.AudioHub, seq *welcome.Sequencer) {
	router.POST("/audio/unlock", func(c *gin.Context) {
		queued := seq.Queued()
		hub.Unlock()
		seq.UnlockAsync(appCtx)
		c.JSON(http.StatusOK, gin.H{"unlocked": true, "playingWelcome": queued})
	})
	router.GET("/audio/welcome.wav", func(c *gin.Context) {
		wav, ok := hub.LastSpeechWAV()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "No speech available"})
			return
		}
		c.Data(http.StatusOK, "audio/wav", wav)
	})
}
