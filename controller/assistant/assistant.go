package assistant

import (
	"context"
	"fmt"
	"net/http"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Gemini       *services.GeminiService
	Engine       *scheduler.Engine
	Transactions *services.Collection[model.Transaction]
	Audio        *services.AudioHub
	UserName     string
	AssistName   string
	Currency     string
	Logger       *zap.Logger
}

func AssistantController(appCtx context.Context, router gin.IRouter, deps Deps) {
	router.POST("/assistant/ask", func(c *gin.Context) {
		Ask(appCtx, c, deps)
	})
	router.GET("/assistant/motivation", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"quote": deps.Gemini.DailyMotivation(c.Request.Context())})
	})
}

// AdviceContext summarizes the user's situation for an advice request.
func AdviceContext(deps Deps, tasks []model.Task, txs []model.Transaction) string {
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}
	return fmt.Sprintf("User: %s. Assistant: %s.\nTasks: %d pending.\nBalance: %s%.2f.\n"+
		"Goal: Be concise, sci-fi/tech persona mixed with warm, personal advice.",
		deps.UserName, deps.AssistName, pending, deps.Currency, model.Balance(txs))
}

func Ask(appCtx context.Context, c *gin.Context, deps Deps) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	adviceContext := AdviceContext(deps, deps.Engine.Tasks(), deps.Transactions.All())
	answer := deps.Gemini.Advice(c.Request.Context(), adviceContext, req.Query)

	if req.Speak {
		go func() {
			clip := deps.Gemini.GenerateSpeech(appCtx, answer)
			if clip == "" {
				deps.Audio.Speak(answer)
				return
			}
			if err := deps.Audio.PlayPCM(appCtx, clip); err != nil {
				deps.Logger.Debug("answer playback failed", zap.Error(err))
				deps.Audio.Speak(answer)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
