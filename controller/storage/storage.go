package storage

import (
	"net/http"

	"myassistant/controller/records"
	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Store       *services.Store
	Engine      *scheduler.Engine
	Collections records.Collections
	Settings    *services.SettingsService
	Logger      *zap.Logger
}

func StorageController(router gin.IRouter, deps Deps) {
	router.DELETE("/storage", func(c *gin.Context) {
		ClearStorage(c, deps)
	})
}

// ClearStorage wipes every persisted key and resets in-memory state to match.
func ClearStorage(c *gin.Context, deps Deps) {
	ctx := c.Request.Context()
	if err := deps.Store.Clear(ctx); err != nil {
		deps.Logger.Error("failed to clear storage", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear storage"})
		return
	}

	deps.Engine.DismissAlarm()
	err := deps.Engine.Replace([]model.Task{})
	if err == nil {
		err = deps.Collections.Transactions.Replace(ctx, []model.Transaction{})
	}
	if err == nil {
		err = deps.Collections.Shopping.Replace(ctx, []model.ShoppingItem{})
	}
	if err == nil {
		err = deps.Collections.Notes.Replace(ctx, []model.Note{})
	}
	if err == nil {
		err = deps.Collections.Contacts.Replace(ctx, []model.Contact{})
	}
	if err == nil {
		_, err = deps.Settings.Reset(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset data"})
		return
	}

	deps.Logger.Info("storage cleared")
	c.JSON(http.StatusOK, gin.H{"message": "Storage cleared"})
}
