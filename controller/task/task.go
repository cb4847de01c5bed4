package task

import (
	"errors"
	"net/http"
	"time"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Clock returns the wall time used for prioritization and default dates.
type Clock func() time.Time

func TaskController(router gin.IRouter, engine *scheduler.Engine, weather *services.WeatherState, now Clock) {
	router.GET("/tasks", func(c *gin.Context) {
		ListTasks(c, engine, weather, now)
	})
	router.POST("/tasks", func(c *gin.Context) {
		CreateTask(c, engine, now)
	})
	router.PUT("/tasks", func(c *gin.Context) {
		ReplaceTasks(c, engine)
	})
	router.PATCH("/tasks/:id/toggle", func(c *gin.Context) {
		ToggleTask(c, engine)
	})
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		DeleteTask(c, engine)
	})
}

// ListTasks returns the task list in display order.
func ListTasks(c *gin.Context, engine *scheduler.Engine, weather *services.WeatherState, now Clock) {
	tasks := services.SortTasks(engine.Tasks(), weather.Current(), now())
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func CreateTask(c *gin.Context, engine *scheduler.Engine, now Clock) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	date := req.Date
	if date == "" {
		date = now().Format(model.DateLayout)
	}
	priority := model.Priority(req.Priority)
	if priority == "" {
		priority = model.PriorityNormal
	}

	newtask := model.Task{
		ID:       uuid.New().String(),
		Title:    req.Title,
		Date:     date,
		DueDate:  req.DueDate,
		Time:     req.Time,
		Priority: priority,
		HasAlarm: req.HasAlarm,
	}
	engine.Add(newtask)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    newtask,
	})
}

// ReplaceTasks restores a full task list, notification flags included. Flags
// already set for a held task stay set.
func ReplaceTasks(c *gin.Context, engine *scheduler.Engine) {
	var req dto.ReplaceTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	tasks := make([]model.Task, 0, len(req.Tasks))
	for _, p := range req.Tasks {
		priority := model.Priority(p.Priority)
		if priority == "" {
			priority = model.PriorityNormal
		}
		tasks = append(tasks, model.Task{
			ID:               p.ID,
			Title:            p.Title,
			Date:             p.Date,
			DueDate:          p.DueDate,
			Time:             p.Time,
			Completed:        p.Completed,
			Priority:         priority,
			HasAlarm:         p.HasAlarm,
			NotifiedUpcoming: p.NotifiedUpcoming,
			NotifiedDue:      p.NotifiedDue,
		})
	}
	if err := engine.Replace(tasks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate task id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": engine.Tasks()})
}

func ToggleTask(c *gin.Context, engine *scheduler.Engine) {
	updated, err := engine.Toggle(c.Param("id"))
	if errors.Is(err, scheduler.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": updated})
}

func DeleteTask(c *gin.Context, engine *scheduler.Engine) {
	if err := engine.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
