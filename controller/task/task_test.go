package task

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type settingsStub struct{ s model.AppSettings }

func (s settingsStub) Settings() model.AppSettings { return s.s }

var fixedNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, tasks []model.Task) (*gin.Engine, *scheduler.Engine, *services.WeatherState) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	broker := services.NewBroker(zap.NewNop())
	hub := services.NewAudioHub(broker, zap.NewNop())
	loop := scheduler.NewAlarmLoop(hub, time.Hour, 2*time.Hour)
	t.Cleanup(loop.Stop)
	engine := scheduler.NewEngine(tasks, settingsStub{model.DefaultSettings()}, hub,
		services.NewNotifier(broker, zap.NewNop()), loop, scheduler.DefaultOptions(), zap.NewNop())
	weather := services.NewWeatherState(nil)

	router := gin.New()
	TaskController(router, engine, weather, func() time.Time { return fixedNow })
	return router, engine, weather
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTask(t *testing.T) {
	router, engine, _ := newTestRouter(t, nil)

	w := do(t, router, http.MethodPost, "/tasks", gin.H{
		"title":    "Call plumber",
		"dueDate":  "2026-10-15",
		"time":     "11:30",
		"priority": "high",
		"hasAlarm": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	tasks := engine.Tasks()
	require.Len(t, tasks, 1)
	assert.NotEmpty(t, tasks[0].ID)
	assert.Equal(t, "2026-10-15", tasks[0].Date)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.True(t, tasks[0].HasAlarm)
	assert.False(t, tasks[0].NotifiedUpcoming)
}

func TestCreateTaskValidation(t *testing.T) {
	router, engine, _ := newTestRouter(t, nil)

	cases := []gin.H{
		{},
		{"title": "Bad time", "time": "25:99"},
		{"title": "Bad date", "dueDate": "15/10/2026"},
		{"title": "Bad priority", "priority": "urgent"},
	}
	for _, body := range cases {
		w := do(t, router, http.MethodPost, "/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
	assert.Empty(t, engine.Tasks())
}

func TestListTasksIsPrioritized(t *testing.T) {
	router, _, weather := newTestRouter(t, []model.Task{
		{ID: "1", Title: "Wash car", Date: "2026-10-15", Priority: model.PriorityNormal},
		{ID: "2", Title: "Buy stamps", Date: "2026-10-15", Priority: model.PriorityNormal},
		{ID: "3", Title: "Call plumber", Date: "2026-10-15", Priority: model.PriorityHigh},
	})
	weather.Set(model.WeatherSnapshot{WeatherCode: 80})

	w := do(t, router, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tasks []model.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tasks, 3)
	assert.Equal(t, "3", body.Tasks[0].ID)
	assert.Equal(t, "2", body.Tasks[1].ID)
	assert.Equal(t, "1", body.Tasks[2].ID)
}

func TestToggleAndDeleteTask(t *testing.T) {
	router, engine, _ := newTestRouter(t, []model.Task{{ID: "1", Title: "Read", Date: "2026-10-15"}})

	w := do(t, router, http.MethodPatch, "/tasks/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, engine.Tasks()[0].Completed)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPatch, "/tasks/missing/toggle", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/tasks/missing", nil).Code)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/tasks/1", nil).Code)
	assert.Empty(t, engine.Tasks())
}

func TestReplaceTasksKeepsFlags(t *testing.T) {
	router, engine, _ := newTestRouter(t, nil)

	w := do(t, router, http.MethodPut, "/tasks", gin.H{"tasks": []gin.H{
		{"id": "a", "title": "Pay rent", "date": "2026-10-14", "notifiedUpcoming": true, "notifiedDue": true},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	tasks := engine.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].NotifiedUpcoming)
	assert.True(t, tasks[0].NotifiedDue)
	assert.Equal(t, model.PriorityNormal, tasks[0].Priority)
}

func TestReplaceTasksNeverClearsHeldFlags(t *testing.T) {
	held := model.Task{ID: "a", Title: "Pay rent", Date: "2026-10-14", Priority: model.PriorityNormal, NotifiedUpcoming: true, NotifiedDue: true}
	router, engine, _ := newTestRouter(t, []model.Task{held})

	w := do(t, router, http.MethodPut, "/tasks", gin.H{"tasks": []gin.H{
		{"id": "a", "title": "Pay rent today", "date": "2026-10-14"},
		{"id": "b", "title": "Read", "date": "2026-10-14"},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	tasks := engine.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Pay rent today", tasks[0].Title)
	assert.True(t, tasks[0].NotifiedUpcoming)
	assert.True(t, tasks[0].NotifiedDue)
	assert.False(t, tasks[1].NotifiedUpcoming)
	assert.False(t, tasks[1].NotifiedDue)
}

func TestReplaceTasksRejectsDuplicateIDs(t *testing.T) {
	router, engine, _ := newTestRouter(t, []model.Task{{ID: "x", Title: "Keep", Date: "2026-10-14"}})

	w := do(t, router, http.MethodPut, "/tasks", gin.H{"tasks": []gin.H{
		{"id": "a", "title": "One", "date": "2026-10-14"},
		{"id": "a", "title": "Two", "date": "2026-10-14"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tasks := engine.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "x", tasks[0].ID)
}
