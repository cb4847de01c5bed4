package connection

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myassistant/config"
	"myassistant/model"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*App, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.DBPath = ":memory:"

	ctx, cancel := context.WithCancel(context.Background())
	app, err := NewApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		app.Engine.DismissAlarm()
		app.Sequencer.Wait()
		app.DB.Close()
	})
	return app, NewRouter(ctx, app)
}

func call(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestTasksArePersisted(t *testing.T) {
	app, router := newTestApp(t)

	w := call(t, router, http.MethodPost, "/tasks", gin.H{"title": "Pay rent", "priority": "high"})
	require.Equal(t, http.StatusCreated, w.Code)

	stored := services.LoadFromStore(context.Background(), app.Store, services.KeyTasks, []model.Task{})
	require.Len(t, stored, 1)
	assert.Equal(t, "Pay rent", stored[0].Title)
}

func TestRecordsAndBalance(t *testing.T) {
	_, router := newTestApp(t)

	require.Equal(t, http.StatusCreated, call(t, router, http.MethodPost, "/transactions",
		gin.H{"title": "Salary", "amount": 1000, "type": "income"}).Code)
	w := call(t, router, http.MethodPost, "/transactions",
		gin.H{"title": "Groceries", "amount": 250.5, "type": "expense", "category": "Food"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusBadRequest, call(t, router, http.MethodPost, "/transactions",
		gin.H{"title": "Gift", "amount": 10, "type": "bonus"}).Code)

	var created struct {
		Item model.Transaction `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(t, router, http.MethodGet, "/transactions/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":749.5}`, w.Body.String())

	require.Equal(t, http.StatusOK, call(t, router, http.MethodPut, "/transactions/"+created.Item.ID,
		gin.H{"title": "Groceries", "amount": 100, "type": "expense"}).Code)
	w = call(t, router, http.MethodGet, "/transactions/balance", nil)
	assert.JSONEq(t, `{"balance":900}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, call(t, router, http.MethodDelete, "/notes/missing", nil).Code)
	require.Equal(t, http.StatusCreated, call(t, router, http.MethodPost, "/shopping", gin.H{"name": "Milk"}).Code)
	w = call(t, router, http.MethodGet, "/shopping", nil)
	assert.Contains(t, w.Body.String(), `"category":"Home"`)
}

func TestSettingsAndStorageClear(t *testing.T) {
	app, router := newTestApp(t)

	w := call(t, router, http.MethodPut, "/settings", gin.H{"enableSfx": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enableWelcome":true,"enableSfx":false}`, w.Body.String())

	require.Equal(t, http.StatusCreated, call(t, router, http.MethodPost, "/tasks", gin.H{"title": "Read"}).Code)
	require.Equal(t, http.StatusCreated, call(t, router, http.MethodPost, "/contacts",
		gin.H{"name": "Doctor", "phone": "555"}).Code)

	require.Equal(t, http.StatusOK, call(t, router, http.MethodDelete, "/storage", nil).Code)
	assert.Empty(t, app.Engine.Tasks())
	assert.Empty(t, app.Collections.Contacts.All())
	assert.Equal(t, model.DefaultSettings(), app.Settings.Settings())
}

func TestSessionWithoutKeyEndsIdle(t *testing.T) {
	app, router := newTestApp(t)

	w := call(t, router, http.MethodPost, "/session", gin.H{"latitude": 95})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, router, http.MethodPost, "/session", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	app.Sequencer.Wait()
	assert.False(t, app.Sequencer.Queued())

	w = call(t, router, http.MethodGet, "/session/status", nil)
	assert.JSONEq(t, `{"status":"idle","awaitingGesture":false}`, w.Body.String())
}

func TestAlarmAndAudioEndpoints(t *testing.T) {
	app, router := newTestApp(t)

	w := call(t, router, http.MethodGet, "/alarm", nil)
	assert.JSONEq(t, `{"task":null,"ringing":false}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, call(t, router, http.MethodPost, "/alarm/dismiss", nil).Code)

	assert.True(t, app.Audio.Suspended())
	assert.Equal(t, http.StatusOK, call(t, router, http.MethodPost, "/audio/unlock", nil).Code)
	assert.False(t, app.Audio.Suspended())
	assert.Equal(t, http.StatusNotFound, call(t, router, http.MethodGet, "/audio/welcome.wav", nil).Code)
}

func TestNotificationPermission(t *testing.T) {
	app, router := newTestApp(t)

	assert.Equal(t, http.StatusBadRequest, call(t, router, http.MethodPost, "/notifications/permission",
		gin.H{"permission": "maybe"}).Code)
	require.Equal(t, http.StatusOK, call(t, router, http.MethodPost, "/notifications/permission",
		gin.H{"permission": "granted"}).Code)
	assert.Equal(t, model.PermissionGranted, app.Notifier.Permission())
}

func TestRejectsRemoteClients(t *testing.T) {
	_, router := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEventStreamStartsWithSnapshot(t *testing.T) {
	_, router := newTestApp(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(resp.Body)
	var events []string
	for scanner.Scan() && len(events) < 3 {
		if name, ok := strings.CutPrefix(scanner.Text(), "event:"); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"tasks", "alarm", "welcome"}, events)
}
