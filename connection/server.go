package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"myassistant/config"
	"myassistant/controller/alarm"
	"myassistant/controller/assistant"
	"myassistant/controller/audio"
	"myassistant/controller/events"
	"myassistant/controller/notify"
	"myassistant/controller/records"
	"myassistant/controller/session"
	"myassistant/controller/settings"
	"myassistant/controller/storage"
	"myassistant/controller/task"
	"myassistant/controller/weather"
	"myassistant/middleware"
	"myassistant/model"
	"myassistant/scheduler"
	"myassistant/services"
	"myassistant/welcome"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// App holds every long-lived component of the assistant.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *sql.DB
	Store       *services.Store
	Settings    *services.SettingsService
	Collections records.Collections
	Broker      *services.Broker
	Audio       *services.AudioHub
	Notifier    *services.Notifier
	Locator     *services.Locator
	WeatherSvc  *services.WeatherService
	Weather     *services.WeatherState
	Provider    *services.WeatherProvider
	Gemini      *services.GeminiService
	Engine      *scheduler.Engine
	Sequencer   *welcome.Sequencer
}

// NewApp opens storage and wires the components together. The returned App
// does not start any goroutines until StartServer.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := DBConnection(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	store, err := services.NewStore(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger, DB: db, Store: store}
	app.Settings = services.NewSettingsService(ctx, store, logger)
	app.Collections = records.Collections{
		Transactions: services.NewCollection[model.Transaction](ctx, store, services.KeyTransactions, logger),
		Shopping:     services.NewCollection[model.ShoppingItem](ctx, store, services.KeyShopping, logger),
		Notes:        services.NewCollection[model.Note](ctx, store, services.KeyNotes, logger),
		Contacts:     services.NewCollection[model.Contact](ctx, store, services.KeyContacts, logger),
	}

	app.Broker = services.NewBroker(logger)
	app.Audio = services.NewAudioHub(app.Broker, logger)
	app.Notifier = services.NewNotifier(app.Broker, logger)

	app.Locator = services.NewLocator(cfg.Weather.Latitude, cfg.Weather.Longitude)
	app.WeatherSvc = services.NewWeatherService(cfg.Weather.BaseURL, nil, logger)
	app.Weather = services.NewWeatherState(app.Broker)
	app.Provider = services.NewWeatherProvider(app.Locator, app.WeatherSvc, app.Weather, cfg.Weather.GeoTimeout)

	app.Gemini, err = services.NewGeminiService(ctx, services.GeminiConfig{
		APIKey:        cfg.Gemini.APIKey,
		TextModel:     cfg.Gemini.TextModel,
		SpeechModel:   cfg.Gemini.SpeechModel,
		Voice:         cfg.Gemini.Voice,
		UserName:      cfg.UserName,
		AssistantName: cfg.AssistantName,
	}, store, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	loop := scheduler.NewAlarmLoop(app.Audio, cfg.Alarms.LoopInterval, cfg.Alarms.LoopCeiling)
	tasks := services.LoadFromStore(ctx, store, services.KeyTasks, []model.Task{})
	app.Engine = scheduler.NewEngine(tasks, app.Settings, app.Audio, app.Notifier, loop, scheduler.Options{
		TickInterval:   cfg.Alarms.TickInterval,
		UpcomingWindow: cfg.Alarms.UpcomingWindow,
		DueWindow:      cfg.Alarms.DueWindow,
	}, logger)

	app.Engine.Subscribe(func(tasks []model.Task) {
		if err := store.Save(context.Background(), services.KeyTasks, tasks); err != nil {
			logger.Error("failed to persist tasks", zap.Error(err))
		}
		app.Broker.Publish(model.EventTasks, tasks)
	})
	app.Engine.OnAlarmChange(func(state model.AlarmState) {
		app.Broker.Publish(model.EventAlarm, state)
	})

	app.Sequencer = welcome.NewSequencer(app.Provider, app.Gemini, app.Audio, welcome.Options{
		RaceTimeout: cfg.Weather.RaceTimeout,
		Currency:    cfg.Currency,
	}, logger)
	app.Sequencer.OnChange(func(state model.WelcomeState) {
		app.Broker.Publish(model.EventWelcome, state)
	})

	return app, nil
}

// Snapshot is sent to every new event stream subscriber.
func (a *App) Snapshot() []model.Event {
	now := time.Now()
	evs := []model.Event{
		{Type: model.EventTasks, At: now, Data: a.Engine.Tasks()},
		{Type: model.EventAlarm, At: now, Data: model.AlarmState{Task: a.Engine.ActiveAlarm(), Ringing: a.Engine.AlarmRinging()}},
		{Type: model.EventWelcome, At: now, Data: a.Sequencer.State()},
	}
	if w := a.Weather.Current(); w != nil {
		evs = append(evs, model.Event{Type: model.EventWeather, At: now, Data: w})
	}
	if !a.Audio.Suspended() {
		evs = append(evs, model.Event{Type: model.EventAudioUnlocked, At: now})
	}
	return evs
}

func cacheFirst(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Next()
}

// NewRouter registers every HTTP surface. ctx is the application lifetime and
// bounds work that continues after a request returns.
func NewRouter(ctx context.Context, app *App) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(app.Logger), middleware.RequestLogger(app.Logger), middleware.LocalOnly())
	router.Use(cors.Default())

	if app.Config.WebDir != "" {
		assets := router.Group("/app", cacheFirst)
		assets.Static("/", app.Config.WebDir)
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/app/")
		})
	} else {
		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
		})
	}

	cfg := app.Config
	task.TaskController(router, app.Engine, app.Weather, time.Now)
	settings.SettingsController(router, app.Settings)
	alarm.AlarmController(router, app.Engine)
	audio.AudioController(ctx, router, app.Audio, app.Sequencer)
	assistant.AssistantController(ctx, router, assistant.Deps{
		Gemini:       app.Gemini,
		Engine:       app.Engine,
		Transactions: app.Collections.Transactions,
		Audio:        app.Audio,
		UserName:     cfg.UserName,
		AssistName:   cfg.AssistantName,
		Currency:     cfg.Currency,
		Logger:       app.Logger,
	})
	records.RecordsController(router, app.Collections, time.Now)
	weather.WeatherController(ctx, router, app.Weather, app.Locator, app.Provider)
	notify.NotifyController(router, app.Notifier)
	session.SessionController(ctx, router, session.Deps{
		Sequencer:    app.Sequencer,
		Engine:       app.Engine,
		Transactions: app.Collections.Transactions,
		Settings:     app.Settings,
		Locator:      app.Locator,
		Notifier:     app.Notifier,
	})
	storage.StorageController(router, storage.Deps{
		Store:       app.Store,
		Engine:      app.Engine,
		Collections: app.Collections,
		Settings:    app.Settings,
		Logger:      app.Logger,
	})
	events.EventsController(router, app.Broker, app.Snapshot)

	return router
}

// StartServer runs the engine and the HTTP server until ctx is cancelled.
func StartServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.DB.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		app.Engine.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           NewRouter(ctx, app),
		ReadHeaderTimeout: 10 * time.Second,
		// Requests, the event stream included, end with the application.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			cancel()
			<-engineDone
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	cancel()
	<-engineDone
	app.Sequencer.Wait()
	return nil
}
