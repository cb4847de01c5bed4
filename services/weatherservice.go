package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"myassistant/model"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var ErrNoLocation = errors.New("location unavailable")

// WeatherService looks up current conditions on Open-Meteo.
type WeatherService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewWeatherService(baseURL string, client *http.Client, logger *zap.Logger) *WeatherService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeatherService{baseURL: baseURL, client: client, logger: logger.Named("weather")}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Fetch never fails: offline, non-200 and malformed bodies all yield nil.
func (s *WeatherService) Fetch(ctx context.Context, lat, lon float64) *model.WeatherSnapshot {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	endpoint := s.baseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		s.logger.Debug("bad weather request", zap.Error(err))
		return nil
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("weather fetch failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("weather fetch returned non-200", zap.Int("status", resp.StatusCode))
		return nil
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		s.logger.Debug("malformed weather response", zap.Error(err))
		return nil
	}
	cw := body.CurrentWeather
	if cw == nil || cw.Temperature == nil || cw.WeatherCode == nil {
		return nil
	}
	return &model.WeatherSnapshot{Temperature: *cw.Temperature, WeatherCode: *cw.WeatherCode}
}

// Locator stands in for device geolocation: configured coordinates, replaced
// by whatever the client last reported.
type Locator struct {
	mu     sync.RWMutex
	coords *model.Coordinates
}

func NewLocator(lat, lon *float64) *Locator {
	l := &Locator{}
	if lat != nil && lon != nil {
		l.coords = &model.Coordinates{Latitude: *lat, Longitude: *lon}
	}
	return l
}

func (l *Locator) Set(c model.Coordinates) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coords = &c
}

func (l *Locator) Locate(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.coords == nil {
		return model.Coordinates{}, ErrNoLocation
	}
	return *l.coords, nil
}

// WeatherState is the in-memory weather shown to the client. It is never
// persisted.
type WeatherState struct {
	mu        sync.RWMutex
	current   *model.WeatherSnapshot
	publisher Publisher
}

func NewWeatherState(publisher Publisher) *WeatherState {
	return &WeatherState{publisher: publisher}
}

func (w *WeatherState) Set(snap model.WeatherSnapshot) {
	w.mu.Lock()
	w.current = &snap
	w.mu.Unlock()
	if w.publisher != nil {
		w.publisher.Publish(model.EventWeather, snap)
	}
}

func (w *WeatherState) Current() *model.WeatherSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return nil
	}
	snap := *w.current
	return &snap
}

// WeatherProvider chains geolocation and lookup. Successful results are also
// written to the shared state.
type WeatherProvider struct {
	locator    *Locator
	service    *WeatherService
	state      *WeatherState
	geoTimeout time.Duration
}

func NewWeatherProvider(locator *Locator, service *WeatherService, state *WeatherState, geoTimeout time.Duration) *WeatherProvider {
	return &WeatherProvider{locator: locator, service: service, state: state, geoTimeout: geoTimeout}
}

func (p *WeatherProvider) Current(ctx context.Context) *model.WeatherSnapshot {
	geoCtx, cancel := context.WithTimeout(ctx, p.geoTimeout)
	coords, err := p.locator.Locate(geoCtx)
	cancel()
	if err != nil {
		return nil
	}
	snap := p.service.Fetch(ctx, coords.Latitude, coords.Longitude)
	if snap != nil {
		p.state.Set(*snap)
	}
	return snap
}

// DescribeWeather maps a WMO weather code to a short label.
func DescribeWeather(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code >= 45 && code <= 48:
		return "Foggy"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Cloudy"
	}
}
