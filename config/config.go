package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
	DBPath     string `yaml:"db_path" validate:"required"`
	WebDir     string `yaml:"web_dir"`
	LogLevel   string `yaml:"log_level" validate:"oneof=debug info warn error"`

	UserName      string `yaml:"user_name"`
	AssistantName string `yaml:"assistant_name"`
	Currency      string `yaml:"currency"`

	Gemini  GeminiConfig  `yaml:"gemini"`
	Weather WeatherConfig `yaml:"weather"`
	Alarms  AlarmConfig   `yaml:"alarms"`
}

type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	TextModel   string `yaml:"text_model" validate:"required"`
	SpeechModel string `yaml:"speech_model" validate:"required"`
	Voice       string `yaml:"voice" validate:"required"`
}

type WeatherConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	Latitude    *float64      `yaml:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64      `yaml:"longitude" validate:"omitempty,longitude"`
	RaceTimeout time.Duration `yaml:"race_timeout" validate:"gte=200ms,lte=4s"`
	GeoTimeout  time.Duration `yaml:"geo_timeout" validate:"gt=0"`
}

type AlarmConfig struct {
	TickInterval   time.Duration `yaml:"tick_interval" validate:"gt=0"`
	UpcomingWindow time.Duration `yaml:"upcoming_window" validate:"gt=0"`
	DueWindow      time.Duration `yaml:"due_window" validate:"gt=0"`
	LoopInterval   time.Duration `yaml:"loop_interval" validate:"gt=0"`
	LoopCeiling    time.Duration `yaml:"loop_ceiling" validate:"gtfield=LoopInterval"`
}

func Default() *Config {
	return &Config{
		ListenAddr:    "127.0.0.1:8080",
		DBPath:        "myassistant.db",
		LogLevel:      "info",
		UserName:      "Isaac",
		AssistantName: "Chris AI",
		Currency:      "R",
		Gemini: GeminiConfig{
			TextModel:   "gemini-2.5-flash",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			Voice:       "Kore",
		},
		Weather: WeatherConfig{
			BaseURL:     "https://api.open-meteo.com",
			RaceTimeout: 200 * time.Millisecond,
			GeoTimeout:  4 * time.Second,
		},
		Alarms: AlarmConfig{
			TickInterval:   time.Second,
			UpcomingWindow: 15 * time.Minute,
			DueWindow:      60 * time.Second,
			LoopInterval:   800 * time.Millisecond,
			LoopCeiling:    30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and finally OS environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// .env is optional; OS env vars still apply without it.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MYASSISTANT_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MYASSISTANT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MYASSISTANT_WEB_DIR"); v != "" {
		cfg.WebDir = v
	}
	if v := os.Getenv("MYASSISTANT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("MYASSISTANT_LAT"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MYASSISTANT_LAT %q: %w", v, err)
		}
		cfg.Weather.Latitude = &lat
	}
	if v := os.Getenv("MYASSISTANT_LON"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MYASSISTANT_LON %q: %w", v, err)
		}
		cfg.Weather.Longitude = &lon
	}
	return nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if (cfg.Weather.Latitude == nil) != (cfg.Weather.Longitude == nil) {
		return fmt.Errorf("invalid config: latitude and longitude must be set together")
	}
	return nil
}
