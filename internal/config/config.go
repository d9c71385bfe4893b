package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// SensorConfig declares one sensor of the fleet.
type SensorConfig struct {
	Location string `yaml:"location" validate:"required"`
	Type     string `yaml:"type" validate:"required,oneof=temperature humidity pressure"`
	// Prefix selects the station fields for temperature/humidity
	// sensors ("<prefix>_temp", "<prefix>_hygro").
	Prefix string `yaml:"prefix"`
	// Source is the literal station field for pressure sensors.
	Source string `yaml:"source"`
	// Humidity adds a humidity property to a temperature sensor.
	Humidity bool `yaml:"humidity"`
}

type AppConfig struct {
	// StationURL is the weather-station JSON endpoint.
	StationURL string `validate:"required,url"`

	// UpdateInterval is the time between sensor updates.
	UpdateInterval time.Duration `validate:"gt=0"`

	// CacheTTL is the freshness window of the observation cache.
	CacheTTL time.Duration `validate:"gt=0"`

	// FetchTimeout bounds a single upstream fetch.
	FetchTimeout time.Duration `validate:"gt=0"`

	// HTTPTimeout is the outbound HTTP client timeout.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// CachePrefetch enables the background cache warmer.
	CachePrefetch bool

	Port     string
	LogLevel string

	Sensors []SensorConfig `validate:"required,min=1,dive"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		StationURL:    os.Getenv("STATION_URL"),
		CachePrefetch: getenvBool("CACHE_PREFETCH", false),
		Port:          getenvDefault("PORT", "8888"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.UpdateInterval, err = getenvDuration("UPDATE_INTERVAL", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if file := os.Getenv("SENSORS_FILE"); file != "" {
		sensors, err := loadSensorsFile(file)
		if err != nil {
			return nil, err
		}
		cfg.Sensors = sensors
	} else {
		cfg.Sensors = DefaultSensors()
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultSensors is the built-in fleet: indoor/outdoor hygrometers, a
// thermometer per room and the outside barometer.
func DefaultSensors() []SensorConfig {
	return []SensorConfig{
		{Location: "living room", Type: "humidity", Prefix: "in"},
		{Location: "outside", Type: "humidity", Prefix: "out"},
		{Location: "living room", Type: "temperature", Prefix: "in", Humidity: true},
		{Location: "outside", Type: "temperature", Prefix: "out", Humidity: true},
		{Location: "office", Type: "temperature", Prefix: "office", Humidity: true},
		{Location: "kitchen", Type: "temperature", Prefix: "kitchen", Humidity: true},
		{Location: "bathroom", Type: "temperature", Prefix: "bathroom", Humidity: true},
		{Location: "bedroom", Type: "temperature", Prefix: "bedroom", Humidity: true},
		{Location: "outside", Type: "pressure", Source: "baro"},
	}
}

func loadSensorsFile(path string) ([]SensorConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read sensors file: %w", err)
	}

	var doc struct {
		Sensors []SensorConfig `yaml:"sensors"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse sensors file: %w", err)
	}
	if len(doc.Sensors) == 0 {
		return nil, fmt.Errorf("sensors file %s declares no sensors", path)
	}

	return doc.Sensors, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
