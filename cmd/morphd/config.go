package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// MQTTConfig configures the broker connection and bridge topics.
type MQTTConfig struct {
	Broker       string `toml:"broker" env:"MORPHD_MQTT_BROKER"`
	ClientID     string `toml:"client_id" env:"MORPHD_MQTT_CLIENT_ID"`
	Username     string `toml:"username" env:"MORPHD_MQTT_USERNAME"`
	Password     string `toml:"password" env:"MORPHD_MQTT_PASSWORD"`
	FrameTopic   string `toml:"frame_topic" env:"MORPHD_MQTT_FRAME_TOPIC"`
	CommandTopic string `toml:"command_topic" env:"MORPHD_MQTT_COMMAND_TOPIC"`
	QoS          int    `toml:"qos" env:"MORPHD_MQTT_QOS"`
	DebounceMS   int    `toml:"debounce_ms" env:"MORPHD_MQTT_DEBOUNCE_MS"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	Path     string `toml:"path" env:"MORPHD_STORE_PATH"`
	Snapshot string `toml:"snapshot" env:"MORPHD_STORE_SNAPSHOT"`
	Autosave bool   `toml:"autosave" env:"MORPHD_STORE_AUTOSAVE"`
}

// StageConfig configures the stage, camera, and derivation quality.
type StageConfig struct {
	Workers     int     `toml:"workers" env:"MORPHD_STAGE_WORKERS"`
	Document    string  `toml:"document" env:"MORPHD_STAGE_DOCUMENT"`
	PixelWidth  int     `toml:"pixel_width" env:"MORPHD_STAGE_PIXEL_WIDTH"`
	PixelHeight int     `toml:"pixel_height" env:"MORPHD_STAGE_PIXEL_HEIGHT"`
	FrameWidth  float64 `toml:"frame_width" env:"MORPHD_STAGE_FRAME_WIDTH"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level     string `toml:"level" env:"MORPHD_LOG_LEVEL"`
	Timestamp bool   `toml:"timestamp" env:"MORPHD_LOG_TIMESTAMP"`
}

// MorphdConfig is the daemon configuration. Values load in order:
// defaults, then the TOML file, then MORPHD_-prefixed env overrides.
type MorphdConfig struct {
	MQTT  MQTTConfig  `toml:"mqtt"`
	Store StoreConfig `toml:"store"`
	Stage StageConfig `toml:"stage"`
	Log   LogConfig   `toml:"log"`
}

func defaultConfig() MorphdConfig {
	return MorphdConfig{
		MQTT: MQTTConfig{
			Broker:       "tcp://localhost:1883",
			ClientID:     "morphd",
			FrameTopic:   "morph/frames",
			CommandTopic: "morph/commands",
			QoS:          1,
			DebounceMS:   50,
		},
		Store: StoreConfig{
			Path:     "morph.db",
			Snapshot: "scene",
		},
		Stage: StageConfig{
			PixelWidth:  1920,
			PixelHeight: 1080,
			FrameWidth:  16,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// loadConfig builds the daemon configuration. The TOML file is optional;
// a missing file at the default path is not an error.
func loadConfig(path string, required bool) (MorphdConfig, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if required {
			return MorphdConfig{}, fmt.Errorf("load config: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return MorphdConfig{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return MorphdConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return MorphdConfig{}, err
	}
	return cfg, nil
}

func validateConfig(cfg MorphdConfig) error {
	if strings.TrimSpace(cfg.MQTT.Broker) == "" {
		return fmt.Errorf("config: mqtt broker is required")
	}
	if cfg.MQTT.QoS < 0 || cfg.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos must be 0, 1, or 2")
	}
	if cfg.MQTT.DebounceMS < 0 {
		return fmt.Errorf("config: mqtt debounce must not be negative")
	}
	if cfg.Stage.Workers < 0 {
		return fmt.Errorf("config: stage workers must not be negative")
	}
	if cfg.Stage.PixelWidth <= 0 || cfg.Stage.PixelHeight <= 0 {
		return fmt.Errorf("config: stage pixel size must be positive")
	}
	if cfg.Stage.FrameWidth <= 0 {
		return fmt.Errorf("config: stage frame width must be positive")
	}
	if _, err := parseLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}
