package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "morphd.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.QoS != 1 {
		t.Fatalf("mqtt defaults = %+v", cfg.MQTT)
	}
	if cfg.MQTT.FrameTopic != "morph/frames" || cfg.MQTT.CommandTopic != "morph/commands" {
		t.Fatalf("topic defaults = %+v", cfg.MQTT)
	}
	if cfg.Stage.PixelWidth != 1920 || cfg.Stage.PixelHeight != 1080 || cfg.Stage.FrameWidth != 16 {
		t.Fatalf("stage defaults = %+v", cfg.Stage)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log defaults = %+v", cfg.Log)
	}
}

func TestLoadConfigMissingRequiredFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), true); err == nil {
		t.Fatal("expected explicit missing config file to error")
	}
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeConfig(t, `
[mqtt]
broker = "tcp://broker.local:1883"
qos = 2

[store]
path = "scenes.db"
autosave = true

[stage]
workers = 4
pixel_width = 640
pixel_height = 360
frame_width = 8

[log]
level = "debug"
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker.local:1883" || cfg.MQTT.QoS != 2 {
		t.Fatalf("mqtt = %+v", cfg.MQTT)
	}
	if cfg.MQTT.ClientID != "morphd" {
		t.Fatalf("client id = %q, unset fields keep defaults", cfg.MQTT.ClientID)
	}
	if cfg.Store.Path != "scenes.db" || !cfg.Store.Autosave {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Stage.Workers != 4 || cfg.Stage.PixelWidth != 640 || cfg.Stage.FrameWidth != 8 {
		t.Fatalf("stage = %+v", cfg.Stage)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[mqtt]
broker = "tcp://from-file:1883"
`)
	t.Setenv("MORPHD_MQTT_BROKER", "tcp://from-env:1883")
	t.Setenv("MORPHD_STAGE_WORKERS", "2")
	t.Setenv("MORPHD_LOG_LEVEL", "warn")

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://from-env:1883" {
		t.Fatalf("broker = %q, env must override file", cfg.MQTT.Broker)
	}
	if cfg.Stage.Workers != 2 || cfg.Log.Level != "warn" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"empty broker", "[mqtt]\nbroker = \" \"\n"},
		{"bad qos", "[mqtt]\nqos = 3\n"},
		{"negative workers", "[stage]\nworkers = -1\n"},
		{"zero pixel width", "[stage]\npixel_width = 0\n"},
		{"zero frame width", "[stage]\nframe_width = 0\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tc.toml), true); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
