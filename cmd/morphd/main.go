package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ralvey/morph-go/engine"
	"github.com/ralvey/morph-go/engine/camera"
	"github.com/ralvey/morph-go/engine/loader"
	"github.com/ralvey/morph-go/engine/renderer"
	"github.com/ralvey/morph-go/engine/store"
	"github.com/ralvey/morph-go/engine/store/sqlite"
	"github.com/ralvey/morph-go/engine/stream"
	"github.com/ralvey/morph-go/engine/telemetry"
	"github.com/rs/zerolog"
)

const serviceName = "morphd"

func main() {
	configPath := flag.String("config", "morphd.toml", "TOML config file")
	flag.Parse()

	configRequired := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configRequired = true
		}
	})

	cfg, err := loadConfig(*configPath, configRequired)
	if err != nil {
		fmt.Fprintf(os.Stderr, "morphd: %v\n", err)
		os.Exit(1)
	}

	log, err := initLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "morphd: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("daemon failed")
	}
}

func run(cfg MorphdConfig, log zerolog.Logger) error {
	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	st, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	cam := camera.NewCamera(
		camera.WithPixelSize(cfg.Stage.PixelWidth, cfg.Stage.PixelHeight),
		camera.WithFrameWidth(cfg.Stage.FrameWidth),
	)
	r := renderer.NewRenderer(renderer.WithCamera(cam))

	var pub stream.Publisher
	stageOptions := []engine.StageBuilderOption{
		engine.WithChangeCallback(func() {
			if pub != nil {
				pub.Nudge()
			}
		}),
	}
	if cfg.Stage.Workers > 0 {
		stageOptions = append(stageOptions, engine.WithWorkers(cfg.Stage.Workers))
	}
	stage := engine.NewStage("main", r, stageOptions...)

	if err := populateStage(ctx, cfg, stage, st, log); err != nil {
		return err
	}

	client, err := connectBroker(cfg.MQTT, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	pub = stream.NewPublisher(client, stage,
		stream.WithFrameTopic(cfg.MQTT.FrameTopic),
		stream.WithCommandTopic(cfg.MQTT.CommandTopic),
		stream.WithQoS(byte(cfg.MQTT.QoS)),
		stream.WithDebounce(time.Duration(cfg.MQTT.DebounceMS)*time.Millisecond),
		stream.WithLogger(log),
		stream.WithStore(st),
	)
	if err := pub.Run(); err != nil {
		return err
	}
	pub.Nudge()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	pub.Stop()

	if cfg.Store.Autosave {
		if err := autosave(ctx, cfg, stage, st); err != nil {
			log.Error().Err(err).Msg("autosave failed")
		} else {
			log.Info().Str("snapshot", cfg.Store.Snapshot).Msg("autosaved")
		}
	}

	return nil
}

// populateStage loads the initial content: an explicit document when
// configured, otherwise the latest stored snapshot when one exists.
func populateStage(ctx context.Context, cfg MorphdConfig, stage engine.Stage, st store.Store, log zerolog.Logger) error {
	if cfg.Stage.Document != "" {
		doc, err := loader.NewLoader(loader.BackendTypeAuto).LoadDocument(cfg.Stage.Document)
		if err != nil {
			return fmt.Errorf("load document: %w", err)
		}
		ids, err := stage.AddDocument(doc)
		if err != nil {
			return fmt.Errorf("add document: %w", err)
		}
		log.Info().Str("document", cfg.Stage.Document).Int("objects", len(ids)).Msg("document loaded")
		return nil
	}

	ctx, span := telemetry.Tracer(serviceName).Start(ctx, "snapshot.load")
	defer span.End()

	snap, err := st.LoadSnapshot(ctx, cfg.Store.Snapshot, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info().Str("snapshot", cfg.Store.Snapshot).Msg("no stored snapshot, starting empty")
			return nil
		}
		return fmt.Errorf("load snapshot: %w", err)
	}
	ids, err := store.Restore(stage, snap)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	log.Info().Str("snapshot", snap.Name).Int64("revision", snap.Revision).Int("objects", len(ids)).Msg("snapshot restored")
	return nil
}

func autosave(ctx context.Context, cfg MorphdConfig, stage engine.Stage, st store.Store) error {
	ctx, span := telemetry.Tracer(serviceName).Start(ctx, "snapshot.save")
	defer span.End()

	snap, err := store.Capture(cfg.Store.Snapshot, stage)
	if err != nil {
		return err
	}
	_, err = st.SaveSnapshot(ctx, snap)
	return err
}

func connectBroker(cfg MQTTConfig, log zerolog.Logger) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info().Str("broker", cfg.Broker).Msg("connected")
		})
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, token.Error())
	}
	return client, nil
}

func initLogger(cfg LogConfig) (zerolog.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	builder := zerolog.New(output).Level(level).With().Str("app", serviceName)
	if cfg.Timestamp {
		builder = builder.Timestamp()
	}
	return builder.Logger(), nil
}

func parseLogLevel(level string) (zerolog.Level, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: unknown log level %q", level)
	}
	return parsed, nil
}
