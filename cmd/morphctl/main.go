package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// command mirrors the JSON envelope the daemon consumes on its command
// topic. Payload and material bodies are YAML text.
type command struct {
	Op       string `json:"op"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Payload  string `json:"payload,omitempty"`
	Material string `json:"material,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Doc      string `json:"doc,omitempty"`
}

type connection struct {
	broker   string
	clientID string
	username string
	password string
	topic    string
	qos      int
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "morphctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: morphctl <add|become|remove|enable|material|save|load> [flags]")
	}

	op := args[0]
	flags := flag.NewFlagSet(op, flag.ExitOnError)
	conn := &connection{}
	flags.StringVar(&conn.broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flags.StringVar(&conn.clientID, "client-id", "morphctl", "MQTT client id")
	flags.StringVar(&conn.username, "username", "", "MQTT username")
	flags.StringVar(&conn.password, "password", "", "MQTT password")
	flags.StringVar(&conn.topic, "topic", "morph/commands", "command topic")
	flags.IntVar(&conn.qos, "qos", 1, "MQTT quality of service")

	name := flags.String("name", "", "object name")
	kind := flags.String("kind", "", "payload kind")
	payload := flags.String("payload", "", "payload YAML, inline or @file")
	materialBody := flags.String("material", "", "material YAML, inline or @file")
	enabled := flags.Bool("enabled", true, "object visibility")
	doc := flags.String("doc", "", "snapshot name")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	enabledSet := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "enabled" {
			enabledSet = true
		}
	})

	cmd, err := buildCommand(op, *name, *kind, *payload, *materialBody, *enabled, enabledSet, *doc)
	if err != nil {
		return err
	}
	return publish(conn, cmd)
}

func buildCommand(op, name, kind, payload, materialBody string, enabled, enabledSet bool, doc string) (command, error) {
	cmd := command{Op: op, Name: name, Kind: kind, Doc: doc}

	var err error
	if cmd.Payload, err = resolveBody(payload); err != nil {
		return command{}, fmt.Errorf("payload: %w", err)
	}
	if cmd.Material, err = resolveBody(materialBody); err != nil {
		return command{}, fmt.Errorf("material: %w", err)
	}

	switch op {
	case "add":
		if name == "" || kind == "" {
			return command{}, fmt.Errorf("add requires -name and -kind")
		}
		if enabledSet {
			cmd.Enabled = &enabled
		}
	case "become":
		if name == "" || kind == "" {
			return command{}, fmt.Errorf("become requires -name and -kind")
		}
	case "remove":
		if name == "" {
			return command{}, fmt.Errorf("remove requires -name")
		}
	case "enable":
		if name == "" {
			return command{}, fmt.Errorf("enable requires -name")
		}
		cmd.Enabled = &enabled
	case "material":
		if name == "" || cmd.Material == "" {
			return command{}, fmt.Errorf("material requires -name and -material")
		}
	case "save", "load":
		if doc == "" {
			return command{}, fmt.Errorf("%s requires -doc", op)
		}
	default:
		return command{}, fmt.Errorf("unknown subcommand %q", op)
	}

	return cmd, nil
}

// resolveBody returns the body text, reading it from a file when the
// value starts with @.
func resolveBody(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func publish(conn *connection, cmd command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	options := mqtt.NewClientOptions().
		AddBroker(conn.broker).
		SetClientID(conn.clientID).
		SetUsername(conn.username).
		SetPassword(conn.password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", conn.broker, token.Error())
	}
	defer client.Disconnect(250)

	if token := client.Publish(conn.topic, byte(conn.qos), false, data); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", conn.topic, token.Error())
	}

	fmt.Printf("%s %s\n", cmd.Op, data)
	return nil
}
