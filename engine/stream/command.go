package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/store"
	"github.com/ralvey/morph-go/engine/variant"
)

// command is the JSON shape accepted on the command topic. Payload and
// material bodies travel as YAML text inside the JSON envelope, the same
// bodies the document loader and snapshot store use.
type command struct {
	Op       string `json:"op"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Payload  string `json:"payload,omitempty"`
	Material string `json:"material,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Doc      string `json:"doc,omitempty"`
}

// applyCommand parses and applies one command to the stage. A returned
// error means the command was dropped; the bridge itself keeps running.
func (p *publisher) applyCommand(ctx context.Context, data []byte) error {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("stream: parse command: %w", err)
	}

	switch cmd.Op {
	case "add":
		return p.applyAdd(cmd)
	case "become":
		return p.applyBecome(cmd)
	case "remove":
		obj, err := p.lookup(cmd)
		if err != nil {
			return err
		}
		p.stage.Remove(obj.ID())
		return nil
	case "enable":
		obj, err := p.lookup(cmd)
		if err != nil {
			return err
		}
		if cmd.Enabled == nil {
			return fmt.Errorf("stream: enable %q: enabled flag is required", cmd.Name)
		}
		return p.stage.SetEnabled(obj.ID(), *cmd.Enabled)
	case "material":
		obj, err := p.lookup(cmd)
		if err != nil {
			return err
		}
		if cmd.Material == "" {
			return fmt.Errorf("stream: material %q: material body is required", cmd.Name)
		}
		mat, err := material.Decode([]byte(cmd.Material))
		if err != nil {
			return fmt.Errorf("stream: material %q: %w", cmd.Name, err)
		}
		return p.stage.SetMaterial(obj.ID(), mat)
	case "save":
		return p.applySave(ctx, cmd)
	case "load":
		return p.applyLoad(ctx, cmd)
	default:
		return fmt.Errorf("stream: unknown op %q", cmd.Op)
	}
}

func (p *publisher) applyAdd(cmd command) error {
	if cmd.Name == "" {
		return fmt.Errorf("stream: add: name is required")
	}
	payload, err := variant.Decode(cmd.Kind, []byte(cmd.Payload))
	if err != nil {
		return fmt.Errorf("stream: add %q: %w", cmd.Name, err)
	}

	options := []mobject.MobjectBuilderOption{
		mobject.WithName(cmd.Name),
		mobject.WithPayload(payload),
	}
	if cmd.Material != "" {
		mat, err := material.Decode([]byte(cmd.Material))
		if err != nil {
			return fmt.Errorf("stream: add %q: %w", cmd.Name, err)
		}
		options = append(options, mobject.WithMaterial(mat))
	}
	if cmd.Enabled != nil {
		options = append(options, mobject.WithEnabled(*cmd.Enabled))
	}

	p.stage.Add(mobject.NewMobject(options...))
	return nil
}

func (p *publisher) applyBecome(cmd command) error {
	obj, err := p.lookup(cmd)
	if err != nil {
		return err
	}
	payload, err := variant.Decode(cmd.Kind, []byte(cmd.Payload))
	if err != nil {
		return fmt.Errorf("stream: become %q: %w", cmd.Name, err)
	}
	return p.stage.Become(obj.ID(), payload)
}

func (p *publisher) applySave(ctx context.Context, cmd command) error {
	if p.st == nil {
		return fmt.Errorf("stream: save: no store attached")
	}
	if cmd.Doc == "" {
		return fmt.Errorf("stream: save: doc name is required")
	}
	snap, err := store.Capture(cmd.Doc, p.stage)
	if err != nil {
		return fmt.Errorf("stream: save %q: %w", cmd.Doc, err)
	}
	revision, err := p.st.SaveSnapshot(ctx, snap)
	if err != nil {
		return fmt.Errorf("stream: save %q: %w", cmd.Doc, err)
	}
	p.log.Info().Str("doc", cmd.Doc).Int64("revision", revision).Msg("snapshot saved")
	return nil
}

func (p *publisher) applyLoad(ctx context.Context, cmd command) error {
	if p.st == nil {
		return fmt.Errorf("stream: load: no store attached")
	}
	if cmd.Doc == "" {
		return fmt.Errorf("stream: load: doc name is required")
	}
	snap, err := p.st.LoadSnapshot(ctx, cmd.Doc, 0)
	if err != nil {
		return fmt.Errorf("stream: load %q: %w", cmd.Doc, err)
	}
	p.stage.Clear()
	if _, err := store.Restore(p.stage, snap); err != nil {
		return fmt.Errorf("stream: load %q: %w", cmd.Doc, err)
	}
	p.log.Info().Str("doc", cmd.Doc).Int64("revision", snap.Revision).Msg("snapshot loaded")
	return nil
}

func (p *publisher) lookup(cmd command) (mobject.Mobject, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("stream: %s: name is required", cmd.Op)
	}
	obj := p.stage.Lookup(cmd.Name)
	if obj == nil {
		return nil, fmt.Errorf("stream: %s: no object named %q", cmd.Op, cmd.Name)
	}
	return obj, nil
}
