package loader

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

type yamlLoaderBackend struct{}

var _ loaderBackend = &yamlLoaderBackend{}

func newYAMLLoaderBackend() loaderBackend {
	return &yamlLoaderBackend{}
}

type yamlDocument struct {
	Name    string           `yaml:"name"`
	Objects []yamlObjectSpec `yaml:"objects"`
}

type yamlObjectSpec struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	Payload   interface{} `yaml:"payload"`
	Material  interface{} `yaml:"material"`
	Enabled   *bool       `yaml:"enabled"`
	Ephemeral bool        `yaml:"ephemeral"`
}

func (b *yamlLoaderBackend) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.LoadBytes("", data)
}

func (b *yamlLoaderBackend) LoadBytes(name string, data []byte) (*Document, error) {
	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{Name: raw.Name}
	if doc.Name == "" {
		doc.Name = name
	}
	for i, spec := range raw.Objects {
		payload, err := decodePayloadBody(spec.Kind, spec.Payload)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Name, err)
		}
		mat, err := decodeMaterialBody(spec.Material)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Name, err)
		}
		enabled := true
		if spec.Enabled != nil {
			enabled = *spec.Enabled
		}
		doc.Objects = append(doc.Objects, ObjectSpec{
			Name:      spec.Name,
			Kind:      payload.Kind().String(),
			Payload:   payload,
			Material:  mat,
			Enabled:   enabled,
			Ephemeral: spec.Ephemeral,
		})
	}
	return doc, nil
}
