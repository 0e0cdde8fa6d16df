package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// featureEnvelope accepts either a single feature or a collection object.
type featureEnvelope struct {
	Feature  `yaml:",inline"`
	Features []Feature `json:"features" yaml:"features"`
}

// LoadFeatures reads features from a JSON or YAML file.
// The file may hold one feature, an array of features or an object with "features".
func LoadFeatures(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var features []Feature
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		features, err = DecodeYAML(data)
	default:
		features, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// name single unnamed features after their source file
	if len(features) == 1 && features[0].LogicalName() == "" {
		base := filepath.Base(path)
		features[0].FileName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return features, nil
}

// DecodeJSON decodes one feature, an array of features or a collection object.
func DecodeJSON(data []byte) ([]Feature, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if data[0] == '[' {
		var features []Feature
		if err := json.Unmarshal(data, &features); err != nil {
			return nil, err
		}
		return features, nil
	}

	var env featureEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	return env.unwrap(), nil
}

// DecodeYAML decodes the YAML equivalent of DecodeJSON input.
func DecodeYAML(data []byte) ([]Feature, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var features []Feature
		if err := node.Decode(&features); err != nil {
			return nil, err
		}
		return features, nil
	}

	var env featureEnvelope
	if err := node.Decode(&env); err != nil {
		return nil, err
	}

	return env.unwrap(), nil
}

func (e *featureEnvelope) unwrap() []Feature {
	if e.Features != nil {
		return e.Features
	}

	return []Feature{e.Feature}
}
