package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/regquant/drcsa/scenario"
)

// requestFile is the on-disk shape of a computation request: a baseline plus
// any number of alternate scenarios, YAML or JSON.
type requestFile struct {
	Policy    string              `json:"policy,omitempty" yaml:"policy,omitempty"`
	Baseline  scenario.Scenario   `json:"baseline" yaml:"baseline"`
	Scenarios []scenario.Scenario `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}

func loadRequestFile(path string) (*requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	req := &requestFile{}
	if err := yaml.Unmarshal(data, req); err != nil {
		if jsonErr := json.Unmarshal(data, req); jsonErr != nil {
			return nil, fmt.Errorf("parse request file (tried YAML and JSON): %w", err)
		}
	}
	return req, nil
}
