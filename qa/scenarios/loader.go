package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/releaseplan/core/model"
)

// WindowDef is a scheduled window in a scenario file.
type WindowDef struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (w WindowDef) ToModel() model.Window {
	return model.Window{Start: w.Start, End: w.End}
}

type Expected struct {
	Windows []WindowDef `yaml:"windows"`
	Shifted int         `yaml:"shifted"`
	// Error is a substring of the expected error. The other fields are
	// ignored when set.
	Error string `yaml:"error,omitempty"`
}

// Scenario is an end-to-end planning case. Releases holds the content of the
// input file verbatim.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Releases    string   `yaml:"releases"`
	Expected    Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
