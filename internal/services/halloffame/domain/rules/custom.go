package rules

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed custom_ribbons.yaml
var customRibbonTable []byte

// CustomRibbonBase is the index every externally registered custom ribbon
// has to exceed.
const CustomRibbonBase = 1000

// Generic custom ribbons occupy indexes GenericCustomBase..+GenericCustomCount-1.
const (
	GenericCustomBase  = 100
	GenericCustomCount = 20
)

// CustomDefinition is one row of the built-in custom ribbon table.
type CustomDefinition struct {
	Index       int    `yaml:"index"`
	Asset       string `yaml:"asset"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Supersedes is the code of the ribbon this one retires.
	Supersedes string `yaml:"supersedes"`
}

// CustomDefinitions decodes the embedded custom ribbon table.
func CustomDefinitions() ([]CustomDefinition, error) {
	var defs []CustomDefinition
	dec := yaml.NewDecoder(bytes.NewReader(customRibbonTable))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode custom ribbon table: %w", err)
	}
	return defs, nil
}

// CustomPrestige is the prestige of built-in custom ribbon index.
func CustomPrestige(index int) int {
	return -1000 + index
}
