// Package output renders command results. List-style results (status,
// regions, zones) come out as pterm tables by default and as JSON or YAML on
// request; single-resource results are flat key=value lines so they stay
// scriptable. Diagnostic logging never goes through here.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Mode selects the rendering of list-style results.
type Mode string

const (
	ModeTable Mode = "table"
	ModeJSON  Mode = "json"
	ModeYAML  Mode = "yaml"
)

// ParseMode validates an -o flag value. Empty means the table default.
func ParseMode(raw string) (Mode, error) {
	switch raw {
	case "", string(ModeTable):
		return ModeTable, nil
	case string(ModeJSON):
		return ModeJSON, nil
	case string(ModeYAML):
		return ModeYAML, nil
	default:
		return "", fmt.Errorf("invalid output mode %q (want table, json or yaml)", raw)
	}
}

// InitStyles applies the NO_COLOR convention before any table renders.
func InitStyles() {
	if os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
	}
}

// EmitJSON writes value as indented JSON to stdout.
func EmitJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// EmitYAML writes value as YAML to stdout.
func EmitYAML(value any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(value)
}

// KV prints one key=value line. Empty values are skipped so consumers can
// treat presence as meaning.
func KV(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s=%s\n", key, value)
}

func renderTable(rows [][]string) error {
	InitStyles()
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
