package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/releaseplan/core/selector"
)

// Report describes one evaluated release file.
type Report struct {
	RunID     string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Input     string        `json:"input" yaml:"input"`
	Output    string        `json:"output,omitempty" yaml:"output,omitempty"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Plan      selector.Plan `json:"plan" yaml:"plan"`
	// Optimum is the best count without moving releases, -1 if unknown.
	Optimum int `json:"fixed_optimum" yaml:"fixed_optimum"`
}

// Render writes the report as text, json or yaml.
func (r *Report) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return r.renderText(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Report) renderText(w io.Writer) error {
	st := r.Plan.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "input: %s\n", r.Input)
	fmt.Fprintf(&b, "candidates: %d (out of horizon %d, skipped %d)\n", st.Candidates, st.OutOfRange, st.Skipped)
	fmt.Fprintf(&b, "selected: %d (shifted %d)\n", st.Selected, st.Shifted)
	if r.Optimum >= 0 {
		fmt.Fprintf(&b, "fixed-day optimum: %d\n", r.Optimum)
	}
	fmt.Fprintf(&b, "utilization: %.0f%% (%d days)\n", st.Utilization*100, st.BusyDays)
	for _, win := range r.Plan.Windows {
		fmt.Fprintf(&b, "  %d %d\n", win.Start, win.End)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
