package selector

import "github.com/kilianp07/releaseplan/core/model"

// Stats summarises a selection run.
type Stats struct {
	Candidates  int     `json:"candidates" yaml:"candidates"`
	OutOfRange  int     `json:"out_of_horizon" yaml:"out_of_horizon"`
	Skipped     int     `json:"skipped" yaml:"skipped"`
	Selected    int     `json:"selected" yaml:"selected"`
	Shifted     int     `json:"shifted" yaml:"shifted"`
	BusyDays    int     `json:"busy_days" yaml:"busy_days"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

func summarize(candidates int, decisions []Decision) Stats {
	st := Stats{Candidates: candidates}
	for _, d := range decisions {
		switch d.Outcome {
		case OutOfHorizon:
			st.OutOfRange++
		case Skipped:
			st.Skipped++
		case Shifted:
			st.Shifted++
			fallthrough
		case Placed:
			st.Selected++
			st.BusyDays += d.Window.Length()
		}
	}
	st.Utilization = float64(st.BusyDays) / float64(model.Horizon)
	return st
}
