package selector

import (
	"cmp"
	"slices"

	"github.com/kilianp07/releaseplan/core/model"
)

// Outcome describes what happened to a candidate during selection.
type Outcome int

const (
	// Placed means the release was scheduled on its requested day.
	Placed Outcome = iota
	// Shifted means the release was scheduled later than requested to avoid
	// an earlier release.
	Shifted
	// Skipped means the release fit on its own but pushing it past the
	// previous release would overflow the sprint.
	Skipped
	// OutOfHorizon means the release ends after the last day of the sprint
	// even when started on its requested day.
	OutOfHorizon
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case Shifted:
		return "shifted"
	case Skipped:
		return "skipped"
	case OutOfHorizon:
		return "out_of_horizon"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON and YAML reports.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Decision records the outcome for a single candidate. Window is only set
// for Placed and Shifted releases.
type Decision struct {
	Release model.Release `json:"release" yaml:"release"`
	Outcome Outcome       `json:"outcome" yaml:"outcome"`
	Window  *model.Window `json:"window,omitempty" yaml:"window,omitempty"`
}

// Plan is the result of a selection together with its decisions.
type Plan struct {
	Windows   []model.Window `json:"windows" yaml:"windows"`
	Decisions []Decision     `json:"decisions" yaml:"decisions"`
	Stats     Stats          `json:"stats" yaml:"stats"`
}

// Select returns the windows scheduled for releases, ordered by start day.
// Inputs are expected to hold days and lengths in [1, model.Horizon].
func Select(releases []model.Release) []model.Window {
	schedule, _ := run(releases)
	return schedule.windows()
}

// Explain runs the same selection as Select and reports the decision taken
// for each candidate. Decisions follow processing order; releases that do
// not fit the sprint come last, in input order.
func Explain(releases []model.Release) Plan {
	schedule, decisions := run(releases)
	windows := schedule.windows()
	return Plan{
		Windows:   windows,
		Decisions: decisions,
		Stats:     summarize(len(releases), decisions),
	}
}

// schedule holds, for each day, the length of the release starting that
// day. Index 0 is unused so that indices match day numbers.
type schedule [model.Horizon + 1]int

func (s *schedule) windows() []model.Window {
	res := make([]model.Window, 0, model.Horizon)
	for day := 1; day <= model.Horizon; day++ {
		if l := s[day]; l > 0 {
			res = append(res, model.Window{Start: day, End: day + l - 1})
		}
	}
	return res
}

func run(releases []model.Release) (*schedule, []Decision) {
	cands := make([]model.Release, 0, len(releases))
	var rejected []Decision
	for _, r := range releases {
		if !r.Fits() {
			rejected = append(rejected, Decision{Release: r, Outcome: OutOfHorizon})
			continue
		}
		cands = append(cands, r)
	}
	slices.SortFunc(cands, byFinish)

	var s schedule
	decisions := make([]Decision, 0, len(releases))
	last := 0
	for _, c := range cands {
		start := max(last+1, c.Day)
		end := start + c.Length - 1
		if end > model.Horizon {
			decisions = append(decisions, Decision{Release: c, Outcome: Skipped})
			continue
		}
		s[start] = c.Length
		last = end
		outcome := Placed
		if start != c.Day {
			outcome = Shifted
		}
		decisions = append(decisions, Decision{
			Release: c,
			Outcome: outcome,
			Window:  &model.Window{Start: start, End: end},
		})
	}
	return &s, append(decisions, rejected...)
}

// byFinish orders candidates by finish day, then by requested day, then by
// length.
func byFinish(a, b model.Release) int {
	if c := cmp.Compare(a.Finish(), b.Finish()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp.Compare(a.Length, b.Length)
}
