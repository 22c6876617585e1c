package model

// Horizon is the number of days in a sprint. Days are numbered 1..Horizon.
const Horizon = 10

// Release is a candidate release window: it is requested to start on Day and
// occupies Length consecutive days.
type Release struct {
	Day    int `json:"day" yaml:"day"`
	Length int `json:"length" yaml:"length"`
}

// Finish returns the last day occupied by the release when it starts on Day.
func (r Release) Finish() int { return r.Day + r.Length - 1 }

// Fits reports whether the release fits in the sprint at its requested day.
func (r Release) Fits() bool { return r.Finish() <= Horizon }

// Window is a scheduled release. Start and End are inclusive days.
type Window struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Length returns the number of days covered by the window.
func (w Window) Length() int { return w.End - w.Start + 1 }

// Overlaps reports whether both windows share at least one day.
func (w Window) Overlaps(o Window) bool {
	return w.Start <= o.End && o.Start <= w.End
}
