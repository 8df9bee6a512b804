package domain

// RunDiff represents the changes between two run snapshots.
// It is designed to be serialized to JSON for partial updates on
// streaming clients: only fields that changed are present.
type RunDiff struct {
	// RunID is always present to identify the target.
	RunID string `json:"run_id"`

	Phase    *Phase   `json:"phase,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`
	Clock    *float64 `json:"clock,omitempty"`
	Stirring *bool    `json:"stirring,omitempty"`

	// Samples contains only points appended since the old snapshot.
	// The curve is append-only, so clients can concatenate.
	Samples []Sample `json:"samples,omitempty"`
}

// Empty reports whether the diff carries no change at all.
func (d *RunDiff) Empty() bool {
	return d.Phase == nil && d.Volume == nil && d.Clock == nil &&
		d.Stirring == nil && len(d.Samples) == 0
}

// Diff calculates the difference between two snapshots of the same run.
// If oldRun is nil, it returns a diff representing the entire newRun
// (initial load). A reset empties the curve, so clients seeing a phase
// flip back to idle should re-fetch the full snapshot.
func Diff(oldRun, newRun *Run) *RunDiff {
	if newRun == nil {
		return nil
	}

	diff := &RunDiff{RunID: newRun.ID}

	if oldRun == nil || oldRun.Phase != newRun.Phase {
		phase := newRun.Phase
		diff.Phase = &phase
	}
	if oldRun == nil || oldRun.Volume != newRun.Volume {
		volume := newRun.Volume
		diff.Volume = &volume
	}
	if oldRun == nil || oldRun.Clock != newRun.Clock {
		clock := newRun.Clock
		diff.Clock = &clock
	}
	if oldRun == nil || oldRun.Stirring != newRun.Stirring {
		stirring := newRun.Stirring
		diff.Stirring = &stirring
	}

	from := 0
	if oldRun != nil {
		from = len(oldRun.Samples)
	}
	if from < len(newRun.Samples) {
		appended := newRun.Samples[from:]
		diff.Samples = make([]Sample, len(appended))
		copy(diff.Samples, appended)
	}

	return diff
}
