package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	running := PhaseRunning

	tests := []struct {
		name     string
		old      *Run
		new      *Run
		wantDiff *RunDiff
	}{
		{
			name: "initial load (old is nil)",
			old:  nil,
			new: &Run{
				ID:      "exp-1",
				Phase:   PhaseRunning,
				Volume:  1.5,
				Clock:   3,
				Samples: []Sample{{Volume: 0, PH: 1.0}},
			},
			wantDiff: &RunDiff{
				RunID:    "exp-1",
				Phase:    &running,
				Volume:   ptrOf(1.5),
				Clock:    ptrOf(3.0),
				Stirring: ptrOf(false),
				Samples:  []Sample{{Volume: 0, PH: 1.0}},
			},
		},
		{
			name: "no changes",
			old:  &Run{ID: "exp-1", Phase: PhaseRunning, Volume: 1.5},
			new:  &Run{ID: "exp-1", Phase: PhaseRunning, Volume: 1.5},
			wantDiff: &RunDiff{
				RunID: "exp-1",
			},
		},
		{
			name: "tick appends sample and moves volume",
			old: &Run{
				ID: "exp-1", Phase: PhaseRunning, Volume: 1.0, Clock: 2,
				Samples: []Sample{{Volume: 0, PH: 1.0}, {Volume: 1, PH: 1.1}},
			},
			new: &Run{
				ID: "exp-1", Phase: PhaseRunning, Volume: 1.5, Clock: 3,
				Samples: []Sample{{Volume: 0, PH: 1.0}, {Volume: 1, PH: 1.1}, {Volume: 1.5, PH: 1.2}},
			},
			wantDiff: &RunDiff{
				RunID:   "exp-1",
				Volume:  ptrOf(1.5),
				Clock:   ptrOf(3.0),
				Samples: []Sample{{Volume: 1.5, PH: 1.2}},
			},
		},
		{
			name: "stir toggle only",
			old:  &Run{ID: "exp-1", Phase: PhasePaused},
			new:  &Run{ID: "exp-1", Phase: PhasePaused, Stirring: true},
			wantDiff: &RunDiff{
				RunID:    "exp-1",
				Stirring: ptrOf(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if got == nil {
				t.Fatalf("Diff() = nil, want %v", tt.wantDiff)
			}

			if got.RunID != tt.wantDiff.RunID {
				t.Errorf("RunID = %v, want %v", got.RunID, tt.wantDiff.RunID)
			}
			if !equalPtr(got.Phase, tt.wantDiff.Phase) {
				t.Errorf("Phase = %v, want %v", got.Phase, tt.wantDiff.Phase)
			}
			if !equalPtr(got.Volume, tt.wantDiff.Volume) {
				t.Errorf("Volume = %v, want %v", got.Volume, tt.wantDiff.Volume)
			}
			if !equalPtr(got.Clock, tt.wantDiff.Clock) {
				t.Errorf("Clock = %v, want %v", got.Clock, tt.wantDiff.Clock)
			}
			if !equalPtr(got.Stirring, tt.wantDiff.Stirring) {
				t.Errorf("Stirring = %v, want %v", got.Stirring, tt.wantDiff.Stirring)
			}
			if !reflect.DeepEqual(got.Samples, tt.wantDiff.Samples) {
				t.Errorf("Samples = %v, want %v", got.Samples, tt.wantDiff.Samples)
			}

			wantEmpty := tt.wantDiff.Phase == nil && tt.wantDiff.Volume == nil &&
				tt.wantDiff.Clock == nil && tt.wantDiff.Stirring == nil && len(tt.wantDiff.Samples) == 0
			if got.Empty() != wantEmpty {
				t.Errorf("Empty() = %v, want %v", got.Empty(), wantEmpty)
			}
		})
	}
}

func TestDiffJSONOmitsUnchanged(t *testing.T) {
	old := &Run{ID: "exp-1", Phase: PhaseRunning, Volume: 1.0}
	new := &Run{ID: "exp-1", Phase: PhaseRunning, Volume: 2.0}

	diff := Diff(old, new)
	bytes, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(bytes), `"phase"`) {
		t.Errorf("JSON should omit unchanged phase, got: %s", string(bytes))
	}
	if !strings.Contains(string(bytes), `"volume":2`) {
		t.Errorf("JSON should carry the new volume, got: %s", string(bytes))
	}
}

func ptrOf[T any](v T) *T {
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
