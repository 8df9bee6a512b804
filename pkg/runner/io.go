package runner

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/burette/pkg/domain"
)

// Sink receives every recorded sample and the final snapshot. It lets
// the same pacing loop feed a colored TTY readout, an NDJSON pipe or a
// test recorder.
type Sink interface {
	// Sample is called after every accepted tick (and once for the
	// initial sample) with the current snapshot and its latest point.
	Sample(run *domain.Run, sample domain.Sample)

	// Done is called exactly once when the run stops, normally or not.
	Done(run *domain.Run)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Sample(*domain.Run, domain.Sample) {}
func (NopSink) Done(*domain.Run)                  {}

// Formatter renders one sample line; TextSink uses it so presentation
// layers can inject color without this package depending on them.
type Formatter func(run *domain.Run, sample domain.Sample) string

// TextSink writes one line per sample.
type TextSink struct {
	W      io.Writer
	Format Formatter
}

// NewTextSink creates a plain-text sink with the default format.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{W: w}
}

func (s *TextSink) Sample(run *domain.Run, sample domain.Sample) {
	if s.Format != nil {
		fmt.Fprintln(s.W, s.Format(run, sample))
		return
	}
	fmt.Fprintf(s.W, "t=%-8.2f v=%7.2f mL  pH %5.2f\n", run.Clock, sample.Volume, sample.PH)
}

func (s *TextSink) Done(run *domain.Run) {
	fmt.Fprintf(s.W, "run %s %s at %.2f mL\n", run.ID, run.Phase, run.Volume)
}

// JSONSink writes one JSON object per line, suitable for piping into
// chart tooling.
type JSONSink struct {
	W io.Writer
}

// NewJSONSink creates an NDJSON sink.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{W: w}
}

type jsonSample struct {
	RunID  string       `json:"run_id"`
	Phase  domain.Phase `json:"phase"`
	Clock  float64      `json:"clock"`
	Volume float64      `json:"volume"`
	PH     float64      `json:"ph"`
}

func (s *JSONSink) Sample(run *domain.Run, sample domain.Sample) {
	json.NewEncoder(s.W).Encode(jsonSample{
		RunID:  run.ID,
		Phase:  run.Phase,
		Clock:  run.Clock,
		Volume: sample.Volume,
		PH:     sample.PH,
	})
}

func (s *JSONSink) Done(run *domain.Run) {
	json.NewEncoder(s.W).Encode(map[string]any{
		"run_id": run.ID,
		"phase":  run.Phase,
		"volume": run.Volume,
		"done":   true,
	})
}
