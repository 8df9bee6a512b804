package tui

import (
	"fmt"

	"github.com/muesli/termenv"

	"github.com/aretw0/burette/pkg/domain"
)

// phColor maps a pH value onto the indicator-strip palette: red for
// strong acid through green at neutral to blue for strong base.
func phColor(ph float64) string {
	switch {
	case ph < 3:
		return "#ef4444"
	case ph < 6:
		return "#f97316"
	case ph < 8:
		return "#22c55e"
	case ph < 11:
		return "#06b6d4"
	default:
		return "#3b82f6"
	}
}

// Readout renders one colored status line for a sample. Off-TTY the
// color codes degrade to plain text via termenv's profile detection.
func Readout(run *domain.Run, sample domain.Sample) string {
	p := termenv.ColorProfile()

	ph := termenv.String(fmt.Sprintf("pH %5.2f", sample.PH)).
		Foreground(p.Color(phColor(sample.PH))).
		Bold()

	stir := " "
	if run.Stirring {
		stir = "~"
	}

	return fmt.Sprintf("t=%-8.2f %s v=%7.2f mL  %s", run.Clock, stir, sample.Volume, ph)
}

// Formatter adapts Readout to the runner's sink formatter signature.
func Formatter() func(run *domain.Run, sample domain.Sample) string {
	return Readout
}
