package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/burette/pkg/domain"
)

const (
	plotWidth  = 60
	plotHeight = 15
)

// Plot renders the titration curve as an ASCII chart: volume along the
// x axis, pH 0..14 on the y axis, with the equivalence point marked.
func Plot(samples []domain.Sample, equivalence domain.Sample) string {
	if len(samples) == 0 {
		return "(no samples recorded)\n"
	}

	maxVolume := samples[len(samples)-1].Volume
	if equivalence.Volume > maxVolume {
		maxVolume = equivalence.Volume
	}
	if maxVolume <= 0 {
		maxVolume = 1
	}

	grid := make([][]rune, plotHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}

	col := func(volume float64) int {
		c := int(math.Round(volume / maxVolume * float64(plotWidth-1)))
		return min(max(c, 0), plotWidth-1)
	}
	row := func(ph float64) int {
		// Row 0 is pH 14, bottom row is pH 0.
		r := int(math.Round((14 - ph) / 14 * float64(plotHeight-1)))
		return min(max(r, 0), plotHeight-1)
	}

	for _, s := range samples {
		grid[row(s.PH)][col(s.Volume)] = '*'
	}
	grid[row(equivalence.PH)][col(equivalence.Volume)] = 'E'

	var b strings.Builder
	for i, line := range grid {
		ph := 14 - float64(i)*14/float64(plotHeight-1)
		fmt.Fprintf(&b, "%5.1f |%s\n", ph, string(line))
	}
	b.WriteString("      +" + strings.Repeat("-", plotWidth) + "\n")
	fmt.Fprintf(&b, "       0%*s\n", plotWidth-1, fmt.Sprintf("%.1f mL", maxVolume))
	return b.String()
}
