package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/burette/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// ReportMarkdown builds the end-of-run summary as markdown: setup,
// outcome, equivalence point and the ASCII curve.
func ReportMarkdown(run *domain.Run, equivalence domain.Sample) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Titration Report: %s\n\n", run.ID)

	cfg := run.Config
	fmt.Fprintf(&b, "**Analyte**: %.3f M %s %s, %.1f mL  \n",
		cfg.Analyte.Concentration, cfg.Analyte.Strength, cfg.Analyte.Kind, cfg.Analyte.Volume)
	fmt.Fprintf(&b, "**Titrant**: %.3f M %s %s at %.2f mL per time unit\n\n",
		cfg.Titrant.Concentration, cfg.Titrant.Strength, cfg.Titrant.Kind, cfg.Titrant.DeliveryRate)

	fmt.Fprintf(&b, "- Phase: `%s`\n", run.Phase)
	fmt.Fprintf(&b, "- Delivered: %.2f mL over %.2f time units\n", run.Volume, run.Clock)
	fmt.Fprintf(&b, "- Samples recorded: %d\n", len(run.Samples))
	fmt.Fprintf(&b, "- Equivalence point: %.2f mL at pH %.2f\n\n", equivalence.Volume, equivalence.PH)

	b.WriteString("## Curve\n\n```\n")
	b.WriteString(Plot(run.Samples, equivalence))
	b.WriteString("```\n")
	return b.String()
}

// RenderReport renders the report through glamour, falling back to the
// raw markdown if the terminal renderer fails.
func RenderReport(run *domain.Run, equivalence domain.Sample) string {
	md := ReportMarkdown(run, equivalence)
	out, err := NewRenderer()(md)
	if err != nil {
		return md
	}
	return out
}
