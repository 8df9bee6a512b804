package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/internal/cli"
	"github.com/aretw0/burette/internal/presentation/tui"
	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Compute a full titration curve offline",
	Long: `Computes the complete titration curve for an experiment without
pacing, from zero to the volume cap, and prints it as a table, CSV,
JSON or an ASCII plot.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCurve(cmd); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(curveCmd)

	curveCmd.Flags().StringP("file", "f", "", "Experiment file (YAML or JSON)")
	curveCmd.Flags().Int("points", 50, "Number of samples across the curve")
	curveCmd.Flags().Bool("csv", false, "Emit volume,ph CSV")
	curveCmd.Flags().Bool("json", false, "Emit a JSON document")
	curveCmd.Flags().Bool("plot", false, "Render an ASCII plot")
	_ = curveCmd.MarkFlagRequired("file")
}

func runCurve(cmd *cobra.Command) error {
	env, err := environment(cmd)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	points, _ := cmd.Flags().GetInt("points")
	csvMode, _ := cmd.Flags().GetBool("csv")
	jsonMode, _ := cmd.Flags().GetBool("json")
	plotMode, _ := cmd.Flags().GetBool("plot")

	if points < 2 {
		return errors.New("--points must be at least 2")
	}

	exp, err := cli.LoadExperiment(file)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(env)
	if err != nil {
		return err
	}
	cfg, err := exp.Config(cmd.Context(), catalog)
	if err != nil {
		return err
	}

	samples, equivalence, err := computeCurve(cmd.Context(), cfg, points)
	if err != nil {
		return err
	}

	switch {
	case csvMode:
		fmt.Println("volume,ph")
		for _, s := range samples {
			fmt.Printf("%s,%s\n",
				strconv.FormatFloat(s.Volume, 'g', -1, 64),
				strconv.FormatFloat(s.PH, 'g', -1, 64))
		}
	case jsonMode:
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"samples":     samples,
			"equivalence": equivalence,
		})
	case plotMode:
		fmt.Print(tui.Plot(samples, equivalence))
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VOLUME (mL)\tpH")
		for _, s := range samples {
			fmt.Fprintf(w, "%.3f\t%.3f\n", s.Volume, s.PH)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nEquivalence point: %.2f mL at pH %.2f\n", equivalence.Volume, equivalence.PH)
	}
	return nil
}

// computeCurve drives an engine to the volume cap in equal steps. The
// engine validates the config and enforces the same monotonic-volume
// rules as a live run.
func computeCurve(ctx context.Context, cfg domain.Config, points int) ([]domain.Sample, domain.Sample, error) {
	eng, err := burette.New(cfg)
	if err != nil {
		return nil, domain.Sample{}, err
	}
	if err := eng.Start(ctx); err != nil {
		return nil, domain.Sample{}, err
	}

	dt := chem.MaxVolume(cfg) / cfg.Titrant.DeliveryRate / float64(points-1)
	for eng.Phase() == domain.PhaseRunning {
		if err := eng.Tick(ctx, dt); err != nil {
			return nil, domain.Sample{}, err
		}
	}
	return eng.Curve(), eng.Equivalence(), nil
}
