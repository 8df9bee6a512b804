package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/internal/cli"
	"github.com/aretw0/burette/internal/presentation/tui"
	"github.com/aretw0/burette/pkg/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a titration in the foreground",
	Long: `Runs one titration to completion, pacing titrant delivery in real
time and printing each recorded sample. Interrupting with Ctrl-C stops
the run; with --save the snapshot is persisted so it can be resumed
later with --resume.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTitration(cmd); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("file", "f", "", "Experiment file (YAML or JSON)")
	runCmd.Flags().String("resume", "", "Resume a persisted run by ID")
	runCmd.Flags().String("id", "", "Run identifier (default: derived from the clock)")
	runCmd.Flags().Float64("speed", 1, "Simulated time units per wall-clock second")
	runCmd.Flags().Duration("interval", 100*time.Millisecond, "Tick interval")
	runCmd.Flags().Duration("duration", 0, "Stop after this much wall-clock time (0 = run to completion)")
	runCmd.Flags().Bool("json", false, "Emit NDJSON samples instead of text")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and end-of-run report")
	runCmd.Flags().Bool("save", false, "Persist the run snapshot to the configured store")
}

func runTitration(cmd *cobra.Command) error {
	env, err := environment(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(env)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	resume, _ := cmd.Flags().GetString("resume")
	id, _ := cmd.Flags().GetString("id")
	speed, _ := cmd.Flags().GetFloat64("speed")
	interval, _ := cmd.Flags().GetDuration("interval")
	jsonMode, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	save, _ := cmd.Flags().GetBool("save")

	if (file == "") == (resume == "") {
		return errors.New("exactly one of --file or --resume is required")
	}

	store, closeStore, err := openStore(env)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	sc := cli.NewSignalContext(context.Background())
	defer sc.Release()

	var eng *burette.Engine
	if resume != "" {
		snapshot, err := store.Load(sc, resume)
		if err != nil {
			return fmt.Errorf("resuming run %q: %w", resume, err)
		}
		eng, err = burette.Restore(snapshot, burette.WithLogger(logger))
		if err != nil {
			return err
		}
	} else {
		exp, err := cli.LoadExperiment(file)
		if err != nil {
			return err
		}
		catalog, err := openCatalog(env)
		if err != nil {
			return err
		}
		cfg, err := exp.Config(sc, catalog)
		if err != nil {
			return err
		}
		if id == "" {
			id = exp.ID
		}
		opts := []burette.Option{burette.WithLogger(logger)}
		if id != "" {
			opts = append(opts, burette.WithID(id))
		}
		eng, err = burette.New(cfg, opts...)
		if err != nil {
			return err
		}
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !jsonMode
	if interactive && !quiet {
		tui.PrintBanner()
	}

	var sink runner.Sink
	switch {
	case jsonMode:
		sink = runner.NewJSONSink(os.Stdout)
	case interactive:
		sink = &runner.TextSink{W: os.Stdout, Format: tui.Formatter()}
	default:
		sink = runner.NewTextSink(os.Stdout)
	}

	runnerOpts := []runner.Option{
		runner.WithSink(sink),
		runner.WithLogger(logger),
		runner.WithInterval(interval),
		runner.WithSpeed(speed),
	}
	if budget, _ := cmd.Flags().GetDuration("duration"); budget > 0 {
		runnerOpts = append(runnerOpts, runner.WithBudget(budget))
	}

	run, runErr := runner.New(eng, runnerOpts...).Run(sc)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}

	if save && run != nil {
		if err := store.Save(context.Background(), run); err != nil {
			return fmt.Errorf("saving run snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved run %q; resume with: burette run --resume %s --save\n", run.ID, run.ID)
	}

	if sig := sc.Signal(); sig != nil {
		fmt.Fprintf(os.Stderr, "Interrupted by %v\n", sig)
		return nil
	}

	if interactive && !quiet && run != nil {
		fmt.Println(tui.RenderReport(run, eng.Equivalence()))
	}
	return nil
}
