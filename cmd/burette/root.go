package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette/internal/cli"
	"github.com/aretw0/burette/internal/logging"
	loamadapter "github.com/aretw0/burette/pkg/adapters/loam"
	"github.com/aretw0/burette/pkg/adapters/memory"
	"github.com/aretw0/burette/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "burette",
	Short: "Burette is an acid-base titration simulator",
	Long: `Burette simulates acid-base titrations: it delivers titrant tick by
tick, records the pH curve and reports the equivalence point. Runs can
be driven interactively, served over HTTP or exposed to AI agents via
MCP, and persisted to memory, files, sqlite, redis or postgres.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "Run store (memory, file:DIR, sqlite:PATH, redis://, postgres://)")
	rootCmd.PersistentFlags().String("shelf", "", "Reagent shelf directory (markdown catalog); empty uses the built-in shelf")
}

// environment returns the BURETTE_* settings with flag overrides applied.
func environment(cmd *cobra.Command) (cli.Env, error) {
	env, err := cli.LoadEnv()
	if err != nil {
		return env, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		env.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		env.Store = v
	}
	if v, _ := cmd.Flags().GetString("shelf"); v != "" {
		env.Shelf = v
	}
	return env, nil
}

func newLogger(env cli.Env) (*slog.Logger, error) {
	level, err := env.SlogLevel()
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func openStore(env cli.Env) (ports.RunStore, func() error, error) {
	return cli.OpenStore(env.Store)
}

// openCatalog resolves the reagent catalog: a loam shelf directory when
// configured, the built-in standard shelf otherwise.
func openCatalog(env cli.Env) (ports.Catalog, error) {
	if env.Shelf == "" {
		return memory.NewStandardCatalog(), nil
	}
	return loamadapter.Open(env.Shelf)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
