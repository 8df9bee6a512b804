package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette/internal/cli"
	"github.com/aretw0/burette/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check experiment files and reagent shelves for consistency",
	Long: `Validates an experiment file (-f) against the chemistry rules,
and/or a reagent shelf (--shelf) for duplicate or malformed entries.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fatal(err)
		}
		fmt.Println("OK")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("file", "f", "", "Experiment file (YAML or JSON)")
}

func runValidate(cmd *cobra.Command) error {
	env, err := environment(cmd)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	if file == "" && env.Shelf == "" {
		return errors.New("nothing to validate: pass -f and/or --shelf")
	}

	catalog, err := openCatalog(env)
	if err != nil {
		return err
	}

	if env.Shelf != "" {
		if err := validator.ValidateCatalog(cmd.Context(), catalog); err != nil {
			return fmt.Errorf("shelf %s: %w", env.Shelf, err)
		}
	}

	if file != "" {
		exp, err := cli.LoadExperiment(file)
		if err != nil {
			return err
		}
		cfg, err := exp.Config(cmd.Context(), catalog)
		if err != nil {
			return fmt.Errorf("experiment %s: %w", file, err)
		}
		if err := validator.ValidateExperiment(cfg); err != nil {
			return fmt.Errorf("experiment %s: %w", file, err)
		}
	}
	return nil
}
