package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted runs",
	Long:  `List, inspect, and remove run snapshots in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all persisted runs",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := environment(cmd)
		if err != nil {
			fatal(err)
		}
		store, closeStore, err := openStore(env)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = closeStore() }()

		ids, err := store.List(cmd.Context())
		if err != nil {
			fatal(fmt.Errorf("listing runs: %w", err))
		}
		if len(ids) == 0 {
			fmt.Println("No persisted runs found.")
			return
		}
		fmt.Println("Persisted runs:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Inspect the snapshot of a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := environment(cmd)
		if err != nil {
			fatal(err)
		}
		store, closeStore, err := openStore(env)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = closeStore() }()

		run, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			fatal(fmt.Errorf("loading run %q: %w", args[0], err))
		}

		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more persisted runs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := environment(cmd)
		if err != nil {
			fatal(err)
		}
		store, closeStore, err := openStore(env)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = closeStore() }()

		hasError := false
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing %q: %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed run %q\n", id)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
