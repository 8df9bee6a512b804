package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette/internal/presentation/tui"
)

var reagentsCmd = &cobra.Command{
	Use:   "reagents",
	Short: "Browse the reagent shelf",
	Long: `Lists and shows the reagents available for experiments. By default
the built-in shelf is used; point --shelf at a directory of markdown
reagent files to use your own.`,
}

var reagentsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all reagents on the shelf",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := environment(cmd)
		if err != nil {
			fatal(err)
		}
		catalog, err := openCatalog(env)
		if err != nil {
			fatal(err)
		}

		reagents, err := catalog.List(cmd.Context())
		if err != nil {
			fatal(fmt.Errorf("listing reagents: %w", err))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tFORMULA\tKIND\tSTRENGTH\tKa/Kb")
		for _, r := range reagents {
			ka := "-"
			if r.DissociationConstant > 0 {
				ka = fmt.Sprintf("%.2e", r.DissociationConstant)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Name, r.Formula, r.Kind, r.Strength, ka)
		}
		if err := w.Flush(); err != nil {
			fatal(err)
		}
	},
}

var reagentsShowCmd = &cobra.Command{
	Use:   "show <reagent-id>",
	Short: "Show one reagent, rendering its description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := environment(cmd)
		if err != nil {
			fatal(err)
		}
		catalog, err := openCatalog(env)
		if err != nil {
			fatal(err)
		}

		r, err := catalog.Get(cmd.Context(), args[0])
		if err != nil {
			fatal(err)
		}

		md := fmt.Sprintf("# %s (%s)\n\n- Kind: %s %s\n", r.Name, r.Formula, r.Strength, r.Kind)
		if r.DissociationConstant > 0 {
			md += fmt.Sprintf("- Dissociation constant: %.2e\n", r.DissociationConstant)
		}
		if r.Description != "" {
			md += "\n" + r.Description + "\n"
		}

		out, err := tui.NewRenderer()(md)
		if err != nil {
			fmt.Println(md)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(reagentsCmd)
	reagentsCmd.AddCommand(reagentsLsCmd)
	reagentsCmd.AddCommand(reagentsShowCmd)
}
