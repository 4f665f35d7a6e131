package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/perspective"
)

func newViewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "view <perspective>",
		Short: "Evaluate a perspective and print the matching items",
		Long:  "Runs the named perspective (by id or slug) against the store at the current instant.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func runView(cmd *cobra.Command, configPath, idOrSlug string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	res, err := perspective.Query(gormDB, idOrSlug, time.Now().In(loc))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", res.Perspective.Name)

	if len(res.Projects) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tNEXT REVIEW")
		for _, p := range res.Projects {
			review := "never reviewed"
			if p.NextReviewAt != nil {
				review = p.NextReviewAt.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, truncate(p.Name, 40), review)
		}
		w.Flush()
	}

	if len(res.Actions) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPROJECT\tDUE")
		for _, a := range res.Actions {
			proj := "-"
			if a.Project != nil {
				proj = a.Project.Name
			}
			due := "-"
			if a.DueAt != nil {
				due = a.DueAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, truncate(a.Title, 50), truncate(proj, 24), due)
		}
		w.Flush()
	}

	if len(res.Actions) == 0 && len(res.Projects) == 0 {
		fmt.Fprintln(out, "Nothing to show.")
	}

	for _, s := range res.Skipped {
		fmt.Fprintf(out, "warning: skipped rule %s/%s: %s\n", s.Field, s.Operator, s.Reason)
	}
	return nil
}
