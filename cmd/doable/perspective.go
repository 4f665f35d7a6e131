package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/perspective"
)

func newPerspectiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perspective",
		Short: "Perspective management commands",
	}

	cmd.AddCommand(newPerspectiveListCmd())
	cmd.AddCommand(newPerspectiveAddCmd())
	cmd.AddCommand(newPerspectiveRemoveCmd())
	return cmd
}

func newPerspectiveListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List perspectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			perspectives, err := perspective.List(gormDB)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tNAME\tBUILT-IN")
			for _, p := range perspectives {
				builtin := ""
				if p.BuiltIn {
					builtin = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Slug, p.Name, builtin)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func newPerspectiveAddCmd() *cobra.Command {
	var (
		configPath  string
		slug        string
		name        string
		filterRules string
		sortRules   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom perspective",
		Long: `Creates a custom perspective from JSON rule arrays, for example:

  doable perspective add --slug errands --name Errands \
    --filter '[{"field":"tag","operator":"has","value":"tg-abc12"},{"field":"available","operator":"eq","value":"true"}]' \
    --sort '[{"field":"due_at","direction":"asc"}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := perspective.Create(gormDB, perspective.CreateOpts{
				Slug:        slug,
				Name:        name,
				FilterRules: filterRules,
				SortRules:   sortRules,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created perspective %s (%s)\n", p.ID, p.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&slug, "slug", "", "URL-safe identifier (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&filterRules, "filter", "[]", "filter rules JSON array")
	cmd.Flags().StringVar(&sortRules, "sort", "[]", "sort rules JSON array")
	cmd.MarkFlagRequired("slug")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newPerspectiveRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "remove <id-or-slug>",
		Short: "Remove a custom perspective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := perspective.Delete(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}
