package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/tag"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag management commands",
	}

	cmd.AddCommand(newTagAddCmd())
	cmd.AddCommand(newTagListCmd())
	return cmd
}

func newTagAddCmd() *cobra.Command {
	var (
		configPath string
		name       string
		parentID   string
		from       string
		until      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new tag",
		Long:  "Creates a tag. With --from and --until, actions carrying the tag are only available inside that daily window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			t, err := tag.Create(gormDB, tag.CreateOpts{
				Name:           name,
				ParentID:       parentID,
				AvailableFrom:  from,
				AvailableUntil: until,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&name, "name", "", "tag name (required)")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent tag ID")
	cmd.Flags().StringVar(&from, "from", "", "window start (HH:MM)")
	cmd.Flags().StringVar(&until, "until", "", "window end (HH:MM)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newTagListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func runTagList(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	tags, err := tag.List(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWINDOW")
	for _, t := range tags {
		window := "-"
		if t.Windowed() {
			window = *t.AvailableFrom + "-" + *t.AvailableUntil
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, window)
	}
	w.Flush()
	return nil
}
