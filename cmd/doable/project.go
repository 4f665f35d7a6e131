package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/project"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project management commands",
	}

	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectUpdateCmd())
	cmd.AddCommand(newProjectReviewCmd())
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var (
		configPath string
		name       string
		note       string
		typ        string
		review     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectAdd(cmd, configPath, project.CreateOpts{
				Name:           name,
				Note:           note,
				Type:           typ,
				ReviewInterval: review,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&typ, "type", "parallel", "sequencing type (sequential, parallel, single_action)")
	cmd.Flags().StringVar(&review, "review", "", "review interval (e.g. 1w, 3d, 2m)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runProjectAdd(cmd *cobra.Command, configPath string, opts project.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	p, err := project.Create(gormDB, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.ID, p.Type)
	return nil
}

func newProjectListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		typ        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectList(cmd, configPath, project.ListFilters{Status: status, Type: typ})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&typ, "type", "", "filter by type")
	return cmd
}

func runProjectList(cmd *cobra.Command, configPath string, filters project.ListFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	projects, err := project.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tNEXT REVIEW")
	for _, p := range projects {
		review := "-"
		if p.NextReviewAt != nil {
			review = p.NextReviewAt.Format("2006-01-02")
		} else if p.ReviewInterval != "" {
			review = "pending"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 40), p.Type, p.Status, review)
	}
	w.Flush()
	return nil
}

func newProjectShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show project details and its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func runProjectShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	p, err := project.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:     %s\n", p.ID)
	fmt.Fprintf(out, "Name:   %s\n", p.Name)
	fmt.Fprintf(out, "Type:   %s\n", p.Type)
	fmt.Fprintf(out, "Status: %s\n", p.Status)
	if p.ReviewInterval != "" {
		fmt.Fprintf(out, "Review: every %s", p.ReviewInterval)
		if p.NextReviewAt != nil {
			fmt.Fprintf(out, ", next %s", p.NextReviewAt.Format("2006-01-02"))
		}
		fmt.Fprintln(out)
	}
	if p.Note != "" {
		fmt.Fprintf(out, "Note:   %s\n", p.Note)
	}
	if len(p.Actions) > 0 {
		fmt.Fprintln(out, "Actions:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, a := range p.Actions {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", a.ID, truncate(a.Title, 50), a.Status)
		}
		w.Flush()
	}
	return nil
}

func newProjectUpdateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		status     string
		typ        string
		review     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := map[string]interface{}{}
			if cmd.Flags().Changed("name") {
				updates["name"] = name
			}
			if cmd.Flags().Changed("status") {
				updates["status"] = status
			}
			if cmd.Flags().Changed("type") {
				updates["type"] = typ
			}
			if cmd.Flags().Changed("review") {
				updates["review_interval"] = review
			}
			if len(updates) == 0 {
				return fmt.Errorf("nothing to update")
			}

			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := project.Update(gormDB, args[0], updates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&status, "status", "", "new status (active, on_hold, completed, dropped)")
	cmd.Flags().StringVar(&typ, "type", "", "new sequencing type")
	cmd.Flags().StringVar(&review, "review", "", "new review interval")
	return cmd
}

func newProjectReviewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Mark a project reviewed now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := project.MarkReviewed(gormDB, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %s, next review %s\n",
				p.ID, p.NextReviewAt.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}
