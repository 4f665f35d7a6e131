package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/action"
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Action management commands",
	}

	cmd.AddCommand(newActionAddCmd())
	cmd.AddCommand(newActionListCmd())
	cmd.AddCommand(newActionShowCmd())
	cmd.AddCommand(newActionCompleteCmd())
	cmd.AddCommand(newActionDropCmd())
	cmd.AddCommand(newActionDeferCmd())
	cmd.AddCommand(newActionDepCmd())
	return cmd
}

func newActionAddCmd() *cobra.Command {
	var (
		configPath string
		title      string
		note       string
		projectID  string
		parentID   string
		flagged    bool
		estimate   int
		dueStr     string
		deferStr   string
		tagIDs     []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new action",
		Long:  "Creates a new action. Without --project it lands in the inbox.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := action.CreateOpts{
				Title:            title,
				Note:             note,
				ProjectID:        projectID,
				ParentID:         parentID,
				Flagged:          flagged,
				EstimatedMinutes: estimate,
				TagIDs:           tagIDs,
			}
			if dueStr != "" {
				t, err := parseWhen(dueStr)
				if err != nil {
					return fmt.Errorf("parse --due: %w", err)
				}
				opts.DueAt = &t
			}
			if deferStr != "" {
				t, err := parseWhen(deferStr)
				if err != nil {
					return fmt.Errorf("parse --defer: %w", err)
				}
				opts.DeferUntil = &t
			}
			return runActionAdd(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&title, "title", "", "action title (required)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&projectID, "project", "", "owning project ID")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent action ID")
	cmd.Flags().BoolVar(&flagged, "flagged", false, "mark as flagged")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	cmd.Flags().StringVar(&dueStr, "due", "", "due time (2006-01-02 or RFC3339)")
	cmd.Flags().StringVar(&deferStr, "defer", "", "defer until (2006-01-02 or RFC3339)")
	cmd.Flags().StringSliceVar(&tagIDs, "tag", nil, "tag ID (repeatable)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runActionAdd(cmd *cobra.Command, configPath string, opts action.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	a, err := action.Create(gormDB, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created action %s\n", a.ID)
	if a.ProjectID == nil {
		fmt.Fprintln(out, "Inbox item")
	}
	return nil
}

func newActionListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		projectID  string
		tagID      string
		flagged    bool
		inbox      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActionList(cmd, configPath, action.ListFilters{
				Status:    status,
				ProjectID: projectID,
				TagID:     tagID,
				Flagged:   flagged,
				Inbox:     inbox,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&projectID, "project", "", "filter by project")
	cmd.Flags().StringVar(&tagID, "tag", "", "filter by tag")
	cmd.Flags().BoolVar(&flagged, "flagged", false, "only flagged actions")
	cmd.Flags().BoolVar(&inbox, "inbox", false, "only inbox items")
	return cmd
}

func runActionList(cmd *cobra.Command, configPath string, filters action.ListFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	actions, err := action.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(actions) == 0 {
		fmt.Fprintln(out, "No actions found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROJECT\tDUE\tTAGS")
	for _, a := range actions {
		proj := "-"
		if a.ProjectID != nil {
			proj = *a.ProjectID
		}
		due := "-"
		if a.DueAt != nil {
			due = a.DueAt.Format("2006-01-02")
		}
		var tagNames []string
		for _, tg := range a.Tags {
			tagNames = append(tagNames, tg.Name)
		}
		tags := "-"
		if len(tagNames) > 0 {
			tags = strings.Join(tagNames, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, truncate(a.Title, 40), a.Status, proj, due, tags)
	}
	w.Flush()
	return nil
}

func newActionShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show action details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActionShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func runActionShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	a, err := action.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", a.ID)
	fmt.Fprintf(out, "Title:    %s\n", a.Title)
	fmt.Fprintf(out, "Status:   %s\n", a.Status)
	fmt.Fprintf(out, "Flagged:  %v\n", a.Flagged)
	if a.Project != nil {
		fmt.Fprintf(out, "Project:  %s (%s)\n", a.Project.Name, a.Project.ID)
	}
	if a.DueAt != nil {
		fmt.Fprintf(out, "Due:      %s\n", a.DueAt.Format(time.RFC3339))
	}
	if a.DeferUntil != nil {
		fmt.Fprintf(out, "Deferred: %s\n", a.DeferUntil.Format(time.RFC3339))
	}
	if a.EstimatedMinutes != nil {
		fmt.Fprintf(out, "Estimate: %dm\n", *a.EstimatedMinutes)
	}
	if len(a.Tags) > 0 {
		var names []string
		for _, tg := range a.Tags {
			names = append(names, tg.Name)
		}
		fmt.Fprintf(out, "Tags:     %s\n", strings.Join(names, ", "))
	}
	if len(a.Deps) > 0 {
		fmt.Fprintln(out, "Blocked by:")
		for _, d := range a.Deps {
			fmt.Fprintf(out, "  - %s (%s)\n", d.Blocker.Title, d.BlockedBy)
		}
	}
	if a.Note != "" {
		fmt.Fprintf(out, "Note:\n%s\n", a.Note)
	}
	return nil
}

func newActionCompleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an action completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := action.Complete(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func newActionDropCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "drop <id>",
		Short: "Mark an action dropped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := action.Drop(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func newActionDeferCmd() *cobra.Command {
	var (
		configPath string
		untilStr   string
	)

	cmd := &cobra.Command{
		Use:   "defer <id>",
		Short: "Defer an action until a later time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			until, err := parseWhen(untilStr)
			if err != nil {
				return fmt.Errorf("parse --until: %w", err)
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := action.Defer(gormDB, args[0], until); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deferred %s until %s\n", args[0], until.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().StringVar(&untilStr, "until", "", "defer until (2006-01-02 or RFC3339, required)")
	cmd.MarkFlagRequired("until")
	return cmd
}

func newActionDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage blocking dependencies",
	}

	cmd.AddCommand(newActionDepAddCmd())
	cmd.AddCommand(newActionDepRemoveCmd())
	return cmd
}

func newActionDepAddCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "add <action-id> <blocked-by-id>",
		Short: "Block an action on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := action.AddDep(gormDB, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now blocked by %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

func newActionDepRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "remove <action-id> <blocked-by-id>",
		Short: "Remove a blocking dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := action.RemoveDep(gormDB, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer blocked by %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	return cmd
}

// parseWhen accepts a bare date or a full RFC3339 timestamp.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not 2006-01-02 or RFC3339", s)
	}
	return t, nil
}
