package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doablehq/doable/internal/remind"
)

func newRemindCmd() *cobra.Command {
	var (
		configPath string
		daemon     bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a digest of overdue and due work",
		Long:  "Builds a digest of overdue actions, actions due today, and projects awaiting review, and delivers it via the configured notifier. With --daemon it keeps running on the configured cron schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(cmd, configPath, daemon)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Doable config file")
	cmd.Flags().BoolVar(&daemon, "daemon", false, "run on the configured schedule instead of once")
	return cmd
}

func runRemind(cmd *cobra.Command, configPath string, daemon bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	notifier, err := remind.FromConfig(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	opts := remind.RunOpts{
		DB:       gormDB,
		Notifier: notifier,
		Schedule: cfg.Remind.Schedule,
		Location: loc,
	}

	if !daemon {
		sent, err := remind.RunOnce(context.Background(), opts)
		if err != nil {
			return err
		}
		if !sent {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing due; digest suppressed.")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Remind daemon running on schedule %q\n", cfg.Remind.Schedule)
	return remind.Run(ctx, opts)
}
