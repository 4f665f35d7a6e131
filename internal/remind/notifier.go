// Package remind builds scheduled digests of overdue work and delivers
// them to a chat platform or stdout.
package remind

import (
	"context"
	"fmt"
	"io"

	"github.com/doablehq/doable/internal/config"
)

// Notifier delivers one digest message to its destination.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// StdoutNotifier writes digests to a writer. It is the default when no
// chat platform is configured.
type StdoutNotifier struct {
	Out io.Writer
}

func (n *StdoutNotifier) Send(_ context.Context, title, body string) error {
	if _, err := fmt.Fprintf(n.Out, "%s\n\n%s\n", title, body); err != nil {
		return fmt.Errorf("remind: write digest: %w", err)
	}
	return nil
}

// FromConfig selects and constructs the notifier named in the remind
// configuration.
func FromConfig(cfg *config.Config, out io.Writer) (Notifier, error) {
	switch cfg.Remind.Notifier {
	case "", "stdout":
		return &StdoutNotifier{Out: out}, nil
	case "slack":
		return NewSlack(SlackOpts{
			BotToken: cfg.Remind.Slack.BotToken,
			Channel:  cfg.Remind.Slack.Channel,
		})
	case "discord":
		return NewDiscord(DiscordOpts{
			BotToken:  cfg.Remind.Discord.BotToken,
			ChannelID: cfg.Remind.Discord.ChannelID,
		})
	default:
		return nil, fmt.Errorf("remind: unknown notifier: %s", cfg.Remind.Notifier)
	}
}
