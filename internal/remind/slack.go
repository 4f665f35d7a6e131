package remind

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackNotifier posts digests to a Slack channel via the Web API.
type SlackNotifier struct {
	client  slackClient
	channel string
}

// SlackOpts holds parameters for creating a SlackNotifier.
type SlackOpts struct {
	BotToken string // xoxb-... Slack bot token
	Channel  string // channel ID to post to
}

// NewSlack creates a SlackNotifier.
func NewSlack(opts SlackOpts) (*SlackNotifier, error) {
	if opts.BotToken == "" {
		return nil, fmt.Errorf("remind: slack bot token is required")
	}
	if opts.Channel == "" {
		return nil, fmt.Errorf("remind: slack channel is required")
	}
	return &SlackNotifier{
		client:  slackapi.New(opts.BotToken),
		channel: opts.Channel,
	}, nil
}

func (n *SlackNotifier) Send(_ context.Context, title, body string) error {
	_, _, err := n.client.PostMessage(n.channel,
		slackapi.MsgOptionText(fmt.Sprintf("*%s*\n%s", title, body), false))
	if err != nil {
		return fmt.Errorf("remind: slack post: %w", err)
	}
	return nil
}
