package remind

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo.Session methods we use, enabling
// test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts digests to a Discord channel via the REST API. The
// Gateway WebSocket is not opened; a one-way digest needs no inbound events.
type DiscordNotifier struct {
	sess      discordSession
	channelID string
}

// DiscordOpts holds parameters for creating a DiscordNotifier.
type DiscordOpts struct {
	BotToken  string
	ChannelID string
}

// NewDiscord creates a DiscordNotifier.
func NewDiscord(opts DiscordOpts) (*DiscordNotifier, error) {
	if opts.BotToken == "" {
		return nil, fmt.Errorf("remind: discord bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("remind: discord channel id is required")
	}
	sess, err := discordgo.New("Bot " + opts.BotToken)
	if err != nil {
		return nil, fmt.Errorf("remind: discord session: %w", err)
	}
	return &DiscordNotifier{sess: sess, channelID: opts.ChannelID}, nil
}

func (n *DiscordNotifier) Send(_ context.Context, title, body string) error {
	content := fmt.Sprintf("**%s**\n%s", title, body)
	if _, err := n.sess.ChannelMessageSend(n.channelID, content); err != nil {
		return fmt.Errorf("remind: discord send: %w", err)
	}
	return nil
}
