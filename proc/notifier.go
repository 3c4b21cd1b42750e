package proc

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"

	"github.com/leeineian/cooli/sys"
)

// ErrRecipientUnreachable means the user cannot receive DMs from the bot.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Cannot send messages to this user.
const jsonErrorCannotDM = 50007

type DiscordNotifier struct {
	client *bot.Client
}

func NewDiscordNotifier(client *bot.Client) *DiscordNotifier {
	return &DiscordNotifier{client: client}
}

// Notify sends the reminder to its owner by DM.
func (n *DiscordNotifier) Notify(ctx context.Context, r *sys.Reminder) error {
	dm, err := n.client.Rest.CreateDMChannel(r.UserID, rest.WithCtx(ctx))
	if err != nil {
		return classifyDeliveryError(fmt.Errorf("create dm channel: %w", err))
	}

	_, err = n.client.Rest.CreateMessage(dm.ID(), BuildReminderMessage(r), rest.WithCtx(ctx))
	if err != nil {
		return classifyDeliveryError(fmt.Errorf("send message: %w", err))
	}
	return nil
}

func BuildReminderMessage(r *sys.Reminder) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(
			discord.NewContainer(
				discord.NewTextDisplay(sys.MsgReminderDeliveryTitle),
				discord.NewTextDisplay(fmt.Sprintf(sys.MsgReminderDelivery, r.UserID, r.Subject, r.RemindAt.Unix())),
			),
		)
}

func classifyDeliveryError(err error) error {
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Code == jsonErrorCannotDM {
		return fmt.Errorf("%w: %w", ErrRecipientUnreachable, err)
	}
	return err
}
