package home

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/omit"

	"github.com/leeineian/cooli/sys"
)

const maxMessageLength = 2000

func init() {
	managePerm := discord.PermissionManageGuild

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "say",
		Description:              "Sends a message to a channel",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "message",
				Description: "What do you want the bot to say?",
				Required:    true,
				MaxLength:   intPtr(maxMessageLength),
			},
			discord.ApplicationCommandOptionChannel{
				Name:        "channel",
				Description: "Channel to send it to; defaults to this one",
				ChannelTypes: []discord.ChannelType{
					discord.ChannelTypeGuildText,
					discord.ChannelTypeGuildNews,
				},
			},
		},
	}, handleSay)
}

func handleSay(event *events.ApplicationCommandInteractionCreate) {
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	if !canManageGuild(event.Member()) {
		respondEphemeral(event, sys.ErrMissingManage)
		return
	}

	data := event.SlashCommandInteractionData()
	channelID := event.Channel().ID()
	if ch, ok := data.OptChannel("channel"); ok {
		channelID = ch.ID
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 10*time.Second)
	defer cancel()

	// Only user mentions ping; @everyone and roles stay inert.
	msg := discord.NewMessageCreate().
		WithContent(data.String("message")).
		WithAllowedMentions(&discord.AllowedMentions{Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeUsers}})

	_, err := event.Client().Rest.CreateMessage(channelID, msg, rest.WithCtx(ctx))
	if err != nil {
		sys.LogGeneral(sys.MsgGeneralFailed, "say", guildID, err)
	}
	editDeferred(event, sendOutcome(err, sys.ErrSayForbidden))
}

// sendOutcome maps a send result to the reply shown to the invoker.
func sendOutcome(err error, forbidden string) string {
	if err == nil {
		return sys.MsgSent
	}
	switch restErrorCode(err) {
	case rest.JSONErrorCodeLackPermissionsToPerformAction, rest.JSONErrorCodeMissingAccess:
		return forbidden
	case rest.JSONErrorCodeCannotSendMessagesToThisUser:
		return sys.ErrDMClosed
	}
	return sys.ErrSendFailed
}
