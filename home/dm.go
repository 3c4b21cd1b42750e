package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "dm",
		Description: "Sends a direct message to a member in the server",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "The user to send the message to",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "message",
				Description: "What do you want the bot to say?",
				Required:    true,
				MaxLength:   intPtr(maxMessageLength),
			},
			discord.ApplicationCommandOptionBool{
				Name:        "anonymous",
				Description: "Only mods can choose to send anonymous messages. Defaults to True for mods.",
			},
		},
	}, handleDM)
}

// isModerator gates anonymous direct messages.
func isModerator(perms discord.Permissions) bool {
	return hasAnyPermission(perms,
		discord.PermissionManageGuild,
		discord.PermissionManageChannels,
		discord.PermissionManageMessages,
	)
}

// decideAnonymous resolves the anonymous option. Moderators default to
// anonymous, everyone else may only sign their messages.
func decideAnonymous(requested *bool, isMod bool) (anonymous bool, allowed bool) {
	if requested == nil {
		return isMod, true
	}
	if *requested && !isMod {
		return false, false
	}
	return *requested, true
}

func dmTargetProblem(target discord.User, botID, authorID snowflake.ID) string {
	switch {
	case target.ID == botID:
		return sys.ErrDMSelfBot
	case target.ID == authorID:
		return sys.ErrDMSelf
	case target.Bot:
		return sys.ErrDMBot
	}
	return ""
}

// buildDirectMessage renders the relayed message. A signed message carries
// the sender's name and avatar.
func buildDirectMessage(guildName, message string, sender *discord.Member, now time.Time) discord.MessageCreate {
	title := fmt.Sprintf(sys.MsgDMTitle, guildName)
	footer := fmt.Sprintf("-# <t:%d:f>", now.Unix())

	var body discord.ContainerSubComponent = discord.NewTextDisplay(title + "\n" + message)
	if sender != nil {
		title = fmt.Sprintf(sys.MsgDMTitleBy, guildName, sender.EffectiveName())
		body = discord.NewSection(discord.NewTextDisplay(title + "\n" + message)).
			WithAccessory(discord.NewThumbnail(sender.EffectiveAvatarURL()))
	}

	return discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(discord.NewContainer(body, discord.NewTextDisplay(footer))).
		WithAllowedMentions(&discord.AllowedMentions{})
}

func handleDM(event *events.ApplicationCommandInteractionCreate) {
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	data := event.SlashCommandInteractionData()
	author := event.Member()

	target, ok := data.OptMember("member")
	if !ok {
		respondEphemeral(event, sys.ErrDMNotMember)
		return
	}
	if problem := dmTargetProblem(target.User, botUserID(event.Client()), event.User().ID); problem != "" {
		respondEphemeral(event, problem)
		return
	}

	var requested *bool
	if v, ok := data.OptBool("anonymous"); ok {
		requested = &v
	}
	anonymous, allowed := decideAnonymous(requested, author != nil && isModerator(author.Permissions))
	if !allowed {
		respondEphemeral(event, sys.ErrDMAnonymousDenied)
		return
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 10*time.Second)
	defer cancel()

	guildName := guildID.String()
	if g, err := lookupGuild(ctx, event.Client(), guildID); err == nil {
		guildName = g.Name
	}

	var sender *discord.Member
	if !anonymous && author != nil {
		sender = &author.Member
	}

	err := sendDirectMessage(ctx, event.Client().Rest, target.User.ID,
		buildDirectMessage(guildName, data.String("message"), sender, time.Now()))
	if err != nil {
		sys.LogGeneral(sys.MsgGeneralFailed, "dm", guildID, err)
	}
	editDeferred(event, sendOutcome(err, sys.ErrSendFailed))
}

func sendDirectMessage(ctx context.Context, client rest.Rest, userID snowflake.ID, msg discord.MessageCreate) error {
	channel, err := client.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return err
	}
	_, err = client.CreateMessage(channel.ID(), msg, rest.WithCtx(ctx))
	return err
}
