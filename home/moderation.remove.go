package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

// handleModerationRemove kicks or bans the "member" option.
func handleModerationRemove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, guildID snowflake.ID, action string) {
	target, ok := data.OptMember("member")
	if !ok {
		respondEphemeral(event, sys.ErrModerationNoMember)
		return
	}
	reason := strings.TrimSpace(data.String("reason"))

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 10*time.Second)
	defer cancel()

	guild, err := lookupGuild(ctx, event.Client(), guildID)
	if err != nil {
		sys.LogModeration(sys.MsgModerationFailed, action, guildID, err)
		editDeferred(event, moderationFailure(err))
		return
	}
	if problem := moderationTargetProblem(target.User.ID, botUserID(event.Client()), event.User().ID, guild.OwnerID); problem != "" {
		editDeferred(event, problem)
		return
	}

	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		opts = append(opts, rest.WithReason(reason))
	}

	verb := sys.MsgModerationKicked
	if action == "ban" {
		verb = sys.MsgModerationBanned
		err = event.Client().Rest.AddBan(guildID, target.User.ID, 0, opts...)
	} else {
		err = event.Client().Rest.RemoveMember(guildID, target.User.ID, opts...)
	}
	if err != nil {
		sys.LogModeration(sys.MsgModerationFailed, action, guildID, err)
		editDeferred(event, moderationFailure(err))
		return
	}
	editDeferred(event, fmt.Sprintf(sys.MsgModerationDone, verb, target.User.Tag(), reasonOrNone(reason)))
}

func handleModerationUnban(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, guildID snowflake.ID) {
	user := data.User("user")
	reason := strings.TrimSpace(data.String("reason"))

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 10*time.Second)
	defer cancel()

	if _, err := event.Client().Rest.GetBan(guildID, user.ID, rest.WithCtx(ctx)); err != nil {
		if restErrorCode(err) == rest.JSONErrorCodeUnknownBan {
			editDeferred(event, sys.ErrNotBanned)
			return
		}
		sys.LogModeration(sys.MsgModerationFailed, "unban", guildID, err)
		editDeferred(event, moderationFailure(err))
		return
	}

	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		opts = append(opts, rest.WithReason(reason))
	}
	if err := event.Client().Rest.DeleteBan(guildID, user.ID, opts...); err != nil {
		sys.LogModeration(sys.MsgModerationFailed, "unban", guildID, err)
		editDeferred(event, moderationFailure(err))
		return
	}
	editDeferred(event, fmt.Sprintf(sys.MsgModerationDone, sys.MsgModerationUnbanned, user.Tag(), reasonOrNone(reason)))
}
