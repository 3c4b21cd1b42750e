package home

import (
	"context"
	"errors"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

// interactionResponder is implemented by command and component interaction events.
type interactionResponder interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

func textMessage(content string, ephemeral bool) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(
			discord.NewContainer(
				discord.NewTextDisplay(content),
			),
		).
		WithEphemeral(ephemeral)
}

// respondEphemeral sends an ephemeral components-v2 text response
func respondEphemeral(event interactionResponder, content string) {
	if err := event.CreateMessage(textMessage(content, true)); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

func respondPublic(event interactionResponder, content string) {
	if err := event.CreateMessage(textMessage(content, false)); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

// updateText replaces the component message with plain text, dropping its buttons.
func updateText(event *events.ComponentInteractionCreate, content string) {
	err := event.UpdateMessage(discord.NewMessageUpdate().
		WithIsComponentsV2(true).
		WithComponents(
			discord.NewContainer(
				discord.NewTextDisplay(content),
			),
		))
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

// requireGuild answers with ErrGuildOnly outside of guilds.
func requireGuild(event *events.ApplicationCommandInteractionCreate) (snowflake.ID, bool) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, sys.ErrGuildOnly)
		return 0, false
	}
	return *guildID, true
}

func canManageGuild(member *discord.ResolvedMember) bool {
	if member == nil {
		return false
	}
	return hasAnyPermission(member.Permissions, discord.PermissionManageGuild)
}

// hasAnyPermission reports whether perms carries one of want, Administrator
// counting for all of them.
func hasAnyPermission(perms discord.Permissions, want ...discord.Permissions) bool {
	if perms.Has(discord.PermissionAdministrator) {
		return true
	}
	for _, p := range want {
		if perms.Has(p) {
			return true
		}
	}
	return false
}

// editDeferred replaces the content of a deferred interaction response.
func editDeferred(event *events.ApplicationCommandInteractionCreate, content string) {
	_, err := event.Client().Rest.UpdateInteractionResponse(
		event.ApplicationID(),
		event.Token(),
		discord.NewMessageUpdate().
			WithContent(content).
			WithAllowedMentions(&discord.AllowedMentions{}),
	)
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

// botUserID prefers the cached self user and falls back to the application
// id, which matches it for regular bot accounts.
func botUserID(client *bot.Client) snowflake.ID {
	if self, ok := client.Caches.SelfUser(); ok {
		return self.ID
	}
	return client.ApplicationID
}

// lookupGuild reads the guild from cache, fetching it when it is not cached.
func lookupGuild(ctx context.Context, client *bot.Client, guildID snowflake.ID) (discord.Guild, error) {
	if g, ok := client.Caches.Guild(guildID); ok {
		return g, nil
	}
	g, err := client.Rest.GetGuild(guildID, false, rest.WithCtx(ctx))
	if err != nil {
		return discord.Guild{}, err
	}
	return g.Guild, nil
}

// restErrorCode extracts the Discord JSON error code, zero when err is not
// an API error.
func restErrorCode(err error) rest.JSONErrorCode {
	var restErr *rest.Error
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}

func focusedValue(data discord.AutocompleteInteractionData) (name, value string) {
	for _, opt := range data.Options {
		if opt.Focused {
			if opt.Value != nil {
				value = strings.Trim(string(opt.Value), `"`)
			}
			return opt.Name, value
		}
	}
	return "", ""
}
