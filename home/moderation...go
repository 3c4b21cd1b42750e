package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

const maxAuditReasonLength = 512

// moderationPermissions is what each subcommand asks of the invoker.
var moderationPermissions = map[string]struct {
	perm discord.Permissions
	name string
}{
	"kick":    {discord.PermissionKickMembers, "Kick Members"},
	"ban":     {discord.PermissionBanMembers, "Ban Members"},
	"unban":   {discord.PermissionBanMembers, "Ban Members"},
	"banlist": {discord.PermissionBanMembers, "Ban Members"},
	"purge":   {discord.PermissionManageMessages, "Manage Messages"},
}

func init() {
	reasonOption := discord.ApplicationCommandOptionString{
		Name:        "reason",
		Description: "Provide a reason",
		MaxLength:   intPtr(maxAuditReasonLength),
	}
	memberOption := func(description string) discord.ApplicationCommandOptionUser {
		return discord.ApplicationCommandOptionUser{
			Name:        "member",
			Description: description,
			Required:    true,
		}
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "moderation",
		Description: "Moderation commands",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "kick",
				Description: "Kicks a member from the server",
				Options: []discord.ApplicationCommandOption{
					memberOption("Select the member you want to kick"),
					reasonOption,
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "ban",
				Description: "Bans a member from the server",
				Options: []discord.ApplicationCommandOption{
					memberOption("Select the member you want to ban"),
					reasonOption,
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "unban",
				Description: "Unbans a banned user",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "Enter User",
						Required:    true,
					},
					reasonOption,
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "banlist",
				Description: "Shows a list of all the banned users",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "purge",
				Description: "Deletes messages in the channel",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "count",
						Description: "Number of messages to delete.",
						Required:    true,
						MinValue:    intPtr(1),
						MaxValue:    intPtr(maxPurgeCount),
					},
				},
			},
		},
	}, handleModeration)

	sys.RegisterComponentHandler(banlistPrefix, handleBanlistPage)
}

func handleModeration(event *events.ApplicationCommandInteractionCreate) {
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}
	sub := *data.SubCommandName

	if problem := moderationPermissionProblem(sub, event.Member()); problem != "" {
		respondEphemeral(event, problem)
		return
	}

	switch sub {
	case "kick", "ban":
		handleModerationRemove(event, data, guildID, sub)
	case "unban":
		handleModerationUnban(event, data, guildID)
	case "banlist":
		handleModerationBanlist(event, guildID)
	case "purge":
		handleModerationPurge(event, data, guildID)
	}
}

// moderationPermissionProblem is empty when member may run sub.
func moderationPermissionProblem(sub string, member *discord.ResolvedMember) string {
	need, ok := moderationPermissions[sub]
	if !ok {
		return sys.ErrSomethingBroken
	}
	if member == nil || !hasAnyPermission(member.Permissions, need.perm) {
		return fmt.Sprintf(sys.ErrModerationMissing, need.name)
	}
	return ""
}

// moderationTargetProblem rejects actions against the bot, the invoker
// and the guild owner.
func moderationTargetProblem(targetID, botID, authorID, ownerID snowflake.ID) string {
	switch targetID {
	case botID:
		return sys.ErrModerationSelfBot
	case authorID:
		return sys.ErrModerationSelf
	case ownerID:
		return sys.ErrModerationOwner
	}
	return ""
}

// moderationFailure maps a failed REST call to the reply shown to moderators.
func moderationFailure(err error) string {
	switch restErrorCode(err) {
	case rest.JSONErrorCodeLackPermissionsToPerformAction, rest.JSONErrorCodeMissingAccess:
		return sys.ErrModerationForbidden
	}
	return sys.ErrModerationFailed
}

func reasonOrNone(reason string) string {
	if reason == "" {
		return sys.MsgModerationNoReason
	}
	return reason
}
