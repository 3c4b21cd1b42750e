package home

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "prefix",
		Description: "Show or change the text command prefix for this server",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "show",
				Description: "Shows the bot prefix for this server",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set",
				Description: "Sets a new command prefix for this server",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "prefix",
						Description: "The new prefix for the bot",
						Required:    true,
						MaxLength:   intPtr(sys.MaxPrefixLength),
					},
				},
			},
		},
	}, handlePrefix)

	sys.RegisterMessageHandler(handlePrefixMessage)
}

func defaultPrefix() string {
	if sys.GlobalConfig != nil {
		return sys.GlobalConfig.DefaultPrefix
	}
	return sys.DefaultPrefix
}

// guildPrefix never fails; lookup errors fall back to the default prefix.
func guildPrefix(ctx context.Context, guildID snowflake.ID) string {
	prefix, err := sys.DB.GetGuildPrefix(ctx, guildID, defaultPrefix())
	if err != nil {
		sys.LogPrefix(sys.MsgPrefixFailed, guildID, err)
		return defaultPrefix()
	}
	return prefix
}

func checkPrefix(prefix string) string {
	if n := utf8.RuneCountInString(prefix); n == 0 || n > sys.MaxPrefixLength {
		return fmt.Sprintf(sys.ErrPrefixTooLong, sys.MaxPrefixLength)
	}
	return ""
}

func handlePrefix(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	switch *data.SubCommandName {
	case "show":
		respondPublic(event, fmt.Sprintf(sys.MsgPrefixShow, guildPrefix(ctx, guildID)))

	case "set":
		if !canManageGuild(event.Member()) {
			respondEphemeral(event, sys.ErrMissingManage)
			return
		}
		prefix := strings.TrimSpace(data.String("prefix"))
		if problem := checkPrefix(prefix); problem != "" {
			respondEphemeral(event, problem)
			return
		}
		if err := sys.DB.SetGuildPrefix(ctx, guildID, prefix); err != nil {
			sys.LogPrefix(sys.MsgPrefixFailed, guildID, err)
			respondEphemeral(event, sys.ErrPrefixSaveFailed)
			return
		}
		respondPublic(event, fmt.Sprintf(sys.MsgPrefixSet, prefix))
	}
}
