package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/leeineian/cooli/sys"
)

func init() {
	managePerm := discord.PermissionManageGuild

	triggerOption := func(description string, autocomplete bool) discord.ApplicationCommandOptionString {
		return discord.ApplicationCommandOptionString{
			Name:         "trigger",
			Description:  description,
			Required:     true,
			Autocomplete: autocomplete,
		}
	}
	replyOption := func(description string) discord.ApplicationCommandOptionString {
		return discord.ApplicationCommandOptionString{
			Name:        "reply",
			Description: description,
			Required:    true,
		}
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "autoreply",
		Description:              "Manage autoreplies in this server",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "add",
				Description: "Add a new autoreply trigger in this server",
				Options: []discord.ApplicationCommandOption{
					triggerOption("The message that will trigger the autoreply when sent", false),
					replyOption("What will the bot reply to the trigger message?"),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "update",
				Description: "Update the bot's reply to an existing trigger",
				Options: []discord.ApplicationCommandOption{
					triggerOption("The trigger to update", true),
					replyOption("The bot's new reply to the trigger message"),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove an existing autoreply trigger in this server",
				Options: []discord.ApplicationCommandOption{
					triggerOption("The trigger message to be deleted", true),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "clear",
				Description: "Clear all autoreplies in this server",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "View all autoreplies in this server",
			},
		},
	}, handleAutoreply)

	sys.RegisterAutocompleteHandler("autoreply", handleAutoreplyAutocomplete)
	sys.RegisterMessageHandler(handleAutoreplyMessage)
}

const specialTriggerChars = "`~!@#$%^&*()_+-=\\|[]{}<>?,.;:'/\""

// checkTrigger reports a problem with a trigger, or "" when it is usable.
func checkTrigger(trigger string) string {
	if trigger == "" {
		return sys.ErrAutoreplyEmpty
	}
	if strings.ContainsRune(specialTriggerChars, []rune(trigger)[0]) {
		return sys.ErrAutoreplySpecialChar
	}
	return ""
}

func handleAutoreply(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	if !canManageGuild(event.Member()) {
		respondEphemeral(event, sys.ErrMissingManage)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	sub := *data.SubCommandName
	trigger := strings.TrimSpace(data.String("trigger"))
	reply := strings.TrimSpace(data.String("reply"))

	switch sub {
	case "add", "update":
		if problem := checkTrigger(trigger); problem != "" {
			respondEphemeral(event, problem)
			return
		}
		if reply == "" {
			respondEphemeral(event, sys.ErrAutoreplyEmpty)
			return
		}
	}

	var err error
	switch sub {
	case "add":
		err = sys.DB.AddAutoreply(ctx, guildID, trigger, reply)
		switch {
		case errors.Is(err, sys.ErrAutoreplyExists):
			respondEphemeral(event, fmt.Sprintf(sys.ErrAutoreplyDuplicate, trigger))
		case err == nil:
			respondPublic(event, fmt.Sprintf(sys.MsgAutoreplyAdded, trigger))
		}

	case "update":
		err = sys.DB.UpdateAutoreply(ctx, guildID, trigger, reply)
		switch {
		case errors.Is(err, sys.ErrAutoreplyNotFound):
			respondEphemeral(event, sys.ErrAutoreplyMissing)
		case err == nil:
			respondPublic(event, fmt.Sprintf(sys.MsgAutoreplyUpdated, trigger, reply))
		}

	case "remove":
		err = sys.DB.RemoveAutoreply(ctx, guildID, trigger)
		switch {
		case errors.Is(err, sys.ErrAutoreplyNotFound):
			respondEphemeral(event, sys.ErrAutoreplyMissing)
		case err == nil:
			respondPublic(event, fmt.Sprintf(sys.MsgAutoreplyRemoved, trigger))
		}

	case "clear":
		var n int64
		n, err = sys.DB.ClearAutoreplies(ctx, guildID)
		switch {
		case err != nil:
		case n == 0:
			respondEphemeral(event, sys.MsgAutoreplyNoneToClear)
		default:
			respondPublic(event, fmt.Sprintf(sys.MsgAutoreplyCleared, n))
		}

	case "list":
		var list []sys.Autoreply
		list, err = sys.DB.ListAutoreplies(ctx, guildID)
		switch {
		case err != nil:
		case len(list) == 0:
			respondEphemeral(event, sys.MsgAutoreplyNone)
		default:
			respondPublic(event, formatAutoreplyList(list))
		}
	}

	if err != nil && !errors.Is(err, sys.ErrAutoreplyExists) && !errors.Is(err, sys.ErrAutoreplyNotFound) {
		sys.LogAutoreply(sys.MsgAutoreplyFailed, sub, guildID, err)
		respondEphemeral(event, sys.ErrAutoreplyActionFailed)
	}
}

var attachmentHosts = []string{
	"https://cdn.discordapp.com",
	"https://tenor.com",
	"https://imgur.com",
	"https://giphy.com",
}

var attachmentExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4", ".webm", ".mkv", ".mp3"}

// formatAutoreplyResponse hides links behind labels so the list does not embed them.
func formatAutoreplyResponse(response string) string {
	lower := strings.ToLower(response)
	for _, host := range attachmentHosts {
		if strings.HasPrefix(lower, host) {
			return fmt.Sprintf("**[Attachment](<%s>)**", response)
		}
	}
	for _, ext := range attachmentExtensions {
		if strings.HasSuffix(lower, ext) {
			return fmt.Sprintf("**[Attachment](<%s>)**", response)
		}
	}
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return fmt.Sprintf("**[URL](<%s>)**", response)
	}
	return response
}

func formatAutoreplyList(list []sys.Autoreply) string {
	var sb strings.Builder
	sb.WriteString(sys.MsgAutoreplyListHeader)
	for i, ar := range list {
		line := fmt.Sprintf("> `%s` → %s\n", ar.Trigger, formatAutoreplyResponse(ar.Response))
		if sb.Len()+len(line) > maxListLength {
			sb.WriteString(fmt.Sprintf("-# ...and %d more\n", len(list)-i))
			break
		}
		sb.WriteString(line)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func handleAutoreplyAutocomplete(event *events.AutocompleteInteractionCreate) {
	name, value := focusedValue(event.Data)
	if name != "trigger" || event.GuildID() == nil {
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 2*time.Second)
	defer cancel()

	list, err := sys.DB.ListAutoreplies(ctx, *event.GuildID())
	if err != nil {
		sys.LogAutoreply(sys.MsgAutoreplyFailed, "autocomplete", *event.GuildID(), err)
		_ = event.AutocompleteResult(nil)
		return
	}

	choices := []discord.AutocompleteChoice{}
	for _, ar := range list {
		if value != "" && !sys.ContainsLower(ar.Trigger, value) {
			continue
		}
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  sys.Truncate(ar.Trigger, 100),
			Value: ar.Trigger,
		})
		if len(choices) >= 25 {
			break
		}
	}
	_ = event.AutocompleteResult(choices)
}
