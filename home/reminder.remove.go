package home

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

func handleReminderRemove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(data.String("reminder")), "#"), 10, 64)
	if err != nil {
		respondEphemeral(event, sys.ErrReminderDismissFailed)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	userID := event.User().ID
	deleted, err := sys.DB.DeleteReminder(ctx, id, userID)
	if err != nil {
		sys.LogReminderError(sys.MsgReminderFailedToDelete, id, userID, err)
		respondEphemeral(event, sys.ErrSomethingBroken)
		return
	}
	if !deleted {
		respondEphemeral(event, sys.ErrReminderDismissFailed)
		return
	}
	respondEphemeral(event, sys.MsgReminderDismissed)
}

func handleReminderAutocomplete(event *events.AutocompleteInteractionCreate) {
	name, value := focusedValue(event.Data)
	if name != "reminder" {
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 2*time.Second)
	defer cancel()

	userID := event.User().ID
	reminders, err := sys.DB.GetRemindersForUser(ctx, userID)
	if err != nil {
		sys.LogReminderError(sys.MsgReminderAutocompleteFailed, err)
		_ = event.AutocompleteResult(nil)
		return
	}
	loc, err := sys.DB.GetUserTimezone(ctx, userID)
	if err != nil {
		loc = time.UTC
	}

	_ = event.AutocompleteResult(reminderChoices(reminders, loc, value))
}

func reminderChoices(reminders []*sys.Reminder, loc *time.Location, query string) []discord.AutocompleteChoice {
	choices := []discord.AutocompleteChoice{}
	for _, r := range reminders {
		id := strconv.FormatInt(r.ID, 10)
		if query != "" && !sys.ContainsLower(r.Subject, query) && !strings.Contains(id, query) {
			continue
		}
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  sys.Truncate(fmt.Sprintf(sys.MsgReminderChoiceLabel, r.ID, r.Subject, sys.FormatLocalTime(r.RemindAt, loc)), 100),
			Value: id,
		})
		if len(choices) >= 25 {
			break
		}
	}
	return choices
}
