package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

// Keeps the list inside one text display.
const maxListLength = 3800

func handleReminderList(event *events.ApplicationCommandInteractionCreate) {
	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	userID := event.User().ID
	reminders, err := sys.DB.GetRemindersForUser(ctx, userID)
	if err != nil {
		sys.LogReminderError(sys.MsgReminderFailedToQuery, userID, err)
		respondEphemeral(event, sys.ErrReminderFetchFailed)
		return
	}
	if len(reminders) == 0 {
		respondEphemeral(event, sys.MsgReminderNoActive)
		return
	}

	loc, err := sys.DB.GetUserTimezone(ctx, userID)
	if err != nil {
		loc = time.UTC
	}
	respondEphemeral(event, formatReminderList(reminders, loc))
}

func formatReminderList(reminders []*sys.Reminder, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(sys.MsgReminderListHeader, len(reminders)))
	for i, r := range reminders {
		line := fmt.Sprintf(sys.MsgReminderListItem, r.ID, r.Subject, r.RemindAt.Unix())
		if sb.Len()+len(line) > maxListLength {
			sb.WriteString(fmt.Sprintf("-# ...and %d more\n", len(reminders)-i))
			break
		}
		sb.WriteString(line)
	}
	sb.WriteString(fmt.Sprintf(sys.MsgReminderListZone, loc.String()))
	return sb.String()
}
