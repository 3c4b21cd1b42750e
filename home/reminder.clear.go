package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

func handleReminderClear(event *events.ApplicationCommandInteractionCreate) {
	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	userID := event.User().ID
	n, err := sys.DB.DeleteAllRemindersForUser(ctx, userID)
	if err != nil {
		sys.LogReminderError(sys.MsgReminderFailedToDeleteAll, userID, err)
		respondEphemeral(event, sys.ErrSomethingBroken)
		return
	}
	if n == 0 {
		respondEphemeral(event, sys.MsgReminderNothingToClear)
		return
	}
	respondEphemeral(event, fmt.Sprintf(sys.MsgReminderCleared, n))
}
