package home

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

func handleReminderRemindMe(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	subject, problem := checkSubject(data.String("about"))
	if problem != "" {
		respondEphemeral(event, problem)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	userID := event.User().ID
	loc, err := sys.DB.GetUserTimezone(ctx, userID)
	if err != nil {
		sys.LogTimezone(sys.MsgTimezoneFailedToLoad, userID, err)
		loc = time.UTC
	}

	input := data.String("when")
	out := getResolver().Resolve(input, loc, time.Now())
	if !out.Accepted() {
		sys.LogDebug(sys.MsgReminderRejected, input, userID, out.Reason)
		respondEphemeral(event, out.Detail+"\n"+sys.ErrReminderParseFailed)
		return
	}

	customID, ok := encodeConfirmID(out.At, subject)
	if !ok {
		respondEphemeral(event, sys.ErrReminderTooLong)
		return
	}

	unix := out.At.Unix()
	err = event.CreateMessage(discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(
			discord.NewContainer(
				discord.NewTextDisplay(fmt.Sprintf(sys.MsgReminderConfirmPrompt, subject, unix, unix)),
				discord.NewActionRow(
					discord.NewButton(discord.ButtonStyleSuccess, sys.MsgReminderConfirmButton, customID, "", 0),
					discord.NewButton(discord.ButtonStyleDanger, sys.MsgReminderCancelButton, reminderCancelID, "", 0),
				),
			),
		).
		WithEphemeral(true))
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

func handleReminderConfirm(event *events.ComponentInteractionCreate) {
	at, subject, ok := decodeConfirmID(event.Data.CustomID())
	if !ok {
		return
	}
	if !at.After(time.Now()) {
		updateText(event, sys.ErrReminderExpired)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	user := event.User()
	r := &sys.Reminder{UserID: user.ID, Subject: subject, RemindAt: at}
	// a repeated press lands on the unique index and still reads as confirmed
	if err := sys.DB.AddReminder(ctx, r); err != nil && !errors.Is(err, sys.ErrReminderExists) {
		sys.LogReminderError(sys.MsgReminderFailedToSave, user.ID, err)
		updateText(event, sys.ErrReminderSaveFailed)
		return
	}

	updateText(event, fmt.Sprintf(sys.MsgReminderConfirmed, user.Username, subject, at.Unix()))
}

func handleReminderCancel(event *events.ComponentInteractionCreate) {
	updateText(event, sys.MsgReminderCancelled)
}
