package home

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
	"github.com/leeineian/cooli/when"
)

const (
	maxSubjectLength = 30
	maxCustomIDBytes = 100

	reminderConfirmPrefix = "reminder_confirm:"
	reminderCancelID      = "reminder_cancel"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "reminder",
		Description: "Set and manage your reminders",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remindme",
				Description: "Reminds you of something at a later time",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "when",
						Description: "e.g. '5 minutes', '1 hr 30 min', 'friday 6pm', '2025-12-25 09:00'",
						Required:    true,
					},
					discord.ApplicationCommandOptionString{
						Name:        "about",
						Description: "About what?",
						Required:    true,
						MaxLength:   intPtr(maxSubjectLength),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List your active reminders",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove one of your reminders",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:         "reminder",
						Description:  "The reminder to remove",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "clear",
				Description: "Clears ALL your reminders",
			},
		},
	}, handleReminder)

	sys.RegisterAutocompleteHandler("reminder", handleReminderAutocomplete)
	sys.RegisterComponentHandler(reminderConfirmPrefix, handleReminderConfirm)
	sys.RegisterComponentHandler(reminderCancelID, handleReminderCancel)
}

var (
	resolverOnce     sync.Once
	reminderResolver *when.Resolver
)

// getResolver builds the resolver on first use; a broken natural-language
// parser only disables the last fallback.
func getResolver() *when.Resolver {
	resolverOnce.Do(func() {
		r, err := when.New()
		if err != nil {
			sys.LogReminderWarn(sys.MsgReminderNaturalTimeInitFail, err)
			r = when.NewWithParser(nil)
		}
		reminderResolver = r
	})
	return reminderResolver
}

// handleReminder routes reminder subcommands to their respective handlers
func handleReminder(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	switch *data.SubCommandName {
	case "remindme":
		handleReminderRemindMe(event, data)
	case "list":
		handleReminderList(event)
	case "remove":
		handleReminderRemove(event, data)
	case "clear":
		handleReminderClear(event)
	}
}

// checkSubject trims the subject and returns the user-facing problem, if any.
func checkSubject(raw string) (string, string) {
	subject := strings.Join(strings.Fields(raw), " ")
	if subject == "" {
		return "", sys.ErrReminderSubjectEmpty
	}
	if utf8.RuneCountInString(subject) > maxSubjectLength {
		return "", fmt.Sprintf(sys.ErrReminderSubjectTooLong, maxSubjectLength)
	}
	return subject, ""
}

// encodeConfirmID packs a pending reminder into a button custom id.
func encodeConfirmID(at time.Time, subject string) (string, bool) {
	id := reminderConfirmPrefix + strconv.FormatInt(at.Unix(), 10) + ":" + subject
	if len(id) > maxCustomIDBytes {
		return "", false
	}
	return id, true
}

func decodeConfirmID(customID string) (time.Time, string, bool) {
	payload, ok := strings.CutPrefix(customID, reminderConfirmPrefix)
	if !ok {
		return time.Time{}, "", false
	}
	unix, subject, ok := strings.Cut(payload, ":")
	if !ok || subject == "" {
		return time.Time{}, "", false
	}
	sec, err := strconv.ParseInt(unix, 10, 64)
	if err != nil {
		return time.Time{}, "", false
	}
	return time.Unix(sec, 0).UTC(), subject, true
}

func intPtr(i int) *int {
	return &i
}
