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

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "timezone",
		Description: "Set the timezone used to read your reminder times",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set",
				Description: "Set your timezone",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:         "zone",
						Description:  "IANA zone name, e.g. Europe/Berlin or America/New_York",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "show",
				Description: "Show your timezone",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "reset",
				Description: "Go back to UTC",
			},
		},
	}, handleTimezone)

	sys.RegisterAutocompleteHandler("timezone", handleTimezoneAutocomplete)
}

func handleTimezone(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()
	userID := event.User().ID

	switch *data.SubCommandName {
	case "set":
		zone := data.String("zone")
		loc, err := sys.DB.SetUserTimezone(ctx, userID, zone)
		if errors.Is(err, sys.ErrInvalidTimezone) {
			respondEphemeral(event, fmt.Sprintf(sys.ErrTimezoneInvalid, zone))
			return
		}
		if err != nil {
			sys.LogTimezone(sys.MsgTimezoneFailedToSave, userID, err)
			respondEphemeral(event, sys.ErrSomethingBroken)
			return
		}
		respondEphemeral(event, fmt.Sprintf(sys.MsgTimezoneSet, loc.String(), sys.FormatLocalTime(time.Now(), loc)))

	case "show":
		loc, err := sys.DB.GetUserTimezone(ctx, userID)
		if err != nil {
			sys.LogTimezone(sys.MsgTimezoneFailedToLoad, userID, err)
			respondEphemeral(event, sys.ErrSomethingBroken)
			return
		}
		respondEphemeral(event, fmt.Sprintf(sys.MsgTimezoneShow, loc.String(), sys.FormatLocalTime(time.Now(), loc)))

	case "reset":
		if err := sys.DB.ResetUserTimezone(ctx, userID); err != nil {
			sys.LogTimezone(sys.MsgTimezoneFailedToSave, userID, err)
			respondEphemeral(event, sys.ErrSomethingBroken)
			return
		}
		respondEphemeral(event, sys.MsgTimezoneReset)
	}
}

// Suggested when the user has typed nothing that matches.
var commonZones = []string{
	"UTC",
	"Europe/London", "Europe/Berlin", "Europe/Paris", "Europe/Moscow",
	"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "America/Sao_Paulo",
	"Asia/Kolkata", "Asia/Shanghai", "Asia/Tokyo", "Asia/Singapore", "Asia/Jakarta", "Asia/Manila",
	"Australia/Sydney", "Pacific/Auckland", "Africa/Cairo", "Africa/Lagos",
}

func handleTimezoneAutocomplete(event *events.AutocompleteInteractionCreate) {
	_, value := focusedValue(event.Data)
	_ = event.AutocompleteResult(zoneChoices(value))
}

func zoneChoices(query string) []discord.AutocompleteChoice {
	choices := []discord.AutocompleteChoice{}
	for _, zone := range commonZones {
		if query == "" || sys.ContainsLower(zone, query) {
			choices = append(choices, discord.AutocompleteChoiceString{Name: zone, Value: zone})
		}
	}
	if len(choices) == 0 {
		if loc, err := sys.ValidateTimezone(query); err == nil {
			choices = append(choices, discord.AutocompleteChoiceString{Name: loc.String(), Value: loc.String()})
		}
	}
	return choices
}
