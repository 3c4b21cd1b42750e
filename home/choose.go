package home

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

const maxChoices = 6

func init() {
	options := make([]discord.ApplicationCommandOption, 0, maxChoices)
	for i := 1; i <= maxChoices; i++ {
		options = append(options, discord.ApplicationCommandOptionString{
			Name:        fmt.Sprintf("choice%d", i),
			Description: fmt.Sprintf("Choice %d", i),
			Required:    i <= 2,
		})
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "choose",
		Description: "Randomly chooses one of the choices you provide",
		Options:     options,
	}, handleChoose)
}

// collectChoices keeps the non-blank choices in option order.
func collectChoices(data discord.SlashCommandInteractionData) []string {
	var choices []string
	for i := 1; i <= maxChoices; i++ {
		if v, ok := data.OptString(fmt.Sprintf("choice%d", i)); ok {
			if v = strings.TrimSpace(v); v != "" {
				choices = append(choices, v)
			}
		}
	}
	return choices
}

// pickChoice returns one of choices using intn, or false when there is
// nothing to choose between.
func pickChoice(choices []string, intn func(int) int) (string, bool) {
	if len(choices) < 2 {
		return "", false
	}
	return choices[intn(len(choices))], true
}

func chooseReply(choices []string) string {
	choice, ok := pickChoice(choices, rand.IntN)
	if !ok {
		return sys.ErrChooseNeedsOptions
	}
	return fmt.Sprintf(sys.MsgChoose, choice)
}

func handleChoose(event *events.ApplicationCommandInteractionCreate) {
	choices := collectChoices(event.SlashCommandInteractionData())
	if len(choices) < 2 {
		respondEphemeral(event, sys.ErrChooseNeedsOptions)
		return
	}
	respondPublic(event, chooseReply(choices))
}
