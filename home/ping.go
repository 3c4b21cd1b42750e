package home

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/cooli/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "ping",
		Description: "Check the bot's latency",
	}, handlePing)
}

func handlePing(event *events.ApplicationCommandInteractionCreate) {
	roundTrip := time.Since(event.ID().Time())
	gateway := event.Client().Gateway.Latency()
	respondEphemeral(event, fmt.Sprintf(sys.MsgPing, roundTrip.Milliseconds(), gateway.Milliseconds()))
}
