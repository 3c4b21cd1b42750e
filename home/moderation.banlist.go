package home

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

const (
	banlistPrefix     = "banlist:"
	banlistPageSize   = 5
	maxBanlistEntries = 500
	maxBanReasonShown = 200
)

var banlistActions = []struct{ action, label string }{
	{"first", "⏪"},
	{"prev", "◀"},
	{"next", "▶"},
	{"last", "⏩"},
}

// banlistCustomID encodes a paging button. The invoker id locks the buttons
// to whoever ran the command; page is the page currently shown.
func banlistCustomID(action string, invoker snowflake.ID, page int) string {
	return banlistPrefix + action + ":" + invoker.String() + ":" + strconv.Itoa(page)
}

func parseBanlistID(customID string) (action string, invoker snowflake.ID, page int, ok bool) {
	payload, ok := strings.CutPrefix(customID, banlistPrefix)
	if !ok {
		return "", 0, 0, false
	}
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return "", 0, 0, false
	}
	invoker, err := snowflake.Parse(parts[1])
	if err != nil {
		return "", 0, 0, false
	}
	page, err = strconv.Atoi(parts[2])
	if err != nil || page < 0 {
		return "", 0, 0, false
	}
	return parts[0], invoker, page, true
}

func banlistPageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + banlistPageSize - 1) / banlistPageSize
}

// banlistTarget applies a paging action, clamped to the available pages.
func banlistTarget(action string, page, pages int) int {
	switch action {
	case "first":
		page = 0
	case "prev":
		page--
	case "next":
		page++
	case "last":
		page = pages - 1
	}
	return max(0, min(page, pages-1))
}

func renderBanlist(bans []discord.Ban, page int, invoker discord.User) discord.ContainerComponent {
	pages := banlistPageCount(len(bans))
	page = max(0, min(page, pages-1))

	start := page * banlistPageSize
	end := min(start+banlistPageSize, len(bans))

	entries := make([]string, 0, end-start)
	for _, ban := range bans[start:end] {
		reason := sys.MsgModerationNoReason
		if ban.Reason != nil && *ban.Reason != "" {
			reason = sys.Truncate(*ban.Reason, maxBanReasonShown)
		}
		entries = append(entries, fmt.Sprintf(sys.MsgBanlistEntry, ban.User.Tag(), ban.User.ID, reason))
	}

	buttons := make([]discord.InteractiveComponent, 0, len(banlistActions))
	for _, a := range banlistActions {
		atEdge := (a.action == "first" || a.action == "prev") && page == 0 ||
			(a.action == "next" || a.action == "last") && page == pages-1
		buttons = append(buttons,
			discord.NewButton(discord.ButtonStylePrimary, a.label, banlistCustomID(a.action, invoker.ID, page), "", 0).
				WithDisabled(atEdge))
	}

	return discord.NewContainer(
		discord.NewTextDisplay(sys.MsgBanlistTitle),
		discord.NewTextDisplay(strings.Join(entries, "\n\n")),
		discord.NewSmallSeparator(),
		discord.NewTextDisplay(fmt.Sprintf(sys.MsgBanlistFooter, page+1, pages, invoker.Tag())),
		discord.NewActionRow(buttons...),
	).WithAccentColor(0xED4245)
}

func fetchBans(ctx context.Context, client rest.Rest, guildID snowflake.ID) ([]discord.Ban, error) {
	return client.GetBans(guildID, 0, 0, maxBanlistEntries, rest.WithCtx(ctx))
}

func handleModerationBanlist(event *events.ApplicationCommandInteractionCreate, guildID snowflake.ID) {
	ctx, cancel := context.WithTimeout(sys.AppContext, 3*time.Second)
	defer cancel()

	bans, err := fetchBans(ctx, event.Client().Rest, guildID)
	if err != nil {
		sys.LogModeration(sys.MsgModerationFailed, "banlist", guildID, err)
		respondEphemeral(event, moderationFailure(err))
		return
	}
	if len(bans) == 0 {
		respondPublic(event, sys.MsgBanlistEmpty)
		return
	}

	msg := discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(renderBanlist(bans, 0, event.User())).
		WithAllowedMentions(&discord.AllowedMentions{})
	if err := event.CreateMessage(msg); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

func handleBanlistPage(event *events.ComponentInteractionCreate) {
	action, invoker, page, ok := parseBanlistID(event.Data.CustomID())
	if !ok || event.GuildID() == nil {
		return
	}
	if event.User().ID != invoker {
		respondEphemeral(event, sys.ErrBanlistNotYours)
		return
	}
	guildID := *event.GuildID()

	ctx, cancel := context.WithTimeout(sys.AppContext, 3*time.Second)
	defer cancel()

	// The list is refetched so that paging reflects bans and unbans made since.
	bans, err := fetchBans(ctx, event.Client().Rest, guildID)
	if err != nil {
		sys.LogModeration(sys.MsgModerationFailed, "banlist", guildID, err)
		respondEphemeral(event, moderationFailure(err))
		return
	}
	if len(bans) == 0 {
		updateText(event, sys.MsgBanlistEmpty)
		return
	}

	target := banlistTarget(action, page, banlistPageCount(len(bans)))
	err = event.UpdateMessage(discord.NewMessageUpdate().
		WithIsComponentsV2(true).
		WithComponents(renderBanlist(bans, target, event.User())))
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}
