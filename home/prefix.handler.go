package home

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/cooli/sys"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// isBareMention reports whether content is nothing but a mention of botID.
func isBareMention(content string, botID snowflake.ID) bool {
	m := mentionPattern.FindStringSubmatch(strings.TrimSpace(content))
	return m != nil && m[1] == botID.String()
}

// parsePrefixCommand splits "<prefix>name args..." into a lower-cased name and its arguments.
func parsePrefixCommand(content, prefix string) (string, []string, bool) {
	body, ok := strings.CutPrefix(content, prefix)
	if !ok {
		return "", nil, false
	}
	fields := strings.Fields(body)
	if len(fields) == 0 || body[0] == ' ' {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func handlePrefixMessage(event *events.MessageCreate) {
	if event.GuildID == nil {
		return
	}
	guildID := *event.GuildID
	content := event.Message.Content

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	if isBareMention(content, botUserID(event.Client())) {
		replyText(ctx, event, fmt.Sprintf(sys.MsgPrefixMention, guildPrefix(ctx, guildID)))
		return
	}

	name, args, ok := parsePrefixCommand(content, guildPrefix(ctx, guildID))
	if !ok {
		return
	}

	switch name {
	case "prefix":
		replyText(ctx, event, fmt.Sprintf(sys.MsgPrefixShow, guildPrefix(ctx, guildID)))
	case "choose":
		replyText(ctx, event, chooseReply(args))
	case "ping":
		latency := time.Since(event.MessageID.Time())
		replyText(ctx, event, fmt.Sprintf(sys.MsgPrefixPong, latency.Milliseconds()))
	case "stats":
		if sys.GlobalConfig == nil || !sys.GlobalConfig.IsOwner(event.Message.Author.ID.String()) {
			replyText(ctx, event, sys.ErrOwnerOnly)
			return
		}
		count, err := sys.DB.GetRemindersCount(ctx, 0)
		if err != nil {
			sys.LogPrefix(sys.MsgPrefixFailed, guildID, err)
			replyText(ctx, event, sys.ErrSomethingBroken)
			return
		}
		replyText(ctx, event, fmt.Sprintf(sys.MsgPrefixStats, count))
	}
}

func replyText(ctx context.Context, event *events.MessageCreate, content string) {
	reply := discord.NewMessageCreate().
		WithContent(content).
		WithMessageReference(&discord.MessageReference{MessageID: &event.MessageID}).
		WithAllowedMentions(&discord.AllowedMentions{RepliedUser: false})

	if _, err := event.Client().Rest.CreateMessage(event.ChannelID, reply, rest.WithCtx(ctx)); err != nil {
		sys.LogPrefix(sys.MsgPrefixFailed, *event.GuildID, err)
	}
}
