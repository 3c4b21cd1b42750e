package home

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"

	"github.com/leeineian/cooli/sys"
)

// matchAutoreplies returns every autoreply whose trigger appears in content,
// ignoring case.
func matchAutoreplies(list []sys.Autoreply, content string) []sys.Autoreply {
	var matched []sys.Autoreply
	for _, ar := range list {
		if ar.Trigger != "" && sys.ContainsLower(content, ar.Trigger) {
			matched = append(matched, ar)
		}
	}
	return matched
}

func handleAutoreplyMessage(event *events.MessageCreate) {
	if event.GuildID == nil || event.Message.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 5*time.Second)
	defer cancel()

	list, err := sys.DB.ListAutoreplies(ctx, *event.GuildID)
	if err != nil {
		sys.LogAutoreply(sys.MsgAutoreplyFailed, "lookup", *event.GuildID, err)
		return
	}

	for _, ar := range matchAutoreplies(list, event.Message.Content) {
		reply := discord.NewMessageCreate().
			WithContent(ar.Response).
			WithMessageReference(&discord.MessageReference{MessageID: &event.MessageID}).
			WithAllowedMentions(&discord.AllowedMentions{RepliedUser: true})

		if _, err := event.Client().Rest.CreateMessage(event.ChannelID, reply, rest.WithCtx(ctx)); err != nil {
			sys.LogAutoreply(sys.MsgAutoreplyFailedReply, event.ChannelID, err)
		}
	}
}
