package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"

	"github.com/leeineian/cooli/sys"
)

const (
	maxPurgeCount      = 1000
	purgeBatchSize     = 100
	purgeBatchInterval = time.Second
	purgeTimeout       = 2 * time.Minute

	// Bulk delete refuses messages older than two weeks; the minute keeps
	// a batch from aging past the limit while it is in flight.
	bulkDeleteMaxAge = 14*24*time.Hour - time.Minute
)

// planPurgeBatches splits count into fetch sizes Discord accepts.
func planPurgeBatches(count int) []int {
	var batches []int
	for count > 0 {
		n := min(count, purgeBatchSize)
		batches = append(batches, n)
		count -= n
	}
	return batches
}

// purgeable collects the ids of a newest-first page that may still be bulk
// deleted. reachedOld reports that the page ran into older messages, which
// also means every later page is too old.
func purgeable(msgs []discord.Message, now time.Time) (ids []snowflake.ID, reachedOld bool) {
	for _, m := range msgs {
		if now.Sub(m.ID.Time()) >= bulkDeleteMaxAge {
			return ids, true
		}
		ids = append(ids, m.ID)
	}
	return ids, false
}

func purgeSummary(deleted int, skippedOld bool) string {
	summary := fmt.Sprintf(sys.MsgPurgeDone, deleted)
	if skippedOld {
		summary += sys.MsgPurgeSkippedOld
	}
	return summary
}

func deleteMessages(ctx context.Context, client rest.Rest, channelID snowflake.ID, ids []snowflake.ID) error {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return client.DeleteMessage(channelID, ids[0], rest.WithCtx(ctx))
	}
	return client.BulkDeleteMessages(channelID, ids, rest.WithCtx(ctx))
}

func handleModerationPurge(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, guildID snowflake.ID) {
	count := data.Int("count")
	channelID := event.Channel().ID()

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, purgeTimeout)
	defer cancel()

	client := event.Client().Rest
	limiter := rate.NewLimiter(rate.Every(purgeBatchInterval), 1)

	var (
		deleted    int
		skippedOld bool
		before     snowflake.ID
	)
	for _, n := range planPurgeBatches(count) {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		msgs, err := client.GetMessages(channelID, 0, before, 0, n, rest.WithCtx(ctx))
		if err == nil && len(msgs) > 0 {
			before = msgs[len(msgs)-1].ID
			var ids []snowflake.ID
			ids, skippedOld = purgeable(msgs, time.Now())
			if err = deleteMessages(ctx, client, channelID, ids); err == nil {
				deleted += len(ids)
			}
		}
		if err != nil {
			sys.LogModeration(sys.MsgModerationFailed, "purge", guildID, err)
			if deleted == 0 {
				editDeferred(event, purgeFailure(err))
				return
			}
			break
		}
		if skippedOld || len(msgs) < n {
			break
		}
	}
	editDeferred(event, purgeSummary(deleted, skippedOld))
}

func purgeFailure(err error) string {
	switch restErrorCode(err) {
	case rest.JSONErrorCodeLackPermissionsToPerformAction, rest.JSONErrorCodeMissingAccess:
		return sys.ErrPurgeForbidden
	}
	return sys.ErrModerationFailed
}
