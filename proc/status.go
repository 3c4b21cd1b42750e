package proc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"

	"github.com/leeineian/cooli/sys"
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogStatus, func(ctx context.Context) (bool, func(), func()) {
			return StartStatusRotator(ctx, client)
		})
	})
}

var statusRotatorRunning int32

// statusSource returns one candidate activity text, or "" to sit this round out.
type statusSource func(ctx context.Context) string

func rotationInterval() time.Duration {
	return time.Duration(30+rand.IntN(61)) * time.Second
}

// StartStatusRotator cycles the watching activity between the configured text,
// the number of pending reminders and the uptime.
func StartStatusRotator(ctx context.Context, client *bot.Client) (bool, func(), func()) {
	if !atomic.CompareAndSwapInt32(&statusRotatorRunning, 0, 1) {
		return false, nil, nil
	}

	sources := []statusSource{
		configuredStatus,
		pendingRemindersStatus,
		uptimeStatus,
	}

	return true, func() {
			last := ""
			for {
				select {
				case <-time.After(rotationInterval()):
					last = updateStatus(ctx, client, sources, last)
				case <-ctx.Done():
					return
				}
			}
		}, func() {
			sys.LogStatus(sys.MsgStatusShutdown)
		}
}

func updateStatus(ctx context.Context, client *bot.Client, sources []statusSource, last string) string {
	var candidates []string
	for _, src := range sources {
		if text := src(ctx); text != "" {
			candidates = append(candidates, text)
		}
	}

	next := pickStatus(candidates, last, rand.IntN)
	if next == "" {
		return last
	}

	err := client.SetPresence(ctx,
		gateway.WithWatchingActivity(next),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
	)
	if err != nil {
		sys.LogStatus(sys.MsgStatusUpdateFail, err)
		return last
	}
	sys.LogDebug(sys.MsgStatusRotated, next)
	return next
}

// pickStatus picks a random candidate, avoiding last when there is a choice.
func pickStatus(candidates []string, last string, intn func(int) int) string {
	var fresh []string
	for _, c := range candidates {
		if c != last {
			fresh = append(fresh, c)
		}
	}
	switch {
	case len(fresh) > 0:
		return fresh[intn(len(fresh))]
	case len(candidates) > 0:
		return candidates[0]
	default:
		return ""
	}
}

func configuredStatus(ctx context.Context) string {
	if sys.GlobalConfig == nil {
		return sys.DefaultActivity
	}
	return sys.GlobalConfig.Activity
}

func pendingRemindersStatus(ctx context.Context) string {
	count, err := sys.DB.GetRemindersCount(ctx, 0)
	if err != nil || count == 0 {
		return ""
	}
	return formatPendingStatus(count)
}

func formatPendingStatus(count int) string {
	if count == 1 {
		return "1 pending reminder"
	}
	return fmt.Sprintf("%d pending reminders", count)
}

func uptimeStatus(ctx context.Context) string {
	return formatUptime(time.Since(sys.StartupTime))
}

func formatUptime(d time.Duration) string {
	return fmt.Sprintf("uptime %dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
