package proc

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/disgoorg/disgo/bot"
	"golang.org/x/time/rate"

	"github.com/leeineian/cooli/sys"
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogReminder, func(ctx context.Context) (bool, func(), func()) {
			s := NewScheduler(sys.DB, NewDiscordNotifier(client), sys.ClientReady(), SchedulerOptions{
				Interval: sys.GlobalConfig.ReminderInterval,
			})
			return StartReminderScheduler(ctx, s)
		})
	})
}

// Store is the part of the reminder store the scheduler needs.
type Store interface {
	GetDueReminders(ctx context.Context, now time.Time) ([]*sys.Reminder, error)
	DeleteRemindersByID(ctx context.Context, ids []int64) (int64, error)
}

type Notifier interface {
	Notify(ctx context.Context, r *sys.Reminder) error
}

type SchedulerOptions struct {
	Clock    clock.Clock
	Interval time.Duration
	// Limiter paces deliveries within one tick. Nil means 5 per second.
	Limiter *rate.Limiter
}

// TickResult counts what one tick did. Deferred records were due but never
// attempted because the tick was interrupted; they stay for the next run.
type TickResult struct {
	Due       int
	Delivered int
	Failed    int
	Deferred  int
	Deleted   int64
}

// Scheduler delivers due reminders on a fixed interval and then deletes
// exactly the records it attempted, delivered or not.
type Scheduler struct {
	store    Store
	notifier Notifier
	ready    <-chan struct{}
	clock    clock.Clock
	interval time.Duration
	limiter  *rate.Limiter
}

func NewScheduler(store Store, notifier Notifier, ready <-chan struct{}, opts SchedulerOptions) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Interval <= 0 {
		opts.Interval = sys.DefaultReminderInterval
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Limit(5), 5)
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		ready:    ready,
		clock:    opts.Clock,
		interval: opts.Interval,
		limiter:  opts.Limiter,
	}
}

// Run waits for the ready signal, then ticks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return
	}

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one due-reminder scan.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	var res TickResult
	now := s.clock.Now()

	due, err := s.store.GetDueReminders(ctx, now)
	if err != nil {
		sys.LogReminderError(sys.MsgReminderFailedToQueryDue, err)
		return res
	}
	if len(due) == 0 {
		return res
	}
	res.Due = len(due)

	ids := make([]int64, 0, len(due))
	for _, r := range due {
		// the store could not decode the owner, so there is no one to notify
		if r.UserID == 0 {
			ids = append(ids, r.ID)
			res.Failed++
			sys.LogReminderWarn(sys.MsgReminderMalformed, r.ID)
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			sys.LogReminderWarn(sys.MsgReminderTickInterrupted, res.Due-len(ids), err)
			break
		}

		err := s.notifier.Notify(ctx, r)
		ids = append(ids, r.ID)
		if err != nil {
			res.Failed++
			if errors.Is(err, ErrRecipientUnreachable) {
				sys.LogReminderWarn(sys.MsgReminderUnreachable, r.UserID, r.ID)
			} else {
				sys.LogReminderError(sys.MsgReminderFailedToSend, r.ID, err)
			}
			continue
		}

		res.Delivered++
		sys.LogDebug(sys.MsgReminderSent, r.ID, r.UserID)
	}
	res.Deferred = res.Due - len(ids)

	if len(ids) > 0 {
		// A cancelled ctx must not leave attempted records behind.
		n, err := s.store.DeleteRemindersByID(context.WithoutCancel(ctx), ids)
		if err != nil {
			sys.LogReminderError(sys.MsgReminderFailedToDeleteBatch, len(ids), err)
		}
		res.Deleted = n
	}

	sys.LogReminder(sys.MsgReminderTick, res.Due, res.Delivered, res.Failed, res.Deferred, res.Deleted)
	return res
}

var reminderSchedulerRunning int32

// StartReminderScheduler hands the scheduler to the daemon system. Only the
// first call starts anything.
func StartReminderScheduler(ctx context.Context, s *Scheduler) (bool, func(), func()) {
	if !atomic.CompareAndSwapInt32(&reminderSchedulerRunning, 0, 1) {
		return false, nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	return true, func() {
			defer close(done)
			s.Run(ctx)
		}, func() {
			sys.LogReminder(sys.MsgReminderShutdown)
			cancel()
			<-done
		}
}
