package proc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/leeineian/cooli/sys"
)

type fakeStore struct {
	mu       sync.Mutex
	records  []*sys.Reminder
	queries  []time.Time
	deleted  [][]int64
	queryErr error
}

func (f *fakeStore) GetDueReminders(ctx context.Context, now time.Time) ([]*sys.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, now)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var due []*sys.Reminder
	for _, r := range f.records {
		if !r.RemindAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (f *fakeStore) DeleteRemindersByID(ctx context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []*sys.Reminder
	for _, r := range f.records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	n := int64(len(f.records) - len(kept))
	f.records = kept
	return n, nil
}

func (f *fakeStore) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeNotifier struct {
	mu   sync.Mutex
	fail map[int64]error
	sent []int64
	// after runs once a delivery attempt for the given id has been made
	after map[int64]func()
}

func (f *fakeNotifier) Notify(ctx context.Context, r *sys.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if hook := f.after[r.ID]; hook != nil {
		defer hook()
	}
	if err := f.fail[r.ID]; err != nil {
		return err
	}
	f.sent = append(f.sent, r.ID)
	return nil
}

func newTestScheduler(store Store, n Notifier, ready <-chan struct{}, clk clock.Clock) *Scheduler {
	return NewScheduler(store, n, ready, SchedulerOptions{
		Clock:    clk,
		Interval: 30 * time.Second,
		Limiter:  rate.NewLimiter(rate.Inf, 1),
	})
}

func TestTickDeletesEveryDueRecordEvenWhenDeliveryFails(t *testing.T) {
	clk := clock.NewMock()
	now := clk.Now()

	store := &fakeStore{records: []*sys.Reminder{
		{ID: 1, UserID: snowflake.ID(10), Subject: "blocked", RemindAt: now.Add(-time.Minute)},
		{ID: 2, UserID: snowflake.ID(20), Subject: "healthy", RemindAt: now},
		{ID: 3, UserID: snowflake.ID(30), Subject: "later", RemindAt: now.Add(time.Hour)},
	}}
	notifier := &fakeNotifier{fail: map[int64]error{
		1: fmt.Errorf("dm: %w", ErrRecipientUnreachable),
	}}

	res := newTestScheduler(store, notifier, nil, clk).Tick(context.Background())

	assert.Equal(t, TickResult{Due: 2, Delivered: 1, Failed: 1, Deleted: 2}, res)
	assert.Equal(t, []int64{2}, notifier.sent)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, []int64{1, 2}, store.deleted[0])
	require.Len(t, store.records, 1)
	assert.EqualValues(t, 3, store.records[0].ID)
}

func TestTickContinuesAfterGenericFailure(t *testing.T) {
	clk := clock.NewMock()
	now := clk.Now()

	store := &fakeStore{}
	for id := int64(1); id <= 4; id++ {
		store.records = append(store.records, &sys.Reminder{ID: id, UserID: snowflake.ID(id), RemindAt: now})
	}
	notifier := &fakeNotifier{fail: map[int64]error{
		1: errors.New("boom"),
		3: ErrRecipientUnreachable,
	}}

	res := newTestScheduler(store, notifier, nil, clk).Tick(context.Background())

	assert.Equal(t, 4, res.Due)
	assert.Equal(t, 2, res.Delivered)
	assert.Equal(t, []int64{2, 4}, notifier.sent)
	assert.Empty(t, store.records)
}

func TestTickCancelledBeforeDeliveryKeepsRecords(t *testing.T) {
	clk := clock.NewMock()
	now := clk.Now()

	store := &fakeStore{records: []*sys.Reminder{
		{ID: 1, UserID: snowflake.ID(10), RemindAt: now},
		{ID: 2, UserID: snowflake.ID(20), RemindAt: now},
	}}
	notifier := &fakeNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := newTestScheduler(store, notifier, nil, clk).Tick(ctx)

	assert.Equal(t, TickResult{Due: 2, Deferred: 2}, res)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, store.deleted)
	assert.Len(t, store.records, 2)
}

func TestTickInterruptedMidBatchDeletesOnlyAttempted(t *testing.T) {
	clk := clock.NewMock()
	now := clk.Now()

	store := &fakeStore{}
	for id := int64(1); id <= 3; id++ {
		store.records = append(store.records, &sys.Reminder{ID: id, UserID: snowflake.ID(id), RemindAt: now})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier := &fakeNotifier{after: map[int64]func(){1: cancel}}

	res := newTestScheduler(store, notifier, nil, clk).Tick(ctx)

	assert.Equal(t, TickResult{Due: 3, Delivered: 1, Deferred: 2, Deleted: 1}, res)
	assert.Equal(t, []int64{1}, notifier.sent)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, []int64{1}, store.deleted[0])
	require.Len(t, store.records, 2)
	assert.EqualValues(t, 2, store.records[0].ID)
	assert.EqualValues(t, 3, store.records[1].ID)
}

func TestTickDropsRecordWithoutOwner(t *testing.T) {
	clk := clock.NewMock()
	now := clk.Now()

	store := &fakeStore{records: []*sys.Reminder{
		{ID: 1, Subject: "orphan", RemindAt: now},
		{ID: 2, UserID: snowflake.ID(20), RemindAt: now},
	}}
	notifier := &fakeNotifier{}

	res := newTestScheduler(store, notifier, nil, clk).Tick(context.Background())

	assert.Equal(t, TickResult{Due: 2, Delivered: 1, Failed: 1, Deleted: 2}, res)
	assert.Equal(t, []int64{2}, notifier.sent)
	assert.Empty(t, store.records)
}

func TestTickAgainstSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := sys.OpenDatabase(ctx, sys.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clk := clock.NewMock()
	clk.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	due := clk.Now().Add(10 * time.Minute)
	owner := snowflake.ID(123456789012345678)

	r := &sys.Reminder{UserID: owner, Subject: "stretch", RemindAt: due}
	require.NoError(t, db.AddReminder(ctx, r))

	list, err := db.GetRemindersForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.True(t, list[0].RemindAt.Equal(due))

	notifier := &fakeNotifier{}
	s := newTestScheduler(db, notifier, nil, clk)

	clk.Set(due.Add(-time.Second))
	res := s.Tick(ctx)
	assert.Equal(t, TickResult{}, res)
	list, err = db.GetRemindersForUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	clk.Set(due)
	res = s.Tick(ctx)
	assert.Equal(t, TickResult{Due: 1, Delivered: 1, Deleted: 1}, res)
	assert.Equal(t, []int64{r.ID}, notifier.sent)
	list, err = db.GetRemindersForUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTickStoreErrorEndsTick(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("database is locked")}
	notifier := &fakeNotifier{}

	res := newTestScheduler(store, notifier, nil, clock.NewMock()).Tick(context.Background())

	assert.Equal(t, TickResult{}, res)
	assert.Empty(t, store.deleted)
	assert.Empty(t, notifier.sent)
}

func TestTickNothingDue(t *testing.T) {
	clk := clock.NewMock()
	store := &fakeStore{records: []*sys.Reminder{{ID: 1, RemindAt: clk.Now().Add(time.Second)}}}

	res := newTestScheduler(store, &fakeNotifier{}, nil, clk).Tick(context.Background())

	assert.Equal(t, TickResult{}, res)
	assert.Empty(t, store.deleted)
}

func TestTickUsesInjectedClock(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(42 * time.Hour)
	store := &fakeStore{}

	newTestScheduler(store, &fakeNotifier{}, nil, clk).Tick(context.Background())

	require.Len(t, store.queries, 1)
	assert.True(t, store.queries[0].Equal(clk.Now()))
}

func TestRunWaitsForReady(t *testing.T) {
	clk := clock.NewMock()
	store := &fakeStore{}
	ready := make(chan struct{})
	s := newTestScheduler(store, &fakeNotifier{}, ready, clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	clk.Add(5 * time.Minute)
	assert.Zero(t, store.queryCount())

	close(ready)
	require.Eventually(t, func() bool {
		clk.Add(30 * time.Second)
		return store.queryCount() > 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReturnsWhenCancelledBeforeReady(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeNotifier{}, make(chan struct{}), clock.NewMock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
}

func TestStartReminderSchedulerOnlyOnce(t *testing.T) {
	ready := make(chan struct{})
	s := newTestScheduler(&fakeStore{}, &fakeNotifier{}, ready, clock.NewMock())

	ok, run, shutdown := StartReminderScheduler(context.Background(), s)
	require.True(t, ok)
	go run()

	again, _, _ := StartReminderScheduler(context.Background(), s)
	assert.False(t, again)

	shutdown()
}

func TestClassifyDeliveryError(t *testing.T) {
	blocked := fmt.Errorf("send message: %w", &rest.Error{Code: jsonErrorCannotDM, Message: "Cannot send messages to this user"})
	assert.ErrorIs(t, classifyDeliveryError(blocked), ErrRecipientUnreachable)

	other := fmt.Errorf("send message: %w", &rest.Error{Code: 50001, Message: "Missing Access"})
	assert.NotErrorIs(t, classifyDeliveryError(other), ErrRecipientUnreachable)

	plain := errors.New("timeout")
	assert.Equal(t, plain, classifyDeliveryError(plain))
}

func TestBuildReminderMessage(t *testing.T) {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := BuildReminderMessage(&sys.Reminder{UserID: 42, Subject: "stretch", RemindAt: due})

	assert.True(t, msg.Flags.Has(discord.MessageFlagIsComponentsV2))
	require.Len(t, msg.Components, 1)
	container, ok := msg.Components[0].(discord.ContainerComponent)
	require.True(t, ok)
	require.Len(t, container.Components, 2)

	title, ok := container.Components[0].(discord.TextDisplayComponent)
	require.True(t, ok)
	assert.Equal(t, sys.MsgReminderDeliveryTitle, title.Content)

	body, ok := container.Components[1].(discord.TextDisplayComponent)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("Hey <@42>, you asked to be reminded of **stretch** <t:%d:R>", due.Unix()), body.Content)
}
