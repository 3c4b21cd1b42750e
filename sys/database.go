package sys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/disgoorg/snowflake/v2"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

var (
	ErrInvalidTimezone   = errors.New("invalid timezone")
	ErrReminderExists    = errors.New("reminder already exists")
	ErrAutoreplyExists   = errors.New("autoreply already exists")
	ErrAutoreplyNotFound = errors.New("autoreply not found")
)

// --- Connection & Lifecycle ---

// Database wraps the shared sqlite handle. It uses a single connection, so
// writes are serialized and ":memory:" databases survive between calls.
type Database struct {
	*sql.DB
	Driver string
}

var DB *Database

func InitDatabase(ctx context.Context, driver, dataSourceName string) error {
	db, err := OpenDatabase(ctx, driver, dataSourceName)
	if err != nil {
		return err
	}
	DB = db
	LogDatabase(MsgDatabaseInitSuccess, driver)
	return nil
}

func OpenDatabase(ctx context.Context, driver, dataSourceName string) (*Database, error) {
	sqlDB, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	db := &Database{DB: sqlDB, Driver: driver}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (db *Database) migrate(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA cache_size=-2000;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := db.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := db.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			remind_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON reminders (remind_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders (user_id)`,
		// Databases from before the unique index may hold duplicates; keep the oldest copy.
		`DELETE FROM reminders WHERE id NOT IN (
			SELECT MIN(id) FROM reminders GROUP BY user_id, remind_at, subject
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reminders_unique ON reminders (user_id, remind_at, subject)`,
		`CREATE TABLE IF NOT EXISTS user_timezones (
			user_id TEXT PRIMARY KEY,
			timezone TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS autoreplies (
			guild_id TEXT NOT NULL,
			trigger_text TEXT NOT NULL,
			response TEXT NOT NULL,
			PRIMARY KEY (guild_id, trigger_text)
		)`,
		`CREATE TABLE IF NOT EXISTS prefixes (
			guild_id TEXT PRIMARY KEY,
			prefix TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	return tx.Commit()
}

func CloseDatabase() {
	if DB != nil {
		_ = DB.Close()
	}
}

// --- Bot Persistence ---

// GetBotConfig returns "" for unknown keys.
func (db *Database) GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (db *Database) SetBotConfig(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Reminders ---

type Reminder struct {
	ID        int64
	UserID    snowflake.ID
	Subject   string
	RemindAt  time.Time
	CreatedAt time.Time
}

const reminderColumns = "id, user_id, subject, remind_at, created_at"

// AddReminder stores r and fills in its ID. Instants are kept as unix seconds.
// A second insert of the same owner, instant and subject returns
// ErrReminderExists and leaves r.ID unset.
func (db *Database) AddReminder(ctx context.Context, r *Reminder) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO reminders (user_id, subject, remind_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, remind_at, subject) DO NOTHING
	`, r.UserID.String(), r.Subject, r.RemindAt.Unix(), r.CreatedAt.Unix())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReminderExists
	}
	r.ID, err = result.LastInsertId()
	return err
}

func (db *Database) GetRemindersForUser(ctx context.Context, userID snowflake.ID) ([]*Reminder, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+reminderColumns+" FROM reminders WHERE user_id = ? ORDER BY remind_at ASC, id ASC",
		userID.String())
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

// GetDueReminders returns every reminder with remind_at <= now.
func (db *Database) GetDueReminders(ctx context.Context, now time.Time) ([]*Reminder, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+reminderColumns+" FROM reminders WHERE remind_at <= ? ORDER BY remind_at ASC, id ASC",
		now.Unix())
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func scanReminders(rows *sql.Rows) ([]*Reminder, error) {
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		r := &Reminder{}
		var uid string
		var remindAt, createdAt int64
		if err := rows.Scan(&r.ID, &uid, &r.Subject, &remindAt, &createdAt); err != nil {
			return nil, err
		}
		// A bad owner must not hide the other rows. The record comes back with
		// a zero UserID so the scheduler can still drop it.
		if id, err := snowflake.Parse(uid); err == nil {
			r.UserID = id
		} else {
			LogWarn(MsgDatabaseBadReminderOwner, uid, r.ID, err)
		}
		r.RemindAt = time.Unix(remindAt, 0).UTC()
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// DeleteReminder removes one reminder if it belongs to userID.
func (db *Database) DeleteReminder(ctx context.Context, id int64, userID snowflake.ID) (bool, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ? AND user_id = ?", id, userID.String())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (db *Database) DeleteAllRemindersForUser(ctx context.Context, userID snowflake.ID) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM reminders WHERE user_id = ?", userID.String())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteRemindersByID removes exactly the given ids in one statement.
func (db *Database) DeleteRemindersByID(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM reminders WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// GetRemindersCount counts reminders for userID, or all reminders when userID
// is zero.
func (db *Database) GetRemindersCount(ctx context.Context, userID snowflake.ID) (int, error) {
	var count int
	var err error
	if userID == 0 {
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders").Scan(&count)
	} else {
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders WHERE user_id = ?", userID.String()).Scan(&count)
	}
	return count, err
}

// --- Timezones ---

// ValidateTimezone loads an IANA zone name. "Local" is refused because it
// would silently mean the host's zone.
func ValidateTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// GetUserTimezone returns the user's zone, UTC when none is stored.
func (db *Database) GetUserTimezone(ctx context.Context, userID snowflake.ID) (*time.Location, error) {
	var name string
	err := db.QueryRowContext(ctx, "SELECT timezone FROM user_timezones WHERE user_id = ?", userID.String()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return time.UTC, nil
	}
	if err != nil {
		return nil, err
	}

	loc, err := ValidateTimezone(name)
	if err != nil {
		LogTimezone(MsgTimezoneStoredBroken, name, userID, err)
		return time.UTC, nil
	}
	return loc, nil
}

func (db *Database) SetUserTimezone(ctx context.Context, userID snowflake.ID, name string) (*time.Location, error) {
	loc, err := ValidateTimezone(name)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO user_timezones (user_id, timezone, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET timezone = excluded.timezone, updated_at = excluded.updated_at
	`, userID.String(), loc.String(), time.Now().Unix())
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (db *Database) ResetUserTimezone(ctx context.Context, userID snowflake.ID) error {
	_, err := db.ExecContext(ctx, "DELETE FROM user_timezones WHERE user_id = ?", userID.String())
	return err
}

// --- Autoreplies ---

type Autoreply struct {
	GuildID  snowflake.ID
	Trigger  string
	Response string
}

func (db *Database) AddAutoreply(ctx context.Context, guildID snowflake.ID, trigger, response string) error {
	result, err := db.ExecContext(ctx, `
		INSERT INTO autoreplies (guild_id, trigger_text, response) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, trigger_text) DO NOTHING
	`, guildID.String(), trigger, response)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrAutoreplyExists
	}
	return nil
}

func (db *Database) UpdateAutoreply(ctx context.Context, guildID snowflake.ID, trigger, response string) error {
	result, err := db.ExecContext(ctx,
		"UPDATE autoreplies SET response = ? WHERE guild_id = ? AND trigger_text = ?",
		response, guildID.String(), trigger)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrAutoreplyNotFound)
}

func (db *Database) RemoveAutoreply(ctx context.Context, guildID snowflake.ID, trigger string) error {
	result, err := db.ExecContext(ctx,
		"DELETE FROM autoreplies WHERE guild_id = ? AND trigger_text = ?",
		guildID.String(), trigger)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrAutoreplyNotFound)
}

func (db *Database) ClearAutoreplies(ctx context.Context, guildID snowflake.ID) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM autoreplies WHERE guild_id = ?", guildID.String())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (db *Database) ListAutoreplies(ctx context.Context, guildID snowflake.ID) ([]Autoreply, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT trigger_text, response FROM autoreplies WHERE guild_id = ? ORDER BY trigger_text ASC",
		guildID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Autoreply
	for rows.Next() {
		a := Autoreply{GuildID: guildID}
		if err := rows.Scan(&a.Trigger, &a.Response); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// --- Prefixes ---

// GetGuildPrefix returns fallback when the guild never set a prefix.
func (db *Database) GetGuildPrefix(ctx context.Context, guildID snowflake.ID, fallback string) (string, error) {
	var prefix string
	err := db.QueryRowContext(ctx, "SELECT prefix FROM prefixes WHERE guild_id = ?", guildID.String()).Scan(&prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return prefix, nil
}

func (db *Database) SetGuildPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO prefixes (guild_id, prefix) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET prefix = excluded.prefix
	`, guildID.String(), prefix)
	return err
}
