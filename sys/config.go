package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite3 = "sqlite3" // mattn/go-sqlite3, cgo
	DriverSQLite  = "sqlite"  // modernc.org/sqlite, pure Go

	DefaultReminderInterval = 30 * time.Second
	DefaultPrefix           = "."
	DefaultActivity         = "my parents fight"
	MaxPrefixLength         = 5
)

type Config struct {
	Token            string
	GuildID          string
	DatabasePath     string
	DatabaseDriver   string
	OwnerIDs         []string
	ReminderInterval time.Duration
	DefaultPrefix    string
	Activity         string
	RawgAPIKey       string // empty disables /game lookups
	Silent           bool
	LogToFile        bool
}

var GlobalConfig *Config

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		token = os.Getenv("BOT_TOKEN")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DATABASE_DRIVER")))
	if driver == "" {
		driver = DriverSQLite3
	}

	interval := DefaultReminderInterval
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REMINDER_INTERVAL %q: %w", raw, err)
		}
		interval = d
	}

	prefix := os.Getenv("DEFAULT_PREFIX")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	activity := os.Getenv("ACTIVITY")
	if activity == "" {
		activity = DefaultActivity
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))
	logToFile, _ := strconv.ParseBool(os.Getenv("LOG_FILE"))

	var ownerIDs []string
	if raw := os.Getenv("OWNER_IDS"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ownerIDs = append(ownerIDs, id)
			}
		}
	}

	cfg := &Config{
		Token:            token,
		GuildID:          strings.TrimSpace(os.Getenv("GUILD_ID")),
		DatabasePath:     dbPath,
		DatabaseDriver:   driver,
		OwnerIDs:         ownerIDs,
		ReminderInterval: interval,
		DefaultPrefix:    prefix,
		Activity:         activity,
		RawgAPIKey:       strings.TrimSpace(os.Getenv("RAWG_API_KEY")),
		Silent:           silent,
		LogToFile:        logToFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}
	if c.DatabaseDriver != DriverSQLite3 && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("invalid DATABASE_DRIVER %q: use %q or %q", c.DatabaseDriver, DriverSQLite3, DriverSQLite)
	}
	if c.ReminderInterval < time.Second {
		return fmt.Errorf("invalid REMINDER_INTERVAL: must be at least 1s, got %s", c.ReminderInterval)
	}
	if n := len([]rune(c.DefaultPrefix)); n == 0 || n > MaxPrefixLength {
		return fmt.Errorf("invalid DEFAULT_PREFIX: must be 1-%d characters", MaxPrefixLength)
	}
	return nil
}

// IsOwner reports whether id is listed in OWNER_IDS.
func (c *Config) IsOwner(id string) bool {
	for _, owner := range c.OwnerIDs {
		if owner == id {
			return true
		}
	}
	return false
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "cooli"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") || strings.HasSuffix(projectName, ".test") {
			projectName = "cooli"
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
