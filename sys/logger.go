package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// --- Globals & Styles ---

var (
	// Level colors
	infoColor  = color.New()
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	fatalColor = color.New(color.FgRed, color.Bold)
	debugColor = color.New(color.FgHiBlack)

	// Component colors
	componentColors = map[string]*color.Color{
		"DATABASE":   color.New(),
		"REMINDER":   color.New(color.FgMagenta),
		"TIMEZONE":   color.New(color.FgBlue),
		"AUTOREPLY":  color.New(color.FgGreen),
		"PREFIX":     color.New(color.FgGreen),
		"LOADER":     color.New(color.FgHiBlack),
		"STATUS":     color.New(color.FgCyan),
		"MODERATION": color.New(color.FgRed),
		"GENERAL":    color.New(color.FgYellow),
		"GAME":       color.New(color.FgHiMagenta),
	}

	DefaultTimeFormat = "15:04:05"
	IsSilent          = false
	LogToFile         = false
	Logger            *slog.Logger

	logFile *os.File
	logMu   sync.Mutex
)

const LevelFatal = slog.LevelError + 4

// --- Initialization ---

func init() {
	InitLogger(false, false)
}

// InitLogger installs the bot handler as the slog default. With saveToFile the
// output is mirrored, without colors, to <executable>.log.
func InitLogger(silent bool, saveToFile bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writer io.Writer = os.Stdout

	if LogToFile {
		logName := GetProjectName() + ".log"
		if exePath, err := os.Executable(); err == nil {
			logName = filepath.Base(exePath) + ".log"
		}

		f, err := os.OpenFile(logName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", logName, err)
		} else {
			logFile = f
			writer = io.MultiWriter(os.Stdout, NewStripANSIWriter(logFile))
		}
	}

	color.NoColor = false

	Logger = slog.New(NewBotLogHandler(writer, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	}))
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// --- Public Logging API ---

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

// LogFatal panics after logging so deferred cleanup in main still runs.
func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), LevelFatal, msg)
	panic(msg)
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

// Component Loggers

func logComponent(level slog.Level, component, format string, v ...any) {
	slog.Log(context.Background(), level, fmt.Sprintf(format, v...), slog.String("component", component))
}

func LogDatabase(format string, v ...any) {
	logComponent(slog.LevelInfo, "database", format, v...)
}

func LogReminder(format string, v ...any) {
	logComponent(slog.LevelInfo, "reminder", format, v...)
}

func LogReminderWarn(format string, v ...any) {
	logComponent(slog.LevelWarn, "reminder", format, v...)
}

func LogReminderError(format string, v ...any) {
	logComponent(slog.LevelError, "reminder", format, v...)
}

func LogTimezone(format string, v ...any) {
	logComponent(slog.LevelInfo, "timezone", format, v...)
}

func LogAutoreply(format string, v ...any) {
	logComponent(slog.LevelInfo, "autoreply", format, v...)
}

func LogPrefix(format string, v ...any) {
	logComponent(slog.LevelInfo, "prefix", format, v...)
}

func LogModeration(format string, v ...any) {
	logComponent(slog.LevelInfo, "moderation", format, v...)
}

func LogGeneral(format string, v ...any) {
	logComponent(slog.LevelInfo, "general", format, v...)
}

func LogGameWarn(format string, v ...any) {
	logComponent(slog.LevelWarn, "game", format, v...)
}

func LogStatus(format string, v ...any) {
	logComponent(slog.LevelInfo, "status", format, v...)
}

func LogLoader(format string, v ...any) {
	logComponent(slog.LevelInfo, "loader", format, v...)
}

// --- Log Handler Implementation ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

// BotLogHandler prints "15:04:05 [LEVEL] message" or, for records carrying a
// component attribute, "15:04:05 [COMPONENT] message" in the component color.
type BotLogHandler struct {
	w         io.Writer
	opts      *BotLogHandlerOptions
	mu        *sync.Mutex
	component string
	now       func() time.Time
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
		now:  time.Now,
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Silent {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent {
		return nil
	}

	levelStr, levelColor := levelStyle(r.Level)

	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return false
		}
		return true
	})

	fmt.Fprintf(h.w, "%s", h.now().Format(DefaultTimeFormat))

	if component != "" {
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		fmt.Fprintf(h.w, " %s\n", colorizeWithResets(getComponentColor(component), fmt.Sprintf("[%s] %s", component, r.Message)))
		return nil
	}

	fmt.Fprintf(h.w, " %s\n", colorizeWithResets(levelColor, fmt.Sprintf("[%s] %s", levelStr, r.Message)))
	return nil
}

// WithAttrs keeps a component attribute so that library loggers derived with
// With("component", ...) still get tagged. Other attributes are dropped.
func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for _, a := range attrs {
		if a.Key == "component" {
			clone := *h
			clone.component = strings.ToUpper(a.Value.String())
			return &clone
		}
	}
	return h
}

func (h *BotLogHandler) WithGroup(name string) slog.Handler { return h }

// --- Formatting Helpers ---

func levelStyle(level slog.Level) (string, *color.Color) {
	switch {
	case level >= LevelFatal:
		return "FATAL", fatalColor
	case level >= slog.LevelError:
		return "ERROR", errorColor
	case level >= slog.LevelWarn:
		return "WARN", warnColor
	case level >= slog.LevelInfo:
		return "INFO", infoColor
	default:
		return "DEBUG", debugColor
	}
}

func getComponentColor(name string) *color.Color {
	if c, ok := componentColors[name]; ok {
		return c
	}
	return color.New(color.FgCyan)
}

func colorizeWithResets(c *color.Color, text string) string {
	if !strings.Contains(text, "\x1b[0m") {
		return c.Sprint(text)
	}

	marker := "@@@MSG@@@"
	wrapped := c.Sprint(marker)
	idx := strings.Index(wrapped, marker)
	if idx <= 0 {
		return text
	}
	startSeq := wrapped[:idx]

	return c.Sprint(strings.ReplaceAll(text, "\x1b[0m", "\x1b[0m"+startSeq))
}

func GetLogPath() string {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// --- ANSI Stripper ---

type StripANSIWriter struct {
	w  io.Writer
	re *regexp.Regexp
}

func NewStripANSIWriter(w io.Writer) *StripANSIWriter {
	return &StripANSIWriter{
		w:  w,
		re: regexp.MustCompile(`\x1b\[[0-9;]*m`),
	}
}

func (s *StripANSIWriter) Write(p []byte) (n int, err error) {
	clean := s.re.ReplaceAll(p, []byte(""))
	_, err = s.w.Write(clean)
	return len(p), err
}
