package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	auth "github.com/goliatone/go-cookie-auth"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// InitDefault sets up a console logger before flags are parsed
func InitDefault() {
	Init(os.Stderr, "info", FormatConsole, false)
}

// Init configures the global zerolog logger
func Init(w io.Writer, level, format string, noColor bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == FormatJSON {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}

var _ auth.Logger = (*ZLogger)(nil)

// ZLogger adapts zerolog to the auth.Logger interface
type ZLogger struct {
	ZLog zerolog.Logger
}

func NewZLogger(zlog zerolog.Logger) ZLogger {
	return ZLogger{ZLog: zlog}
}

func (l ZLogger) Debug(format string, args ...any) {
	l.ZLog.Debug().Msgf(format, args...)
}

func (l ZLogger) Info(format string, args ...any) {
	l.ZLog.Info().Msgf(format, args...)
}

func (l ZLogger) Warn(format string, args ...any) {
	l.ZLog.Warn().Msgf(format, args...)
}

func (l ZLogger) Error(format string, args ...any) {
	l.ZLog.Error().Msgf(format, args...)
}

var _ auth.ActivitySink = (*ActivityLogger)(nil)

// ActivityLogger writes auth activity events as structured log lines
type ActivityLogger struct {
	ZLog zerolog.Logger
}

func NewActivityLogger(zlog zerolog.Logger) ActivityLogger {
	return ActivityLogger{ZLog: zlog.With().Str("component", "activity").Logger()}
}

func (a ActivityLogger) Record(_ context.Context, event auth.ActivityEvent) error {
	evt := a.ZLog.Info()
	if event.EventType == auth.ActivityEventLoginFailure {
		evt = a.ZLog.Warn()
	}

	evt = evt.
		Str("event", string(event.EventType)).
		Str("username", event.Username).
		Time("occurred_at", event.OccurredAt)

	if event.Kind != 0 {
		evt = evt.Str("kind", event.Kind.String())
	}
	if event.Diagnostic != auth.DiagnosticNone {
		evt = evt.Str("diagnostic", string(event.Diagnostic))
	}
	if len(event.Metadata) > 0 {
		evt = evt.Interface("metadata", event.Metadata)
	}

	evt.Msg("auth activity")
	return nil
}
