package weeklyreport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HanSoulEater/trello-weekly-report/internal/config"
	"github.com/HanSoulEater/trello-weekly-report/internal/report"
	"github.com/HanSoulEater/trello-weekly-report/internal/telegram"
	"github.com/HanSoulEater/trello-weekly-report/internal/trello"
)

// ActionSource yields a board's checklist activity for a time range.
type ActionSource interface {
	BoardActions(ctx context.Context, boardID, since, before string) ([]trello.Action, error)
}

// MessageSender delivers report text, splitting it when it exceeds the
// transport limit.
type MessageSender interface {
	SendLongMessage(ctx context.Context, chatID, text string) error
}

// Archiver persists a week's completions outside the chat.
type Archiver interface {
	Export(actions []trello.Action, w report.Window, loc *time.Location) (string, error)
}

type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Source   ActionSource
	Sender   MessageSender
	Archiver Archiver // nil when archiving is disabled

	location *time.Location
}

func New(cfg *config.Config) (*Application, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	logger = logger.With("run_id", uuid.NewString())

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	app := &Application{
		Config:   cfg,
		Logger:   logger,
		Source:   trello.NewClient(cfg.Trello.Key, cfg.Trello.Token, logger),
		Sender:   telegram.NewClient(cfg.Telegram.Token, logger),
		location: loc,
	}

	if cfg.Report.ArchiveDir != "" {
		app.Archiver = report.NewExcelExporter(cfg.Report.ArchiveDir)
	}

	return app, nil
}

// Run executes one report cycle: resolve the previous calendar week, fetch
// the board's completions, render the report and deliver it. The title and
// body go out as separate messages so the title stays bold on its own line.
func (app *Application) Run(ctx context.Context, now time.Time) error {
	window := report.LastWeek(now, app.location)

	app.Logger.Info("report window resolved",
		"start", window.Start.Format("2006-01-02"),
		"end", window.LastDay().Format("2006-01-02"),
		"timezone", app.Config.Report.Timezone,
	)

	actions, err := app.Source.BoardActions(ctx, app.Config.Trello.BoardID, window.Since(), window.Before())
	if err != nil {
		app.Logger.Error("failed to fetch board actions", "error", err)
		return fmt.Errorf("fetching board actions: %w", err)
	}
	app.Logger.Info("actions fetched", "count", len(actions))

	rep := report.Build(actions, window, app.location)

	if err := app.Sender.SendLongMessage(ctx, app.Config.Telegram.ChatID, "<b>"+rep.Title+"</b>"); err != nil {
		app.Logger.Error("failed to deliver title", "error", err)
		return fmt.Errorf("delivering title: %w", err)
	}
	if err := app.Sender.SendLongMessage(ctx, app.Config.Telegram.ChatID, rep.Body); err != nil {
		app.Logger.Error("failed to deliver report", "error", err)
		return fmt.Errorf("delivering report: %w", err)
	}
	app.Logger.Info("report delivered", "chat_id", app.Config.Telegram.ChatID)

	if app.Archiver != nil {
		app.archive(actions, window)
	}

	return nil
}

// archive is best effort: the report already reached the chat, so a failed
// workbook write is logged but does not fail the run.
func (app *Application) archive(actions []trello.Action, window report.Window) {
	if err := os.MkdirAll(app.Config.Report.ArchiveDir, 0755); err != nil {
		app.Logger.Error("failed to create archive directory", "error", err)
		return
	}

	path, err := app.Archiver.Export(actions, window, app.location)
	if err != nil {
		app.Logger.Error("failed to archive report", "error", err)
		return
	}
	app.Logger.Info("report archived", "file", path)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
