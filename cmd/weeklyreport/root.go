package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HanSoulEater/trello-weekly-report/internal/config"
	"github.com/HanSoulEater/trello-weekly-report/internal/weeklyreport"
)

var (
	configPath  string
	trelloKey   string
	trelloToken string
	boardID     string
	tgToken     string
	tgChatID    string
	timezone    string
	archiveDir  string
	logLevel    string
	dryRun      bool
)

var rootCmd = &cobra.Command{
	Use:   "weeklyreport",
	Short: "Send a weekly Trello checklist report to Telegram",
	Long: `weeklyreport collects the checklist items completed on a Trello board
during the previous calendar week (Monday through Sunday) and delivers
the summary to a Telegram chat. Designed to run from a weekly cron.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	rootCmd.Flags().StringVar(&trelloKey, "trello-key", "", "Trello API key (or TRELLO_KEY)")
	rootCmd.Flags().StringVar(&trelloToken, "trello-token", "", "Trello API token (or TRELLO_TOKEN)")
	rootCmd.Flags().StringVarP(&boardID, "board", "b", "", "Trello board ID or shortLink (or BOARD_ID)")

	rootCmd.Flags().StringVar(&tgToken, "tg-token", "", "Telegram bot token (or TG_TOKEN)")
	rootCmd.Flags().StringVar(&tgChatID, "chat-id", "", "Telegram chat ID (or TG_CHAT_ID)")

	rootCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the report week (or TZ_NAME)")
	rootCmd.Flags().StringVar(&archiveDir, "archive", "", "Directory for xlsx archives; empty disables archiving")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the report to stdout instead of sending it")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := weeklyreport.New(cfg)
	if err != nil {
		return err
	}

	if dryRun {
		app.Sender = consoleSender{out: cmd.OutOrStdout()}
	}

	bar := newSpinner("Collecting completed checklist items")
	err = app.Run(cmd.Context(), time.Now())
	finishBar(bar)
	if err != nil {
		return err
	}

	fmt.Println("OK")
	return nil
}

// Flags win over the environment and the config file.
func applyFlagOverrides(cfg *config.Config) {
	if trelloKey != "" {
		cfg.Trello.Key = trelloKey
	}
	if trelloToken != "" {
		cfg.Trello.Token = trelloToken
	}
	if boardID != "" {
		cfg.Trello.BoardID = boardID
	}
	if tgToken != "" {
		cfg.Telegram.Token = tgToken
	}
	if tgChatID != "" {
		cfg.Telegram.ChatID = tgChatID
	}
	if timezone != "" {
		cfg.Report.Timezone = timezone
	}
	if archiveDir != "" {
		cfg.Report.ArchiveDir = archiveDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

// consoleSender writes the report to the terminal for --dry-run.
type consoleSender struct {
	out io.Writer
}

func (s consoleSender) SendLongMessage(ctx context.Context, chatID, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(s.out, text)
	return err
}
