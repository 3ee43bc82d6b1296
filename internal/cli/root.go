// Package cli is the terminal client: a cobra command tree that plays a
// session on stdin/stdout and keeps best times per board in a local sqlite
// file.
package cli

import (
	"database/sql"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/mines"
	"github.com/vancomm/minesweeper-classic/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath  string
	LogFile string
	Verbose bool

	log *logrus.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Classic minesweeper in the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogger()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "sweep.db", "sqlite file for best times")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "sweep.log", "rotating log file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every command")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewRecordsCommand(opts))

	return cmd
}

// setupLogger sends logs to the rotating file only. The terminal belongs to
// the board.
func (opts *RootOptions) setupLogger() error {
	level := logrus.InfoLevel
	if opts.Verbose {
		level = logrus.DebugLevel
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   opts.LogFile,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(level)
	log.AddHook(hook)
	opts.log = log
	return nil
}

func (opts *RootOptions) logger() *logrus.Logger {
	if opts.log == nil {
		log := logrus.New()
		log.SetOutput(io.Discard)
		opts.log = log
	}
	return opts.log
}

// bestTimeKey is the records key of the board p, e.g. "9x9(10)".
func bestTimeKey(p mines.Params) string {
	return p.String()
}

// BestTime is what the records table keeps for each board.
type BestTime struct {
	Seconds int
	Game    int
}

func (opts *RootOptions) openStore() (*store.Store, func(), error) {
	db, err := sql.Open("sqlite3", opts.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %s: %w", opts.DBPath, err)
	}
	s, err := store.New(db, "records")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("unable to prepare records: %w", err)
	}
	return s, func() { db.Close() }, nil
}
