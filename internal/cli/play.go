package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/display"
	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
	"github.com/vancomm/minesweeper-classic/internal/registry"
	"github.com/vancomm/minesweeper-classic/internal/store"
)

const playHelp = `commands:
  o ROW COL   open a cell
  f ROW COL   toggle a flag
  n           new board
  q           quit
`

func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "play",
		Short:        "Play on the 9x9 board",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := game.New(mines.DefaultParams, registry.NewRand())
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), rootOpts, session, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func runPlay(ctx context.Context, opts *RootOptions, session *game.Session, in io.Reader, out io.Writer) error {
	log := opts.logger()

	records, closeStore, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := game.NewLoop(session)
	go loop.Run(ctx)

	fmt.Fprint(out, playHelp)
	if err := display.Render(out, loop.Snapshot()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			log.Info("quit")
			return nil
		}

		cmd, err := game.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		log.WithField("command", cmd.String()).Debug("command")

		won := false
		snap, err := loop.Do(ctx, func(s *game.Session) bool {
			before := s.Status()
			changed := cmd.Apply(s)
			won = before != game.Won && s.Status() == game.Won
			return changed
		})
		if err != nil {
			return err
		}

		if err := display.Render(out, snap); err != nil {
			return err
		}
		switch {
		case won:
			if err := recordWin(records, log, snap, out); err != nil {
				return err
			}
		case snap.Status == game.Lost:
			fmt.Fprintln(out, "boom. n for a new board")
		}
	}
	return scanner.Err()
}

func recordWin(records *store.Store, log *logrus.Logger, snap game.Snapshot, out io.Writer) error {
	key := bestTimeKey(snap.Params)
	entry := log.WithFields(logrus.Fields{
		"board":   key,
		"seconds": snap.Time,
		"game":    snap.Game,
	})

	var best BestTime
	err := records.Get(key, &best)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return err
	case best.Seconds <= snap.Time:
		entry.Info("game won")
		fmt.Fprintf(out, "cleared in %ss, best is %ss\n", display.Timer(snap.Time), display.Timer(best.Seconds))
		return nil
	}

	if err := records.Set(key, BestTime{Seconds: snap.Time, Game: snap.Game}); err != nil {
		return err
	}
	entry.Info("new best time")
	fmt.Fprintf(out, "cleared in %ss, new best time!\n", display.Timer(snap.Time))
	return nil
}
