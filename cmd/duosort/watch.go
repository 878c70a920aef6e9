package main

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/duosort/lanes"
	"github.com/timewinder-dev/duosort/recording"
	"github.com/timewinder-dev/duosort/session"
	"github.com/timewinder-dev/duosort/tui"
	"golang.org/x/sync/errgroup"
)

var logFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Race the lanes interactively in the terminal",
	Args:  cobra.NoArgs,
	Run:   watchCommand,
}

func init() {
	watchCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs here instead of discarding them while the UI is up")
	watchCmd.Flags().StringVar(&recordPath, "record", "", "Write the recorded runs to this file (msgpack) on exit")
}

func watchCommand(cmd *cobra.Command, args []string) {
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't open log file")
		}
		defer f.Close()
		out = f
	}
	cfg := loadConfig()

	ui := &tui.Display{}
	var display lanes.Display = ui
	var rec *recording.Recorder
	if recordPath != "" {
		rec = recording.NewRecorder()
		display = lanes.Fanout{ui, rec}
	}
	s, err := session.New(cfg, display)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build session")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, NoColor: true})

	p := tea.NewProgram(tui.New(s.Scheduler, s.Catalog.Names), tea.WithAltScreen())
	ui.Attach(p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Scheduler.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	err = g.Wait()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("UI failed")
	}
	if rec != nil {
		if err := rec.ExportFile(recordPath); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write recording")
		}
	}
}

// sessionFor builds a session for commands that only need the catalog.
func sessionFor(cfg *session.Config) *session.Session {
	s, err := session.New(cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build session")
	}
	return s
}
