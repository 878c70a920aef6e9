package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gookit/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/duosort/lanes"
	"github.com/timewinder-dev/duosort/recording"
	"github.com/timewinder-dev/duosort/session"
	"github.com/timewinder-dev/duosort/telemetry"
	"golang.org/x/sync/errgroup"
)

var (
	printEvery  int
	recordPath  string
	metricsAddr string
	runTimeout  time.Duration
	laneAlgs    []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Race both lanes once and print their steps",
	Args:  cobra.NoArgs,
	Run:   runCommand,
}

func init() {
	runCmd.Flags().IntVar(&printEvery, "every", 1, "Print every n-th step of each lane")
	runCmd.Flags().StringVar(&recordPath, "record", "", "Write the recorded runs to this file (msgpack)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Stop both lanes after this long")
	runCmd.Flags().StringSliceVar(&laneAlgs, "lane", nil, "Algorithm for each lane, in order (overrides the config)")
}

func runCommand(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if err := overrideLanes(cfg, laneAlgs); err != nil {
		log.Fatal().Err(err).Int("lanes", lanes.NumLanes).Msg("Too many --lane flags")
	}

	var display lanes.Display = newPrinter(os.Stdout, printEvery)
	var rec *recording.Recorder
	if recordPath != "" {
		rec = recording.NewRecorder()
		display = lanes.Fanout{display, rec}
	}
	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		display = telemetry.NewInstrument(telemetry.NewMetrics(reg), display)
	}

	s, err := session.New(cfg, display)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Scheduler.Run(ctx)
	})
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: telemetry.NewServeMux(reg)}
		g.Go(func() error {
			log.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdown, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			return srv.Shutdown(shutdown)
		})
	}
	g.Go(func() error {
		defer cancel()
		return race(ctx, s.Scheduler, len(cfg.Lanes))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatal().Err(err).Msg("Run failed")
	}

	if rec != nil {
		if err := rec.ExportFile(recordPath); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write recording")
		}
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Recorded %d runs to %s", len(rec.Runs()), recordPath))
	}
}

// overrideLanes binds the configured lanes to names in order, adding lanes with the
// default interval when the config has fewer than names.
func overrideLanes(cfg *session.Config, names []string) error {
	if len(names) > lanes.NumLanes {
		return fmt.Errorf("%d lanes requested, at most %d", len(names), lanes.NumLanes)
	}
	for i, name := range names {
		if i == len(cfg.Lanes) {
			cfg.Lanes = append(cfg.Lanes, session.LaneConfig{IntervalMS: session.DefaultIntervalMS})
		}
		cfg.Lanes[i].Algorithm = name
	}
	return nil
}

// race starts the first n lanes and waits for all of them to go idle.
func race(ctx context.Context, sched *lanes.Scheduler, n int) error {
	for i := range n {
		if err := sched.Start(i); err != nil {
			return fmt.Errorf("starting lane %d: %w", i+1, err)
		}
	}
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
		st, err := sched.Status()
		if err != nil {
			return err
		}
		busy := false
		for _, l := range st {
			busy = busy || l.State != lanes.Idle
		}
		if !busy {
			printSummary(st[:n])
			return nil
		}
	}
}

func printSummary(st []lanes.LaneStatus) {
	fmt.Fprintln(os.Stderr)
	for _, l := range st {
		fmt.Fprintf(os.Stderr, "%s %-16s %s\n", laneTag(l.Index), l.Algorithm, color.Green.Sprintf("%d steps", l.Steps))
	}
}
