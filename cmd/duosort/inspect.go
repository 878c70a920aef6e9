package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/duosort/recording"
	"github.com/timewinder-dev/duosort/script"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Estimate the complexity of a Starlark sorting algorithm",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't read algorithm")
		}
		s := sessionFor(loadConfig())
		fmt.Print(formatReport(s.Analyze(string(src))))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available algorithms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := sessionFor(loadConfig())
		for _, name := range s.Catalog.Names() {
			alg, err := s.Catalog.Lookup(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-28s %s\n", color.Bold.Sprint(alg.Name), color.Gray.Sprint(alg.Complexity))
		}
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a starting point for a custom algorithm",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(script.Template)
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay RECORDING",
	Short: "Check that recorded runs replay to the same steps",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := recording.ImportFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't read recording")
		}
		s := sessionFor(loadConfig())
		failed := 0
		for _, run := range f.Runs {
			tag := laneTag(run.Lane)
			if err := recording.Verify(s.Catalog, run); err != nil {
				failed++
				fmt.Printf("%s %s %s %s\n", tag, run.ID, run.Algorithm, color.Red.Sprint(err))
				continue
			}
			fmt.Printf("%s %s %s %s\n", tag, run.ID, run.Algorithm,
				color.Green.Sprintf("ok, %d steps, fingerprint %016x", len(run.Steps), run.Fingerprint()))
		}
		if failed > 0 {
			log.Fatal().Int("failed", failed).Int("runs", len(f.Runs)).Msg("Replay mismatch")
		}
	},
}
