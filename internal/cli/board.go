package cli

import (
	"time"

	"github.com/spf13/cobra"

	"itus/internal/config"
	"itus/internal/departures"
	"itus/internal/journeyplanner"
)

const (
	numDeparturesFlag = "num-departures"
	timeRangeFlag     = "time-range"
)

type boardFlags struct {
	stops         []string
	platforms     []string
	lines         []string
	numDepartures int
	timeRange     string
}

func addBoardFlags(cmd *cobra.Command, f *boardFlags) {
	cmd.Flags().StringSliceVarP(&f.stops, "stop", "s", nil,
		"Stop place id from the national stop registry, e.g. NSR:StopPlace:44085 (repeatable)")
	cmd.Flags().StringSliceVarP(&f.platforms, "platform", "p", nil,
		"Quay id from the national stop registry, e.g. NSR:Quay:75708 (repeatable)")
	cmd.Flags().StringSliceVarP(&f.lines, "line", "l", nil,
		"Line public code to show (not implemented yet, all lines are shown)")
	cmd.Flags().IntVarP(&f.numDepartures, numDeparturesFlag, "n", 5,
		"Number of upcoming departures to look up per platform")
	cmd.Flags().StringVarP(&f.timeRange, timeRangeFlag, "t", "01:00",
		"How far ahead to look for departures, as HH:MM")
}

func NewBoardCmd(app *App) *cobra.Command {
	flags := &boardFlags{}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print departure boards for stops and platforms",
		Example: "  itus board -s NSR:StopPlace:44085\n" +
			"  itus board -p NSR:Quay:75708,NSR:Quay:75707 -n 3 -t 00:30",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, app, flags)
		},
	}
	addBoardFlags(cmd, flags)

	return cmd
}

// boardOptions resolves flags against the configured defaults. Flags win
// only when given explicitly.
func boardOptions(cmd *cobra.Command, f *boardFlags, defaults config.BoardConfig) (departures.Options, error) {
	if len(f.stops) == 0 && len(f.platforms) == 0 {
		return departures.Options{}, &ConfigError{Msg: "No stop or platform specified."}
	}

	n := defaults.NumDepartures
	if cmd.Flags().Changed(numDeparturesFlag) {
		n = f.numDepartures
	}
	if n <= 0 {
		return departures.Options{}, &ConfigError{Msg: "-n must be a positive number of departures"}
	}

	rawRange := defaults.TimeRange
	if cmd.Flags().Changed(timeRangeFlag) {
		rawRange = f.timeRange
	}
	timeRange, err := config.ParseTimeRange(rawRange)
	if err != nil {
		return departures.Options{}, &ConfigError{Msg: "invalid --time-range", Err: err}
	}

	return departures.Options{
		NumDepartures: n,
		TimeRange:     timeRange,
		Lines:         f.lines,
	}, nil
}

func runBoard(cmd *cobra.Command, app *App, f *boardFlags) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	opts, err := boardOptions(cmd, f, cfg.Board)
	if err != nil {
		return err
	}

	client := journeyplanner.NewClient(cfg.JourneyPlanner, journeyplanner.NewLimiter(cfg.JourneyPlanner), nil, app.logger)
	service := departures.NewService(client, cfg.JourneyPlanner.Concurrency, nil, app.logger)

	result, err := service.StopsAndQuays(cmd.Context(), f.stops, f.platforms, opts)
	if err != nil {
		return err
	}
	for _, u := range result.Unsupported {
		app.logger.Print(u)
	}
	return result.Render(app.stdout, time.Now)
}
