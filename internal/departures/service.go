package departures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"itus/internal/board"
	"itus/internal/departure"
	"itus/internal/telemetry"
)

// ErrLineFilterUnsupported is reported in Result.Unsupported when lines were
// requested. The boards are still built, unfiltered.
var ErrLineFilterUnsupported = errors.New("line filtering is not implemented; showing all lines")

// Planner is the subset of the journey planner client the service needs.
type Planner interface {
	StopQuays(ctx context.Context, stopID string) ([]string, error)
	EstimatedCalls(ctx context.Context, quayID string, numDepartures int, timeRange time.Duration) ([]departure.EstimatedCall, error)
}

type Options struct {
	NumDepartures int
	TimeRange     time.Duration
	Lines         []string
}

// Board is one platform's departures in service order.
type Board struct {
	QuayID     string
	Departures []departure.Departure
}

type Result struct {
	Boards      []Board
	Unsupported []error
}

// Service turns stop and quay identifiers into boards.
type Service struct {
	planner     Planner
	concurrency int
	metrics     *telemetry.Metrics
	logger      *log.Logger
}

func NewService(planner Planner, concurrency int, metrics *telemetry.Metrics, logger *log.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		planner:     planner,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
	}
}

// StopBoards expands stopID into its quays and builds one board per quay, in
// the order the service lists them.
func (s *Service) StopBoards(ctx context.Context, stopID string, opts Options) (Result, error) {
	quayIDs, err := s.planner.StopQuays(ctx, stopID)
	if err != nil {
		return Result{}, fmt.Errorf("stop %s: %w", stopID, err)
	}
	s.logger.Printf("stop %s has %d quays", stopID, len(quayIDs))
	return s.QuayBoards(ctx, quayIDs, opts)
}

// QuayBoards builds one board per quay id, in the order given. Quays are
// fetched in parallel up to the configured concurrency; the first failure
// cancels the rest and fails the whole call.
func (s *Service) QuayBoards(ctx context.Context, quayIDs []string, opts Options) (Result, error) {
	var result Result
	if len(opts.Lines) > 0 {
		result.Unsupported = append(result.Unsupported, ErrLineFilterUnsupported)
	}

	boards := make([]Board, len(quayIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, quayID := range quayIDs {
		i, quayID := i, quayID
		g.Go(func() error {
			deps, err := s.quayDepartures(gctx, quayID, opts)
			if err != nil {
				return fmt.Errorf("quay %s: %w", quayID, err)
			}
			boards[i] = Board{QuayID: quayID, Departures: deps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result.Boards = boards
	return result, nil
}

// StopsAndQuays builds boards for every stop followed by every quay, keeping
// the order they were supplied in.
func (s *Service) StopsAndQuays(ctx context.Context, stopIDs, quayIDs []string, opts Options) (Result, error) {
	var all []string
	for _, stopID := range stopIDs {
		ids, err := s.planner.StopQuays(ctx, stopID)
		if err != nil {
			return Result{}, fmt.Errorf("stop %s: %w", stopID, err)
		}
		s.logger.Printf("stop %s has %d quays", stopID, len(ids))
		all = append(all, ids...)
	}
	all = append(all, quayIDs...)
	return s.QuayBoards(ctx, all, opts)
}

func (s *Service) quayDepartures(ctx context.Context, quayID string, opts Options) ([]departure.Departure, error) {
	calls, err := s.planner.EstimatedCalls(ctx, quayID, opts.NumDepartures, opts.TimeRange)
	if err != nil {
		return nil, err
	}
	deps, err := departure.NormalizeAll(calls)
	if err != nil {
		s.metrics.IncMalformed()
		return nil, err
	}
	return deps, nil
}

// Render writes every non-empty board in order. clock is read once per board
// so each table has its own countdown baseline.
func (r Result) Render(w io.Writer, clock func() time.Time) error {
	for _, b := range r.Boards {
		if err := board.Render(w, b.Departures, clock()); err != nil {
			return fmt.Errorf("render quay %s: %w", b.QuayID, err)
		}
	}
	return nil
}

// Departures counts the rows across all boards.
func (r Result) Departures() int {
	n := 0
	for _, b := range r.Boards {
		n += len(b.Departures)
	}
	return n
}
