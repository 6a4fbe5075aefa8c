// Package simulator plays many rounds with fixed drafting policies and
// aggregates the outcomes.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds int
	Mode   game.Mode
	// Policy names the drafting policy; empty selects the mode's default.
	Policy string
	// Round i is dealt from deck.Seeded(Seed, i).
	Seed int64
	// Workers defaults to the number of CPUs.
	Workers int
	Logger  *log.Logger
}

// Simulator runs batches of rounds
type Simulator struct {
	config Config
	policy Policy
	logger *log.Logger
}

// New creates a simulator, checking that the policy fits the mode.
func New(config Config) (*Simulator, error) {
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", config.Rounds)
	}
	if config.Mode != game.Easy && config.Mode != game.Hard {
		return nil, fmt.Errorf("%w: unknown mode %q", game.ErrWrongMode, config.Mode)
	}
	if config.Policy == "" {
		config.Policy = DefaultPolicy(config.Mode)
	}
	choices := strings.Join(PolicyNames(config.Mode), ", ")
	policy, err := NewPolicy(config.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w; %s mode policies: %s", err, config.Mode, choices)
	}
	if policy.Mode() != config.Mode {
		return nil, fmt.Errorf("%w: policy %q plays %s rounds; %s mode policies: %s",
			game.ErrWrongMode, policy.Name(), policy.Mode(), config.Mode, choices)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	config.Workers = min(config.Workers, config.Rounds)

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Simulator{
		config: config,
		policy: policy,
		logger: logger.WithPrefix("simulator").With("mode", config.Mode, "policy", policy.Name()),
	}, nil
}

// Run plays every round and returns the merged statistics. Results do not
// depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	s.logger.Info("Starting simulation", "rounds", s.config.Rounds, "workers", s.config.Workers, "seed", s.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan *statistics.Statistics, s.config.Workers)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < s.config.Rounds; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < s.config.Workers; w++ {
		g.Go(func() error {
			stats := &statistics.Statistics{}
			for i := range jobs {
				result, err := s.playRound(i)
				if err != nil {
					return err
				}
				stats.Add(result)
			}

			select {
			case results <- stats:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		g.Wait()
	}()

	total := &statistics.Statistics{}
	for stats := range results {
		total.Merge(stats)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "rounds", total.Rounds, "winRate", total.WinRate())
	return total, nil
}

func (s *Simulator) playRound(i int) (game.Result, error) {
	r, err := game.NewRound(s.config.Mode, deck.Seeded(s.config.Seed, i), s.logger)
	if err != nil {
		return game.Result{}, err
	}
	for r.Phase() == game.PhaseDrafting {
		if err := s.policy.Move(r); err != nil {
			return game.Result{}, fmt.Errorf("round %d (seed %d): %w", i, s.config.Seed, err)
		}
	}

	result, err := r.Showdown()
	if err != nil {
		return game.Result{}, fmt.Errorf("round %d (seed %d): %w", i, s.config.Seed, err)
	}
	s.logger.Debug("Round complete", "round", i, "winner", result.Winner)
	return result, nil
}
