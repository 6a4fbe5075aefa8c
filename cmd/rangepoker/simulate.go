package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/lox/rangepoker/internal/evaluator"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/simulator"
	"github.com/lox/rangepoker/internal/statistics"
)

// SimulateCmd plays rounds with a fixed policy and reports the results
type SimulateCmd struct {
	Rounds  int    `short:"n" help:"Number of rounds to play" default:"10000"`
	Mode    string `short:"m" help:"Drafting mode (easy or hard)" default:"easy" enum:"easy,hard"`
	Policy  string `short:"p" help:"Drafting policy: ${easy_policies} (easy); ${hard_policies} (hard). Defaults per mode"`
	Seed    int64  `help:"Seed of the batch of decks; 0 picks one from the clock"`
	Workers int    `short:"w" help:"Parallel workers (default: number of CPUs)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	mode, err := game.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim, err := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Mode:    mode,
		Policy:  c.Policy,
		Seed:    seed,
		Workers: c.Workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "rounds", stats.Rounds, "seed", seed, "duration", time.Since(start))

	policy := c.Policy
	if policy == "" {
		policy = simulator.DefaultPolicy(mode)
	}
	printStatistics(os.Stdout, mode, policy, seed, stats)
	return nil
}

func printStatistics(w io.Writer, mode game.Mode, policy string, seed int64, stats *statistics.Statistics) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s mode, %s policy, %d rounds (seed %d)",
		mode.Title(), policy, stats.Rounds, seed)))
	fmt.Fprintln(w)

	low, high := stats.ConfidenceInterval95()
	fmt.Fprintf(w, "  %s %5.1f%%  (95%% CI %.1f%% to %.1f%%)\n",
		winStyle.Render("Player wins:"), 100*stats.WinRate(), 100*low, 100*high)
	fmt.Fprintf(w, "  %s %5.1f%%\n", lossStyle.Render("Dealer wins:"), 100*stats.LossRate())
	fmt.Fprintf(w, "  %s        %5.1f%%\n", tieStyle.Render("Ties:"), 100*stats.TieRate())
	fmt.Fprintf(w, "  Mean result: %+.3f ± %.3f\n", stats.Mean(), stats.StdError())
	fmt.Fprintf(w, "  Dealer fill: %.2f cards\n", stats.AverageFill())
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Best hand\tPlayer\tDealer\t")
	for _, category := range evaluator.Categories {
		player := stats.CategoryRate(category, false)
		dealer := stats.CategoryRate(category, true)
		if player == 0 && dealer == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t\n", category, 100*player, 100*dealer)
	}
	_ = tw.Flush()
}
