// Package statistics aggregates the outcomes of many rounds.
package statistics

import (
	"fmt"
	"math"

	"github.com/lox/rangepoker/internal/evaluator"
	"github.com/lox/rangepoker/internal/game"
)

// Statistics tracks outcomes of completed rounds. The zero value is ready
// to use.
type Statistics struct {
	Rounds     int
	PlayerWins int
	DealerWins int
	Ties       int

	// Net score per round: +1 for a player win, -1 for a loss, 0 for a tie.
	SumScore  float64
	SumScore2 float64

	// Best-hand categories, indexed by evaluator.Category.
	PlayerCategories [len(evaluator.Categories) + 1]int
	DealerCategories [len(evaluator.Categories) + 1]int

	// Cards dealt to the dealer at showdown.
	SumFill int
}

// Add incorporates a completed round
func (s *Statistics) Add(result game.Result) {
	s.Rounds++

	var score float64
	switch result.Winner {
	case game.WinnerPlayer:
		s.PlayerWins++
		score = 1
	case game.WinnerDealer:
		s.DealerWins++
		score = -1
	default:
		s.Ties++
	}
	s.SumScore += score
	s.SumScore2 += score * score

	s.PlayerCategories[categoryIndex(result.Player.Evaluation.Category)]++
	s.DealerCategories[categoryIndex(result.Dealer.Evaluation.Category)]++
	s.SumFill += len(result.DealerFill)
}

func categoryIndex(c evaluator.Category) int {
	if int(c) >= len(evaluator.Categories)+1 {
		return 0
	}
	return int(c)
}

// Merge adds the counts of other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.PlayerWins += other.PlayerWins
	s.DealerWins += other.DealerWins
	s.Ties += other.Ties
	s.SumScore += other.SumScore
	s.SumScore2 += other.SumScore2
	for i := range s.PlayerCategories {
		s.PlayerCategories[i] += other.PlayerCategories[i]
		s.DealerCategories[i] += other.DealerCategories[i]
	}
	s.SumFill += other.SumFill
}

// WinRate returns the fraction of rounds the player won
func (s *Statistics) WinRate() float64 {
	return s.rate(s.PlayerWins)
}

// LossRate returns the fraction of rounds the dealer won
func (s *Statistics) LossRate() float64 {
	return s.rate(s.DealerWins)
}

// TieRate returns the fraction of tied rounds
func (s *Statistics) TieRate() float64 {
	return s.rate(s.Ties)
}

func (s *Statistics) rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// ConfidenceInterval95 returns the 95% confidence interval of the win rate
// using the normal approximation, clipped to [0, 1].
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	if s.Rounds == 0 {
		return 0, 0
	}
	p := s.WinRate()
	margin := 1.96 * math.Sqrt(p*(1-p)/float64(s.Rounds))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// Mean returns the average net score per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumScore / float64(s.Rounds)
}

// Variance returns the sample variance of the net score
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdError returns the standard error of the mean net score
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return math.Sqrt(s.Variance()) / math.Sqrt(float64(s.Rounds))
}

// AverageFill returns the mean number of cards dealt to the dealer at showdown
func (s *Statistics) AverageFill() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.SumFill) / float64(s.Rounds)
}

// CategoryRate returns how often the player (or dealer) finished with
// category as their best hand
func (s *Statistics) CategoryRate(c evaluator.Category, dealer bool) float64 {
	counts := s.PlayerCategories
	if dealer {
		counts = s.DealerCategories
	}
	return s.rate(counts[categoryIndex(c)])
}

// Validate checks that the counts are consistent with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if outcomes := s.PlayerWins + s.DealerWins + s.Ties; outcomes != s.Rounds {
		return fmt.Errorf("outcomes total (%d) does not match rounds (%d)", outcomes, s.Rounds)
	}
	if net := float64(s.PlayerWins - s.DealerWins); math.Abs(net-s.SumScore) > 1e-6 {
		return fmt.Errorf("score mismatch: wins-losses=%.0f, sum=%.6f", net, s.SumScore)
	}

	var player, dealer int
	for i := 1; i < len(s.PlayerCategories); i++ {
		player += s.PlayerCategories[i]
		dealer += s.DealerCategories[i]
	}
	if player != s.Rounds {
		return fmt.Errorf("player categories total (%d) does not match rounds (%d)", player, s.Rounds)
	}
	if dealer != s.Rounds {
		return fmt.Errorf("dealer categories total (%d) does not match rounds (%d)", dealer, s.Rounds)
	}
	if s.SumFill < 0 || s.SumFill > s.Rounds*game.DealerHandSize {
		return fmt.Errorf("invalid dealer fill total: %d", s.SumFill)
	}
	return nil
}
