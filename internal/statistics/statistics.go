package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/montyhall/internal/monty"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// z95 is the two-sided 95% normal quantile.
var z95 = distuv.UnitNormal.Quantile(0.975)

// Statistics tracks win/loss results of many rounds
type Statistics struct {
	Rounds int
	Wins   int

	// Rounds in which the host refused a requested switch
	Overridden int
	// Wins per door the car was placed behind, for sanity checks on the draws
	CarPositions [monty.Doors]int
}

// Add incorporates a single round
func (s *Statistics) Add(r monty.Round) {
	s.Rounds++
	if r.Win {
		s.Wins++
	}
	if r.Overridden() {
		s.Overridden++
	}
	if r.Car >= 0 && r.Car < monty.Doors {
		s.CarPositions[r.Car]++
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Wins += other.Wins
	s.Overridden += other.Overridden
	for i := range s.CarPositions {
		s.CarPositions[i] += other.CarPositions[i]
	}
}

// Losses returns the number of rounds lost
func (s *Statistics) Losses() int {
	return s.Rounds - s.Wins
}

// Mean returns the win rate
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Variance returns the sample variance of the 0/1 outcomes
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	n := float64(s.Rounds)
	p := s.Mean()
	return n * p * (1 - p) / (n - 1)
}

// StdDev returns the sample standard deviation of the 0/1 outcomes
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the win rate
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the normal-approximation 95% interval for the
// win rate, clamped to [0, 1]
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := z95 * s.StdError()
	return math.Max(0, mean-margin), math.Min(1, mean+margin)
}

// WilsonInterval95 returns the Wilson score 95% interval, which behaves
// sensibly when the win rate sits at 0 or 1
func (s *Statistics) WilsonInterval95() (float64, float64) {
	if s.Rounds == 0 {
		return 0, 1
	}
	n := float64(s.Rounds)
	p := s.Mean()
	z2 := z95 * z95
	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	half := z95 * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom
	low, high := math.Max(0, center-half), math.Min(1, center+half)
	if s.Wins == 0 {
		low = 0
	}
	if s.Wins == s.Rounds {
		high = 1
	}
	return low, high
}

// Validate checks the counters are consistent
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if s.Wins < 0 || s.Wins > s.Rounds {
		return fmt.Errorf("wins (%d) outside [0, %d]", s.Wins, s.Rounds)
	}
	if s.Overridden < 0 || s.Overridden > s.Rounds {
		return fmt.Errorf("overridden rounds (%d) outside [0, %d]", s.Overridden, s.Rounds)
	}
	total := 0
	for _, c := range s.CarPositions {
		total += c
	}
	if total != s.Rounds {
		return fmt.Errorf("car position total (%d) does not match rounds (%d)", total, s.Rounds)
	}
	return nil
}

// Summary describes a win-rate history
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	P25    float64
	P75    float64
}

// Summarize computes descriptive statistics for a series of values
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		sum.StdDev = 0
	}
	return sum
}
