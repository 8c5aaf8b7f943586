package model

import (
	"math"
	"sort"
)

// StatSet is the running aggregate for one board size.
// AverageTime is the mean finish time over wins and is nil until the first win.
type StatSet struct {
	Plays       int      `json:"plays"`
	Wins        int      `json:"wins"`
	Perfects    int      `json:"perfects"`
	AverageTime *float64 `json:"average_time"`
}

// SizedStatSet is a StatSet keyed by board size
type SizedStatSet struct {
	Size  int     `json:"size"`
	Stats StatSet `json:"stats"`
}

// Statistics holds at most one SizedStatSet per board size. Order carries no
// meaning in memory; persistence normalizes it to ascending size.
type Statistics []SizedStatSet

// FloatPtr returns a pointer to v, for building average times
func FloatPtr(v float64) *float64 {
	return &v
}

// WeightedAverage blends two averages by their weights. An undefined side
// contributes nothing and the other side's average is returned as is.
func WeightedAverage(x *float64, wx int, y *float64, wy int) *float64 {
	switch {
	case x == nil:
		return y
	case y == nil:
		return x
	case wx+wy == 0:
		return x
	}
	avg := (float64(wx)*(*x) + float64(wy)*(*y)) / float64(wx+wy)
	return &avg
}

// MergeStatSets combines two aggregates. Average times are weighted by wins.
func MergeStatSets(a, b StatSet) StatSet {
	return StatSet{
		Plays:       a.Plays + b.Plays,
		Wins:        a.Wins + b.Wins,
		Perfects:    a.Perfects + b.Perfects,
		AverageTime: WeightedAverage(a.AverageTime, a.Wins, b.AverageTime, b.Wins),
	}
}

// AddPlay folds one play into an aggregate. A play counts as perfect only
// when it is also a win.
func AddPlay(old StatSet, won, perfect bool, finishTime float64) StatSet {
	play := StatSet{Plays: 1}
	if won {
		play.Wins = 1
		play.AverageTime = FloatPtr(finishTime)
		if perfect {
			play.Perfects = 1
		}
	}
	return MergeStatSets(old, play)
}

// WinPercent returns floor(100 * wins / plays), or 0 with no plays
func (s StatSet) WinPercent() int {
	if s.Plays == 0 {
		return 0
	}
	return 100 * s.Wins / s.Plays
}

// PerfectPercent returns floor(100 * perfects / plays), or 0 with no plays
func (s StatSet) PerfectPercent() int {
	if s.Plays == 0 {
		return 0
	}
	return 100 * s.Perfects / s.Plays
}

// Find returns the StatSet recorded for a board size
func (st Statistics) Find(size int) (StatSet, bool) {
	for _, s := range st {
		if s.Size == size {
			return s.Stats, true
		}
	}
	return StatSet{}, false
}

// Sorted returns a copy ordered by ascending board size
func (st Statistics) Sorted() Statistics {
	out := make(Statistics, len(st))
	copy(out, st)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size < out[j].Size
	})
	return out
}

// MergeStatistics folds every entry of b into a copy of a. Sizes already
// present have their StatSets merged; new sizes are appended.
func MergeStatistics(a, b Statistics) Statistics {
	out := make(Statistics, len(a), len(a)+len(b))
	copy(out, a)

	for _, entry := range b {
		merged := false
		for i := range out {
			if out[i].Size == entry.Size {
				out[i].Stats = MergeStatSets(out[i].Stats, entry.Stats)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, entry)
		}
	}
	return out
}

// RecordSession folds the outcome of a finished board into stats
func RecordSession(stats Statistics, b *Board, elapsed int) Statistics {
	won := b.AllConnected()
	play := AddPlay(StatSet{}, won, won && b.IsPerfect(), float64(elapsed))
	return MergeStatistics(stats, Statistics{{Size: b.Size, Stats: play}})
}

// TotalWinPercent averages the per-size win rates weighted by plays.
// An empty collection reports 100.
func (st Statistics) TotalWinPercent() int {
	return st.totalPercent(func(s StatSet) int { return s.Wins })
}

// TotalPerfectPercent averages the per-size perfect rates weighted by plays.
// An empty collection reports 100.
func (st Statistics) TotalPerfectPercent() int {
	return st.totalPercent(func(s StatSet) int { return s.Perfects })
}

func (st Statistics) totalPercent(count func(StatSet) int) int {
	var acc *float64
	weight := 0
	for _, entry := range st {
		if entry.Stats.Plays == 0 {
			continue
		}
		pct := 100 * float64(count(entry.Stats)) / float64(entry.Stats.Plays)
		acc = WeightedAverage(acc, weight, &pct, entry.Stats.Plays)
		weight += entry.Stats.Plays
	}
	if acc == nil {
		return 100
	}
	// absorb float error so exact percentages do not floor one short
	return int(math.Floor(*acc + 1e-9))
}
