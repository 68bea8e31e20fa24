// Package dice is the probability model behind every slot: it draws dice,
// tests a set of rolls against a target and computes the theoretical chance
// of a hit. Nothing in here holds state; randomness comes from a Source.
package dice

import (
	"fmt"
	"math"
	"slices"
)

// TargetMode selects how a roll is compared against a slot's target.
type TargetMode string

const (
	// ModeExact hits when any roll equals the target.
	ModeExact TargetMode = "exact"
	// ModeGTE hits when any roll is greater than or equal to the target.
	ModeGTE TargetMode = "gte"
	// ModeLTE hits when any roll is less than or equal to the target.
	ModeLTE TargetMode = "lte"
)

// Valid reports whether m is one of the known modes.
func (m TargetMode) Valid() bool {
	switch m {
	case ModeExact, ModeGTE, ModeLTE:
		return true
	default:
		return false
	}
}

// ParseMode converts a user supplied string into a TargetMode.
func ParseMode(s string) (TargetMode, error) {
	m := TargetMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown target mode %q (want exact|gte|lte)", s)
	}
	return m, nil
}

// Roll returns count independent draws from [1, dieSize].
// A non-positive count or die size yields an empty slice.
func Roll(src Source, count, dieSize int) []int {
	if count <= 0 || dieSize <= 0 {
		return []int{}
	}
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = src.Intn(dieSize) + 1
	}
	return rolls
}

// Check reports whether any roll satisfies target under mode.
// An empty roll set never hits.
func Check(rolls []int, target int, mode TargetMode) bool {
	for _, r := range rolls {
		switch mode {
		case ModeExact:
			if r == target {
				return true
			}
		case ModeGTE:
			if r >= target {
				return true
			}
		case ModeLTE:
			if r <= target {
				return true
			}
		}
	}
	return false
}

// Best returns the highest roll, or 0 for an empty set.
func Best(rolls []int) int {
	if len(rolls) == 0 {
		return 0
	}
	return slices.Max(rolls)
}

// Probability returns the chance, as a percentage rounded to two decimals,
// that at least one of count dice of dieSize hits target under mode.
func Probability(count, dieSize, target int, mode TargetMode) float64 {
	if count <= 0 || dieSize <= 0 {
		return 0
	}

	size := float64(dieSize)
	var miss float64
	switch mode {
	case ModeExact:
		// No face equals an out-of-range target, so Check never hits.
		if target < 1 || target > dieSize {
			return 0
		}
		miss = (size - 1) / size
	case ModeGTE:
		miss = float64(target-1) / size
	case ModeLTE:
		miss = float64(dieSize-target) / size
	default:
		return 0
	}
	miss = math.Min(1, math.Max(0, miss))

	hit := 1 - math.Pow(miss, float64(count))
	return math.Round(hit*10000) / 100
}
