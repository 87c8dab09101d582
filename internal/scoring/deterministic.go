// internal/scoring/deterministic.go
package scoring

import "math"

const (
	difficultyPerLine = 0.03
	maxDifficulty     = 5.0
	minQuality        = 1.0
	maxQuality        = 5.0
	maxSize           = 5

	// MaxDeterministic is the largest possible difficulty + quality + size.
	MaxDeterministic = maxDifficulty + maxQuality + maxSize
)

// KPI is the deterministic difficulty/quality/size triple of a commit.
type KPI struct {
	Difficulty float64 `json:"difficulty"`
	Quality    float64 `json:"quality"`
	Size       int     `json:"size"`
}

// Sum returns difficulty + quality + size.
func (k KPI) Sum() float64 {
	return k.Difficulty + k.Quality + float64(k.Size)
}

// Deterministic scores a commit from its added and deleted line counts.
// Difficulty and quality are rounded to two decimals.
func Deterministic(added, deleted int) KPI {
	lines := max(added, 0) + max(deleted, 0)

	difficulty := math.Min(float64(lines)*difficultyPerLine, maxDifficulty)
	quality := math.Max((100-difficulty*2)/20, minQuality)

	return KPI{
		Difficulty: round2(difficulty),
		Quality:    round2(quality),
		Size:       sizeBucket(lines),
	}
}

func sizeBucket(lines int) int {
	switch {
	case lines > 80:
		return 5
	case lines > 50:
		return 4
	case lines > 20:
		return 3
	case lines > 10:
		return 2
	default:
		return 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
