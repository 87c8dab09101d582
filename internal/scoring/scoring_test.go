// internal/scoring/scoring_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministic(t *testing.T) {
	tests := []struct {
		name    string
		added   int
		deleted int
		want    KPI
	}{
		{name: "empty commit", added: 0, deleted: 0, want: KPI{Difficulty: 0, Quality: 5, Size: 1}},
		{name: "ten lines stays in first bucket", added: 10, deleted: 0, want: KPI{Difficulty: 0.3, Quality: 4.97, Size: 1}},
		{name: "eleven lines", added: 6, deleted: 5, want: KPI{Difficulty: 0.33, Quality: 4.97, Size: 2}},
		{name: "twenty lines", added: 20, deleted: 0, want: KPI{Difficulty: 0.6, Quality: 4.94, Size: 2}},
		{name: "fifty lines", added: 25, deleted: 25, want: KPI{Difficulty: 1.5, Quality: 4.85, Size: 3}},
		{name: "eighty lines is not above eighty", added: 60, deleted: 20, want: KPI{Difficulty: 2.4, Quality: 4.76, Size: 4}},
		{name: "eighty one lines", added: 81, deleted: 0, want: KPI{Difficulty: 2.43, Quality: 4.76, Size: 5}},
		{name: "difficulty clamps at five", added: 1000, deleted: 1000, want: KPI{Difficulty: 5, Quality: 4.5, Size: 5}},
		{name: "negative counts treated as zero", added: -5, deleted: -1, want: KPI{Difficulty: 0, Quality: 5, Size: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deterministic(tt.added, tt.deleted)
			assert.InDelta(t, tt.want.Difficulty, got.Difficulty, 1e-9)
			assert.InDelta(t, tt.want.Quality, got.Quality, 1e-9)
			assert.Equal(t, tt.want.Size, got.Size)
		})
	}
}

func TestDeterministic_Reproducible(t *testing.T) {
	assert.Equal(t, Deterministic(123, 45), Deterministic(123, 45))
}

func TestCombine(t *testing.T) {
	t.Run("deterministic only when model total is zero", func(t *testing.T) {
		kpi := KPI{Difficulty: 2.4, Quality: 4.76, Size: 4}
		assert.InDelta(t, 11.16, Combine(kpi, 0), 1e-9)
	})

	t.Run("averages deterministic and model sums", func(t *testing.T) {
		kpi := KPI{Difficulty: 0.3, Quality: 4.86, Size: 4} // sum 9.16
		assert.InDelta(t, 12.58, Combine(kpi, 16), 1e-9)
	})

	t.Run("maximum inputs reach the normalization constant", func(t *testing.T) {
		kpi := KPI{Difficulty: 5, Quality: 5, Size: 5}
		assert.InDelta(t, MaxFinalScore, Combine(kpi, 20), 1e-9)
	})
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 17.5, MaxFinalScore, 1e-9)
	assert.InDelta(t, 100.0, Normalize(MaxFinalScore), 1e-9)
	assert.InDelta(t, 0.0, Normalize(0), 1e-9)
	assert.InDelta(t, 50.0, Normalize(8.75), 1e-9)
}
