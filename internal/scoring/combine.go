// internal/scoring/combine.go
package scoring

const (
	// MaxModel is the largest sum a model reply can report (four criteria of at most 5).
	MaxModel = 20.0

	// MaxFinalScore is the largest value Combine can produce. Display code divides by it
	// to put final scores on a 0-100 scale, so it must follow the two scorers' ranges.
	MaxFinalScore = (MaxDeterministic + MaxModel) / 2
)

// Combine merges the deterministic KPI with the model's total.
// A zero model total means the commit was scored deterministically only.
func Combine(kpi KPI, modelTotal int) float64 {
	deterministic := kpi.Sum()
	if modelTotal == 0 {
		return round2(deterministic)
	}
	return round2((deterministic + float64(modelTotal)) / 2)
}

// Normalize maps a final score onto a 0-100 scale.
func Normalize(final float64) float64 {
	return round2(final / MaxFinalScore * 100)
}
