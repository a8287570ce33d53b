package sampling

import "math"

// ScoreModel maps a line to a real-valued random score. Two variants: a
// uniform draw, and the Efraimidis-Spirakis "A-Res" weighted key. Both are
// pure functions of one Rng draw plus (for the weighted case) the line's
// weight — the dispatcher and every sampler share a single ScoreModel
// instance so the order of Rng draws stays consistent.
type ScoreModel struct {
	rng *Rng
}

// NewScoreModel builds a ScoreModel over the given Rng.
func NewScoreModel(rng *Rng) *ScoreModel {
	return &ScoreModel{rng: rng}
}

// UniformScore draws s = uniform01(). Always consumes exactly one draw.
func (m *ScoreModel) UniformScore() float64 {
	return m.rng.Uniform01()
}

// WeightedScore computes the A-Res key s = u^(1/w) for w > 0, else 0.
// Always consumes exactly one Rng draw, even when w <= 0, so that the
// draw sequence for later lines is unaffected by a zero-weight line.
func (m *ScoreModel) WeightedScore(weight float64) float64 {
	u := m.rng.Uniform01()
	if weight <= 0 {
		return 0
	}
	return math.Pow(u, 1.0/weight)
}
