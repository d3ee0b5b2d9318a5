package bkt

import (
	"math"
	"testing"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestUpdateMastery_CorrectAnswer(t *testing.T) {
	p := domain.BKTParams{LearningRate: 0.3, SlipRate: 0.2, GuessRate: 0.25}

	// pCorrect = 0.5*0.8 + 0.5*0.25 = 0.525
	// numerator = 0.5*0.8 + 0.5*0.3*0.25 = 0.4375
	// mastery' = 0.4375 / 0.525 ≈ 0.8333
	got := UpdateMastery(0.5, true, p)
	if !almostEqual(got, 0.8333) {
		t.Errorf("UpdateMastery = %v, want ≈0.8333", got)
	}
}

func TestUpdateMastery_IncorrectAnswer(t *testing.T) {
	p := domain.BKTParams{LearningRate: 0.3, SlipRate: 0.2, GuessRate: 0.25}

	// pIncorrect = 0.5*0.2 + 0.5*0.75 = 0.475
	// numerator = 0.5*0.2 + 0.5*0.3*0.75 = 0.2125
	// mastery' = 0.2125 / 0.475 ≈ 0.4474
	got := UpdateMastery(0.5, false, p)
	if !almostEqual(got, 0.4474) {
		t.Errorf("UpdateMastery = %v, want ≈0.4474", got)
	}
}

func TestUpdateMastery_ZeroEvidenceGuards(t *testing.T) {
	// slip=1, guess=0: pCorrect = mastery*0 + (1-mastery)*0 = 0 → unchanged.
	pCorrectZero := domain.BKTParams{LearningRate: 0.3, SlipRate: 1, GuessRate: 0}
	if got := UpdateMastery(0.4, true, pCorrectZero); got != 0.4 {
		t.Errorf("pCorrect=0 guard: got %v, want unchanged 0.4", got)
	}

	// slip=0, guess=1: pIncorrect = mastery*0 + (1-mastery)*0 = 0 → unchanged.
	pIncorrectZero := domain.BKTParams{LearningRate: 0.3, SlipRate: 0, GuessRate: 1}
	if got := UpdateMastery(0.4, false, pIncorrectZero); got != 0.4 {
		t.Errorf("pIncorrect=0 guard: got %v, want unchanged 0.4", got)
	}
}

func TestUpdateMastery_StaysInUnitInterval(t *testing.T) {
	params := []domain.BKTParams{
		{LearningRate: 0.9, SlipRate: 0.01, GuessRate: 0.9},
		{LearningRate: 0.05, SlipRate: 0.45, GuessRate: 0.05},
		{LearningRate: 0.5, SlipRate: 0.0, GuessRate: 0.0},
	}
	starts := []float64{0, 0.001, 0.5, 0.999, 1}

	for _, p := range params {
		for _, start := range starts {
			mastery := start
			for i := 0; i < 20; i++ {
				mastery = UpdateMastery(mastery, i%3 != 0, p)
				if mastery < -epsilon || mastery > 1+epsilon {
					t.Fatalf("mastery %v left [0,1] (params %+v, start %v)", mastery, p, start)
				}
			}
		}
	}
}

func TestUpdateMastery_NotIdempotent(t *testing.T) {
	p := domain.BKTParams{LearningRate: 0.3, SlipRate: 0.2, GuessRate: 0.25}

	first := UpdateMastery(0.5, true, p)
	second := UpdateMastery(first, true, p)

	// Repeated correct answers keep converging toward 1; the step must not
	// repeat exactly.
	if first == second {
		t.Error("two consecutive correct updates must not produce the same mastery")
	}
	if second <= first {
		t.Errorf("mastery should keep rising: first %v, second %v", first, second)
	}
}

func TestUpdateMastery_ConvergesTowardOne(t *testing.T) {
	p := domain.BKTParams{LearningRate: 0.35, SlipRate: 0.18, GuessRate: 0.25}

	mastery := 0.06
	for i := 0; i < 30; i++ {
		mastery = UpdateMastery(mastery, true, p)
	}
	if mastery < 0.99 {
		t.Errorf("after 30 correct answers mastery = %v, want ≥0.99", mastery)
	}
}
