// Package bkt implements Bayesian Knowledge Tracing: a two-state model
// estimating the probability a learner has mastered an item, updated after
// each observed answer. Pure functions, no side effects.
package bkt

import "github.com/kotobadev/jlpt-backend/internal/domain"

// UpdateMastery returns the posterior mastery probability after one observed
// answer, with the learning transition folded into the same step.
//
// Correct:
//
//	P(correct)  = mastery*(1-slip) + (1-mastery)*guess
//	mastery'    = (mastery*(1-slip) + (1-mastery)*learn*guess) / P(correct)
//
// Incorrect:
//
//	P(incorrect) = mastery*slip + (1-mastery)*(1-guess)
//	mastery'     = (mastery*slip + (1-mastery)*learn*(1-guess)) / P(incorrect)
//
// When the evidence probability is zero the mastery is returned unchanged
// rather than treated as an error. The result is clamped to [0,1].
func UpdateMastery(mastery float64, correct bool, p domain.BKTParams) float64 {
	if correct {
		pCorrect := mastery*(1-p.SlipRate) + (1-mastery)*p.GuessRate
		if pCorrect == 0 {
			return mastery
		}
		numerator := mastery*(1-p.SlipRate) + (1-mastery)*p.LearningRate*p.GuessRate
		return clamp01(numerator / pCorrect)
	}

	pIncorrect := mastery*p.SlipRate + (1-mastery)*(1-p.GuessRate)
	if pIncorrect == 0 {
		return mastery
	}
	numerator := mastery*p.SlipRate + (1-mastery)*p.LearningRate*(1-p.GuessRate)
	return clamp01(numerator / pIncorrect)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
