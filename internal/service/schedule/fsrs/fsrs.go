// Package fsrs implements a deterministic FSRS-style interval model.
// Core formulas follow the FSRS-5 reference: retrievability
// R(t,S) = (1 + t/(9S))^-1 and interval I(S,r) = 9S(1/r - 1).
package fsrs

import "math"

// MinStability is the floor for stability values.
const MinStability = 0.1

// DefaultRetention is the recall probability intervals are sized for.
const DefaultRetention = 0.9

// DefaultWeights are the FSRS-5 reference model weights (w[0]..w[18]).
var DefaultWeights = [19]float64{
	0.4072, 1.1829, 3.1262, 15.4722, 7.2102,
	0.5316, 1.0651, 0.0046, 1.5418, 0.1594,
	1.01, 2.1791, 0.0292, 0.2788, 0.2229,
	0.2604, 3.3928, 0.2223, 0.6744,
}

// Rating is the FSRS recall-quality scale.
type Rating int

const (
	Again Rating = 1
	Hard  Rating = 2
	Good  Rating = 3
	Easy  Rating = 4
)

// RatingForGrade maps a partial-credit grade onto the FSRS scale.
func RatingForGrade(grade, passThreshold, bonusThreshold float64) Rating {
	switch {
	case grade < passThreshold:
		return Again
	case grade < bonusThreshold:
		return Hard
	case grade < 1.0:
		return Good
	default:
		return Easy
	}
}

// Retrievability calculates the probability of recall after elapsed days.
func Retrievability(elapsedDays int, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+float64(elapsedDays)/(9*stability), -1)
}

// NextInterval converts stability and desired retention to days.
func NextInterval(stability, requestRetention float64) int {
	if requestRetention <= 0 || requestRetention >= 1 {
		return 1
	}
	interval := 9 * stability * (1/requestRetention - 1)
	return max(1, int(math.Round(interval)))
}

// StabilityAfterRecall calculates post-recall stability (rating >= Hard).
//
//	S'(S, D, R, G) = S * (e^w8 * (11-D) * S^-w9 * (e^(w10*(1-R)) - 1) * hardPenalty * easyBonus + 1)
func StabilityAfterRecall(w [19]float64, s, d, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = w[16]
	}

	newS := s * (math.Exp(w[8])*
		(11-d)*
		math.Pow(s, -w[9])*
		(math.Exp(w[10]*(1-r))-1)*
		hardPenalty*
		easyBonus + 1)

	return math.Max(MinStability, newS)
}

// ReviewInput carries one successful review into the interval model.
type ReviewInput struct {
	Weights          [19]float64
	RequestRetention float64

	PrevIntervalDays int
	ElapsedDays      int
	Ease             float64
	Grade            float64
	PassThreshold    float64
	BonusThreshold   float64
}

// ReviewInterval sizes the next interval for a passing review.
//
// State rows carry ease and interval, not stability and difficulty, so both
// are derived: at retention 0.9 the interval formula is the identity in S,
// making the previous interval the previous stability; ease in [1.3, 3.0]
// maps linearly onto FSRS difficulty [10, 1] (low ease = hard block).
func ReviewInterval(in ReviewInput) int {
	stability := math.Max(MinStability, float64(in.PrevIntervalDays))
	difficulty := difficultyForEase(in.Ease)

	r := Retrievability(in.ElapsedDays, stability)
	rating := RatingForGrade(in.Grade, in.PassThreshold, in.BonusThreshold)
	if rating == Again {
		return 1
	}

	newS := StabilityAfterRecall(in.Weights, stability, difficulty, r, rating)
	retention := in.RequestRetention
	if retention <= 0 || retention >= 1 {
		retention = DefaultRetention
	}

	next := NextInterval(newS, retention)
	// Intervals never shrink on a pass.
	return max(next, in.PrevIntervalDays)
}

func difficultyForEase(ease float64) float64 {
	const (
		minEase = 1.3
		maxEase = 3.0
	)
	e := math.Min(maxEase, math.Max(minEase, ease))
	// minEase -> 10, maxEase -> 1
	return 10 - (e-minEase)/(maxEase-minEase)*9
}
