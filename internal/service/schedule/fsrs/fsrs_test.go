package fsrs

import (
	"math"
	"testing"
)

func TestRetrievability(t *testing.T) {
	tests := []struct {
		name        string
		elapsedDays int
		stability   float64
		want        float64
	}{
		{"zero elapsed is certain recall", 0, 10, 1.0},
		{"elapsed equals 9S is half", 90, 10, 0.5},
		{"zero stability is zero", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Retrievability(tt.elapsedDays, tt.stability)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Retrievability(%d, %v) = %v, want %v", tt.elapsedDays, tt.stability, got, tt.want)
			}
		})
	}
}

func TestNextInterval(t *testing.T) {
	// At retention 0.9, I(S) = 9S * (1/0.9 - 1) = S.
	if got := NextInterval(14, 0.9); got != 14 {
		t.Errorf("NextInterval(14, 0.9) = %d, want 14", got)
	}
	if got := NextInterval(0.01, 0.9); got != 1 {
		t.Errorf("NextInterval floor = %d, want 1", got)
	}
	if got := NextInterval(10, 0); got != 1 {
		t.Errorf("invalid retention should yield 1, got %d", got)
	}
}

func TestRatingForGrade(t *testing.T) {
	tests := []struct {
		grade float64
		want  Rating
	}{
		{0.0, Again},
		{0.4, Again},
		{0.6, Hard},
		{0.8, Good},
		{1.0, Easy},
	}

	for _, tt := range tests {
		if got := RatingForGrade(tt.grade, 0.6, 0.8); got != tt.want {
			t.Errorf("RatingForGrade(%v) = %d, want %d", tt.grade, got, tt.want)
		}
	}
}

func TestStabilityAfterRecall_GrowsOnGood(t *testing.T) {
	s := StabilityAfterRecall(DefaultWeights, 10, 5, 0.9, Good)
	if s <= 10 {
		t.Errorf("stability after good recall = %v, want > 10", s)
	}

	hard := StabilityAfterRecall(DefaultWeights, 10, 5, 0.9, Hard)
	easy := StabilityAfterRecall(DefaultWeights, 10, 5, 0.9, Easy)
	if !(hard < s && s < easy) {
		t.Errorf("ordering hard < good < easy violated: %v, %v, %v", hard, s, easy)
	}
}

func TestReviewInterval_NeverShrinksOnPass(t *testing.T) {
	in := ReviewInput{
		Weights:          DefaultWeights,
		RequestRetention: 0.9,
		PrevIntervalDays: 21,
		ElapsedDays:      21,
		Ease:             2.5,
		Grade:            0.8,
		PassThreshold:    0.6,
		BonusThreshold:   0.8,
	}

	got := ReviewInterval(in)
	if got < 21 {
		t.Errorf("ReviewInterval = %d, want >= previous interval 21", got)
	}
}

func TestReviewInterval_FailingGradeResets(t *testing.T) {
	in := ReviewInput{
		Weights:          DefaultWeights,
		RequestRetention: 0.9,
		PrevIntervalDays: 21,
		ElapsedDays:      21,
		Ease:             2.5,
		Grade:            0.2,
		PassThreshold:    0.6,
		BonusThreshold:   0.8,
	}

	if got := ReviewInterval(in); got != 1 {
		t.Errorf("ReviewInterval = %d, want 1", got)
	}
}
