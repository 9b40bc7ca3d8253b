package models

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestPopulatedLegs(t *testing.T) {
	total := 45
	cases := []struct {
		name string
		legs LegPredictions
		want int
	}{
		{"empty", LegPredictions{}, 0},
		{"rounds only", LegPredictions{RoundWinners: map[int]RoundSide{1: RoundSideA, 3: RoundSideB}}, 2},
		{"threshold only", LegPredictions{Threshold: ThresholdAtLeast2}, 1},
		{"total only", LegPredictions{TotalScore: &total}, 1},
		{"all modern", LegPredictions{
			RoundWinners: map[int]RoundSide{1: RoundSideA},
			Threshold:    ThresholdZero,
			TotalScore:   &total,
		}, 3},
		{"legacy excluded", LegPredictions{MinCounts: map[uuid.UUID]int{uuid.New(): 2}}, 0},
	}
	for _, tc := range cases {
		if got := tc.legs.PopulatedLegs(); got != tc.want {
			t.Fatalf("%s: expected %d populated legs, got %d", tc.name, tc.want, got)
		}
	}
}

func TestThresholdBucketMatches(t *testing.T) {
	cases := []struct {
		bucket ThresholdBucket
		total  int
		want   bool
	}{
		{ThresholdZero, 0, true},
		{ThresholdZero, 1, false},
		{ThresholdAtLeast1, 0, false},
		{ThresholdAtLeast1, 1, true},
		{ThresholdAtLeast2, 1, false},
		{ThresholdAtLeast2, 5, true},
		{ThresholdAtLeast3, 3, true},
		{ThresholdAtLeast3, 2, false},
	}
	for _, tc := range cases {
		if got := tc.bucket.Matches(tc.total); got != tc.want {
			t.Fatalf("%s.Matches(%d): expected %v, got %v", tc.bucket, tc.total, tc.want, got)
		}
	}
}

func TestThresholdBucketIsValid(t *testing.T) {
	for _, bucket := range ThresholdBuckets {
		if !bucket.IsValid() {
			t.Fatalf("expected %s to be valid", bucket)
		}
	}
	if ThresholdBucket("atLeast9").IsValid() {
		t.Fatal("expected unknown bucket to be invalid")
	}
}

func TestMarketOddsProduct(t *testing.T) {
	odds := MarketOdds{
		RoundWinnerKey(1):  1.88,
		MarketKeyThreshold: 2.5,
	}
	if got := odds.Product(); math.Abs(got-4.7) > 1e-9 {
		t.Fatalf("expected product 4.7, got %v", got)
	}
	if got := (MarketOdds{}).Product(); got != 1.0 {
		t.Fatalf("expected empty product 1.0, got %v", got)
	}
}

func TestWagerIsSettled(t *testing.T) {
	wager := &Wager{Status: WagerStatusPending}
	if wager.IsSettled() {
		t.Fatal("pending wager should not be settled")
	}
	wager.Status = WagerStatusWon
	if !wager.IsSettled() {
		t.Fatal("won wager should be settled")
	}
	wager.Status = WagerStatusLost
	if !wager.IsSettled() {
		t.Fatal("lost wager should be settled")
	}
}
