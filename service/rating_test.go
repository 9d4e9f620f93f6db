package service

import (
	"testing"

	"github.com/marketloop/marketloop/model"
	"github.com/stretchr/testify/require"
)

func reviewsWithScores(scores ...model.ReviewScore) []model.Review {
	reviews := make([]model.Review, 0, len(scores))
	for _, s := range scores {
		reviews = append(reviews, model.Review{Score: s})
	}
	return reviews
}

func TestComputeStarRating(t *testing.T) {
	t.Run("zero reviews rate 0.0", func(t *testing.T) {
		require.Equal(t, 0.0, ComputeStarRating(nil))
		require.Equal(t, 0.0, ComputeStarRating([]model.Review{}))
	})

	t.Run("single review rates its star value", func(t *testing.T) {
		require.Equal(t, 5.0, ComputeStarRating(reviewsWithScores(model.ScoreExcellent)))
		require.Equal(t, 3.75, ComputeStarRating(reviewsWithScores(model.ScoreGood)))
		require.Equal(t, 2.5, ComputeStarRating(reviewsWithScores(model.ScoreFair)))
		require.Equal(t, 1.25, ComputeStarRating(reviewsWithScores(model.ScorePoor)))
	})

	t.Run("mean is rounded to 2 decimal places", func(t *testing.T) {
		// (5.0 + 3.75 + 2.5) / 3 = 3.75
		require.Equal(t, 3.75, ComputeStarRating(reviewsWithScores(
			model.ScoreExcellent, model.ScoreGood, model.ScoreFair)))

		// (5.0 + 3.75) / 2 = 4.375, rounds to 4.38
		require.Equal(t, 4.38, ComputeStarRating(reviewsWithScores(
			model.ScoreExcellent, model.ScoreGood)))

		// (5.0 + 1.25 + 1.25) / 3 = 2.5
		require.Equal(t, 2.5, ComputeStarRating(reviewsWithScores(
			model.ScoreExcellent, model.ScorePoor, model.ScorePoor)))
	})

	t.Run("all poor", func(t *testing.T) {
		require.Equal(t, 1.25, ComputeStarRating(reviewsWithScores(
			model.ScorePoor, model.ScorePoor, model.ScorePoor, model.ScorePoor)))
	})
}
