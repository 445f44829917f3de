package service

import (
	"math"

	"github.com/trth/performance-api/internal/models"
)

// EffectiveScore picks the highest-authority score recorded on a response,
// considering only reviewers at or below the given role's authority. The
// precedence chain is GM, then Approver2, then Manager, then Self: an
// approver3 score is a stage rollup input only and never feeds aggregation.
// A response with no score at any considered level counts as 0 — its weight
// still enters the denominator, which drags the average down rather than
// excluding the question.
func EffectiveScore(resp *models.Response, upTo models.ReviewerRole) float64 {
	limit := upTo.Authority()
	for i := len(models.RolesByAuthority) - 1; i >= 0; i-- {
		role := models.RolesByAuthority[i]
		if role == models.RoleApprover3 {
			continue
		}
		if role.Authority() > limit {
			continue
		}
		if score := role.Score(resp); score != nil {
			return *score
		}
	}
	return 0
}

// AggregateUpTo computes the weighted average of the responses using scores
// visible at the given review stage. Returns 0 for an empty set or when all
// weights are zero.
func AggregateUpTo(responses []models.Response, upTo models.ReviewerRole) float64 {
	var weightedSum, totalWeight float64
	for i := range responses {
		resp := &responses[i]
		score := EffectiveScore(resp, upTo)
		weightedSum += score * resp.QuestionWeight
		totalWeight += resp.QuestionWeight
	}
	if totalWeight == 0 {
		return 0
	}
	return round2(weightedSum / totalWeight)
}

// Aggregate computes the full rollup score using every recorded reviewer
// score, GM taking precedence.
func Aggregate(responses []models.Response) float64 {
	return AggregateUpTo(responses, models.RoleGM)
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
