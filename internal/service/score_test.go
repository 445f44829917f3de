package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trth/performance-api/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestEffectiveScorePrecedence(t *testing.T) {
	resp := &models.Response{
		ScoreSelf: fp(3),
		ScoreMgr:  fp(4),
		ScoreGM:   fp(5),
	}

	assert.Equal(t, 5.0, EffectiveScore(resp, models.RoleGM))
	assert.Equal(t, 4.0, EffectiveScore(resp, models.RoleApprover3))
	assert.Equal(t, 4.0, EffectiveScore(resp, models.RoleManager))
	assert.Equal(t, 3.0, EffectiveScore(resp, models.RoleSelf))
}

func TestEffectiveScoreMissingCountsAsZero(t *testing.T) {
	resp := &models.Response{}
	assert.Equal(t, 0.0, EffectiveScore(resp, models.RoleGM))

	resp.ScoreAppr2 = fp(4.5)
	assert.Equal(t, 0.0, EffectiveScore(resp, models.RoleManager))
	assert.Equal(t, 4.5, EffectiveScore(resp, models.RoleApprover2))
}

func TestAggregateWeightedAverage(t *testing.T) {
	responses := []models.Response{
		{ScoreMgr: fp(4), QuestionWeight: 10},
		{ScoreMgr: fp(5), QuestionWeight: 20},
	}

	// (4*10 + 5*20) / 30 = 4.666... -> 4.67
	assert.Equal(t, 4.67, AggregateUpTo(responses, models.RoleManager))
}

func TestAggregateUnscoredQuestionDragsAverageDown(t *testing.T) {
	responses := []models.Response{
		{ScoreMgr: fp(5), QuestionWeight: 10},
		{QuestionWeight: 10},
	}

	assert.Equal(t, 2.5, AggregateUpTo(responses, models.RoleManager))
}

func TestAggregateEmptyAndZeroWeight(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate(nil))
	assert.Equal(t, 0.0, Aggregate([]models.Response{{ScoreGM: fp(5), QuestionWeight: 0}}))
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	responses := []models.Response{
		{ScoreGM: fp(4.125), QuestionWeight: 1},
	}
	assert.Equal(t, 4.13, Aggregate(responses))
}

func TestApprover3ScoreExcludedFromAggregation(t *testing.T) {
	responses := []models.Response{
		{ScoreMgr: fp(2), ScoreAppr3: fp(5), QuestionWeight: 10},
	}

	// an approver3 score never enters the precedence chain
	assert.Equal(t, 2.0, Aggregate(responses))
	assert.Equal(t, 2.0, AggregateUpTo(responses, models.RoleApprover3))

	only3 := []models.Response{
		{ScoreAppr3: fp(5), QuestionWeight: 10},
	}
	assert.Equal(t, 0.0, Aggregate(only3))
}

func TestAggregateHigherStageOverridesLower(t *testing.T) {
	responses := []models.Response{
		{ScoreSelf: fp(5), ScoreMgr: fp(3), QuestionWeight: 1},
	}
	assert.Equal(t, 3.0, Aggregate(responses))
	assert.Equal(t, 5.0, AggregateUpTo(responses, models.RoleSelf))
}
