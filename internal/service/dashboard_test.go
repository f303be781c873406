package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/domain/progress"
	"github.com/paesprep/backend/internal/service"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedBank(t, f.store, 4)
	e := officialExam(t, f.store, 30, "alg-0", "alg-1", "com-0", "com-1")

	finish := func(selections map[string]string) {
		v, err := f.attempts.Start(ctx, user, e.ID)
		require.NoError(t, err)
		for qid, sel := range selections {
			require.NoError(t, f.attempts.SelectAnswer(ctx, user, v.Attempt.ID, qid, ptr(sel)))
		}
		_, err = f.attempts.Finish(ctx, user, v.Attempt.ID)
		require.NoError(t, err)
	}

	finish(map[string]string{"alg-0": "correcta", "alg-1": "correcta", "com-0": "d1"})
	f.clock.Advance(24 * time.Hour)
	finish(map[string]string{"alg-0": "correcta", "alg-1": "correcta", "com-0": "correcta", "com-1": "d1"})

	svc := service.NewDashboardService(f.store, f.store, time.UTC, discardLogger())
	d, err := svc.Dashboard(ctx, user)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Summary.TotalAttempts)
	assert.Equal(t, 5, d.Summary.TotalCorrect)
	assert.Equal(t, 2, d.Summary.TotalIncorrect)
	assert.Equal(t, 1, d.Summary.TotalOmitted)
	assert.Equal(t, 63, d.Summary.AccuracyPercentage)
	assert.Equal(t, 2, d.Summary.StreakDays)

	require.Len(t, d.Topics, 2)
	assert.Equal(t, "alg", d.Topics[0].TopicID)
	assert.Equal(t, "Álgebra", d.Topics[0].TopicName)
	assert.Equal(t, "Matemática M1", d.Topics[0].SubjectName)
	assert.Equal(t, progress.TierMastered, d.Topics[0].Tier)
	assert.Equal(t, "com", d.Topics[1].TopicID)
	assert.Equal(t, progress.TierNeedsImprovement, d.Topics[1].Tier)
}

func TestDashboard_NoAttempts(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDashboardService(f.store, f.store, nil, discardLogger())

	d, err := svc.Dashboard(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, d.Summary.TotalAttempts)
	assert.Empty(t, d.Topics)
}
