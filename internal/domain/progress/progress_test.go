package progress_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/domain/progress"
)

func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	return loc
}

func TestStreak_BreaksAtGap(t *testing.T) {
	d := time.Date(2025, 5, 20, 18, 0, 0, 0, time.UTC)
	completions := []time.Time{
		d.AddDate(0, 0, -4),
		d,
		d.AddDate(0, 0, -2),
		d.AddDate(0, 0, -1),
	}

	assert.Equal(t, 3, progress.Streak(completions, time.UTC))
}

func TestStreak_SameDayCountsOnce(t *testing.T) {
	d := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	completions := []time.Time{
		d, d.Add(3 * time.Hour), d.Add(-time.Hour),
		d.AddDate(0, 0, -1), d.AddDate(0, 0, -1).Add(2 * time.Hour),
	}

	assert.Equal(t, 2, progress.Streak(completions, time.UTC))
}

func TestStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, progress.Streak(nil, time.UTC))
}

func TestStreak_UsesCanonicalTimezone(t *testing.T) {
	loc := santiago(t)
	// 02:00 UTC on the 21st is still the evening of the 20th in Santiago.
	completions := []time.Time{
		time.Date(2025, 5, 21, 2, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 19, 15, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, progress.Streak(completions, loc))
	assert.Equal(t, 1, progress.Streak(completions, time.UTC))
}

func TestStreak_AcrossDSTChange(t *testing.T) {
	loc := santiago(t)
	// Chile leaves daylight time on the first Sunday of April 2025.
	completions := []time.Time{
		time.Date(2025, 4, 7, 0, 30, 0, 0, loc),
		time.Date(2025, 4, 6, 23, 30, 0, 0, loc),
		time.Date(2025, 4, 5, 0, 30, 0, 0, loc),
	}

	assert.Equal(t, 3, progress.Streak(completions, loc))
}

func TestSummarize(t *testing.T) {
	d := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	outcomes := []progress.AttemptOutcome{
		{Scaled: 600, Correct: 6, Incorrect: 3, Omitted: 1, CompletedAt: d},
		{Scaled: 501, Correct: 5, Incorrect: 5, Omitted: 0, CompletedAt: d.AddDate(0, 0, -1)},
	}

	s := progress.Summarize(outcomes, time.UTC)

	assert.Equal(t, progress.Summary{
		TotalAttempts:      2,
		AverageScore:       551, // 550.5 rounds up
		TotalCorrect:       11,
		TotalIncorrect:     8,
		TotalOmitted:       1,
		AccuracyPercentage: 55,
		StreakDays:         2,
	}, s)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, progress.Summary{}, progress.Summarize(nil, time.UTC))
}

func TestSummarize_ZeroQuestionAttempts(t *testing.T) {
	s := progress.Summarize([]progress.AttemptOutcome{{Scaled: 100, CompletedAt: time.Now()}}, time.UTC)
	assert.Equal(t, 0, s.AccuracyPercentage)
	assert.Equal(t, 100, s.AverageScore)
}

func TestTopicMastery(t *testing.T) {
	var answers []progress.TopicAnswer
	add := func(topic string, correct, total int) {
		for i := 0; i < total; i++ {
			answers = append(answers, progress.TopicAnswer{TopicID: topic, IsCorrect: i < correct})
		}
	}
	add("algebra", 8, 10)
	add("geometria", 3, 5)
	add("probabilidad", 1, 3)
	add("funciones", 59, 100)

	stats := progress.TopicMastery(answers)

	require.Len(t, stats, 4)
	assert.Equal(t, progress.TopicStat{TopicID: "algebra", Correct: 8, Total: 10, Accuracy: 80, Tier: progress.TierMastered}, stats[0])
	assert.Equal(t, progress.TopicStat{TopicID: "geometria", Correct: 3, Total: 5, Accuracy: 60, Tier: progress.TierDeveloping}, stats[1])
	assert.Equal(t, "funciones", stats[2].TopicID)
	assert.Equal(t, progress.TierNeedsImprovement, stats[2].Tier)
	assert.Equal(t, 33, stats[3].Accuracy)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, progress.TierMastered, progress.TierFor(100))
	assert.Equal(t, progress.TierMastered, progress.TierFor(80))
	assert.Equal(t, progress.TierDeveloping, progress.TierFor(79))
	assert.Equal(t, progress.TierDeveloping, progress.TierFor(60))
	assert.Equal(t, progress.TierNeedsImprovement, progress.TierFor(59))
}
