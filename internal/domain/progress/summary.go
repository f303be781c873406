// Package progress folds a user's finished attempts into dashboard
// statistics.
package progress

import (
	"math"
	"sort"
	"time"
)

// AttemptOutcome is the part of a completed attempt the dashboard needs.
type AttemptOutcome struct {
	Scaled      int
	Correct     int
	Incorrect   int
	Omitted     int
	CompletedAt time.Time
}

type Summary struct {
	TotalAttempts      int `json:"total_attempts"`
	AverageScore       int `json:"average_score"`
	TotalCorrect       int `json:"total_correct"`
	TotalIncorrect     int `json:"total_incorrect"`
	TotalOmitted       int `json:"total_omitted"`
	AccuracyPercentage int `json:"accuracy_percentage"`
	StreakDays         int `json:"streak_days"`
}

// Summarize aggregates completed attempts. Calendar days are taken in loc.
func Summarize(outcomes []AttemptOutcome, loc *time.Location) Summary {
	s := Summary{TotalAttempts: len(outcomes)}
	if len(outcomes) == 0 {
		return s
	}

	scoreSum := 0
	for _, o := range outcomes {
		scoreSum += o.Scaled
		s.TotalCorrect += o.Correct
		s.TotalIncorrect += o.Incorrect
		s.TotalOmitted += o.Omitted
	}
	s.AverageScore = roundHalfUp(float64(scoreSum) / float64(len(outcomes)))

	answered := s.TotalCorrect + s.TotalIncorrect + s.TotalOmitted
	if answered > 0 {
		s.AccuracyPercentage = roundHalfUp(float64(100*s.TotalCorrect) / float64(answered))
	}

	completions := make([]time.Time, len(outcomes))
	for i, o := range outcomes {
		completions[i] = o.CompletedAt
	}
	s.StreakDays = Streak(completions, loc)
	return s
}

// Streak counts consecutive calendar days with at least one completion,
// walking back from the most recent completion. Several completions on the
// same day count once; the first missing day ends the streak.
func Streak(completions []time.Time, loc *time.Location) int {
	if len(completions) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.UTC
	}

	days := make([]int64, len(completions))
	for i, t := range completions {
		days[i] = civilDay(t, loc)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	latest := days[0]
	streak := 1
	for _, d := range days[1:] {
		diff := latest - d
		switch {
		case diff < int64(streak):
			// same day as one already counted
		case diff == int64(streak):
			streak++
		default:
			return streak
		}
	}
	return streak
}

// civilDay numbers the calendar date of t in loc. Using the date rather
// than elapsed hours keeps DST transitions from splitting or merging days.
func civilDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
