package progress

import "sort"

type Tier string

const (
	TierMastered         Tier = "mastered"
	TierDeveloping       Tier = "developing"
	TierNeedsImprovement Tier = "needs_improvement"
)

// TopicAnswer is one persisted answer joined to its question's topic.
type TopicAnswer struct {
	TopicID   string
	IsCorrect bool
}

type TopicStat struct {
	TopicID  string `json:"topic_id"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Accuracy int    `json:"accuracy"`
	Tier     Tier   `json:"tier"`
}

func TierFor(accuracy int) Tier {
	switch {
	case accuracy >= 80:
		return TierMastered
	case accuracy >= 60:
		return TierDeveloping
	default:
		return TierNeedsImprovement
	}
}

// TopicMastery folds answers into per-topic accuracy, best topics first.
// Ties keep topic id order.
func TopicMastery(answers []TopicAnswer) []TopicStat {
	byTopic := map[string]*TopicStat{}
	for _, a := range answers {
		st, ok := byTopic[a.TopicID]
		if !ok {
			st = &TopicStat{TopicID: a.TopicID}
			byTopic[a.TopicID] = st
		}
		st.Total++
		if a.IsCorrect {
			st.Correct++
		}
	}

	stats := make([]TopicStat, 0, len(byTopic))
	for _, st := range byTopic {
		st.Accuracy = roundHalfUp(float64(100*st.Correct) / float64(st.Total))
		st.Tier = TierFor(st.Accuracy)
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Accuracy != stats[j].Accuracy {
			return stats[i].Accuracy > stats[j].Accuracy
		}
		return stats[i].TopicID < stats[j].TopicID
	})
	return stats
}
