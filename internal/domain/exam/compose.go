package exam

import (
	"math/rand"

	"github.com/paesprep/backend/internal/domain/question"
)

// Compose picks the question ids of a new exam from the candidate pool:
// duplicates are dropped, the difficulty filter applied, then up to n ids
// are sampled uniformly without replacement. A pool smaller than n is
// taken whole; an empty one fails with ErrEmptyPool.
func Compose(pool []question.Ref, difficulty *question.Difficulty, n int, rng *rand.Rand) ([]string, error) {
	candidates := FilterByDifficulty(dedupe(pool), difficulty)
	if len(candidates) == 0 {
		return nil, ErrEmptyPool
	}
	return Sample(candidates, n, rng), nil
}

// FilterByDifficulty keeps refs of the given difficulty; nil keeps all.
func FilterByDifficulty(refs []question.Ref, difficulty *question.Difficulty) []question.Ref {
	if difficulty == nil {
		return refs
	}
	kept := make([]question.Ref, 0, len(refs))
	for _, r := range refs {
		if difficulty.Matches(string(r.Difficulty)) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Sample returns the ids of n refs chosen uniformly at random. The input is
// not modified. When len(refs) <= n every id is returned in pool order.
func Sample(refs []question.Ref, n int, rng *rand.Rand) []string {
	if n >= len(refs) {
		ids := make([]string, len(refs))
		for i, r := range refs {
			ids[i] = r.ID
		}
		return ids
	}

	shuffled := make([]question.Ref, len(refs))
	copy(shuffled, refs)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	ids := make([]string, n)
	for i := range ids {
		ids[i] = shuffled[i].ID
	}
	return ids
}

func dedupe(refs []question.Ref) []question.Ref {
	seen := make(map[string]struct{}, len(refs))
	out := make([]question.Ref, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
