package question

import "math/rand"

// Option is one presented choice. Letters follow presentation order, so
// the same value may carry a different letter in another display.
type Option struct {
	Letter string `json:"letter"`
	Value  string `json:"value"`
}

// Options shuffles the correct answer together with the distractors and
// labels them A, B, C... Callers compute this once per display and keep
// the result; re-shuffling on every render is a bug.
func Options(q *Question, rng *rand.Rand) []Option {
	values := make([]string, 0, q.OptionCount())
	values = append(values, q.CorrectAnswer)
	values = append(values, q.Distractors...)

	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	options := make([]Option, len(values))
	for i, v := range values {
		options[i] = Option{Letter: Letter(i), Value: v}
	}
	return options
}

// Letter returns the label for the option at position i (0 → "A").
func Letter(i int) string {
	return string(rune('A' + i))
}
