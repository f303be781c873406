package question

import (
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// difficultyTokens maps every accepted spelling, after normalization, to its
// canonical value. The seeded bank uses Spanish labels ("facil", "medio",
// "dificil") while the API speaks English.
var difficultyTokens = map[string]Difficulty{
	"easy":       DifficultyEasy,
	"facil":      DifficultyEasy,
	"medium":     DifficultyMedium,
	"medio":      DifficultyMedium,
	"media":      DifficultyMedium,
	"intermedio": DifficultyMedium,
	"hard":       DifficultyHard,
	"dificil":    DifficultyHard,
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u",
)

// ParseDifficulty accepts English and Spanish tokens case- and
// accent-insensitively. It returns false for anything else.
func ParseDifficulty(s string) (Difficulty, bool) {
	key := strings.ToLower(accentFolder.Replace(strings.TrimSpace(s)))
	d, ok := difficultyTokens[key]
	return d, ok
}

// Matches reports whether a stored difficulty label denotes d.
func (d Difficulty) Matches(label string) bool {
	parsed, ok := ParseDifficulty(label)
	return ok && parsed == d
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
