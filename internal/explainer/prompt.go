package explainer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paesprep/backend/internal/domain/question"
)

// PromptInput is everything the tutor prompt needs about one missed question.
type PromptInput struct {
	Question       question.Question
	SelectedAnswer string
	TopicName      string
	SubjectName    string
}

// BuildPrompt renders the tutor prompt. Options are listed alphabetically so
// the prompt does not depend on the order the student saw them in.
func BuildPrompt(in PromptInput) string {
	q := in.Question

	options := append([]string{q.CorrectAnswer}, q.Distractors...)
	sort.Strings(options)
	var opts strings.Builder
	for i, o := range options {
		fmt.Fprintf(&opts, "%s) %s\n", question.Letter(i), o)
	}

	official := q.Explanation
	if strings.TrimSpace(official) == "" {
		official = "Sin explicación oficial."
	}

	return fmt.Sprintf(`Eres un tutor experto en la preparación de la prueba PAES de Chile.

Tema: %s (%s)
Dificultad: %s

ENUNCIADO:
%s

OPCIONES:
%s
RESPUESTA DEL ESTUDIANTE: "%s"
RESPUESTA CORRECTA: "%s"

EXPLICACIÓN OFICIAL:
%s

Explica en máximo 350 palabras, con tono amable y sin emojis:
1. Por qué "%s" es incorrecta.
2. El razonamiento paso a paso que lleva a "%s".
3. Un consejo para no repetir este error.`,
		nonEmpty(in.TopicName, "Tema desconocido"), nonEmpty(in.SubjectName, "Asignatura desconocida"),
		q.Difficulty, q.Content, opts.String(),
		in.SelectedAnswer, q.CorrectAnswer, official,
		in.SelectedAnswer, q.CorrectAnswer)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
