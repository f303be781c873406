package attempt

import (
	"math/rand"
	"sync"

	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
)

// Session is the live state of an in-progress attempt: the fixed question
// order, each question's option order, the current selections and the
// countdown. All methods are safe for concurrent use.
type Session struct {
	// finishMu serializes Finish so concurrent callers collapse into one
	// commit; mu guards the fields below and is never held across commit.
	finishMu sync.Mutex
	mu       sync.Mutex

	attempt    Attempt
	questions  []question.Question
	index      map[string]int
	options    [][]question.Option
	selections map[string]*string
	remaining  int
	closing    bool
}

// NewSession fixes the question order and shuffles each question's options
// once. selections seeds previously saved drafts and may be nil.
func NewSession(a Attempt, questions []question.Question, remaining int, selections map[string]*string, rng *rand.Rand) *Session {
	s := &Session{
		attempt:    a,
		questions:  questions,
		index:      make(map[string]int, len(questions)),
		options:    make([][]question.Option, len(questions)),
		selections: make(map[string]*string, len(selections)),
		remaining:  max(remaining, 0),
	}
	for i := range questions {
		s.index[questions[i].ID] = i
		s.options[i] = question.Options(&questions[i], rng)
	}
	for qid, sel := range selections {
		if _, ok := s.index[qid]; ok {
			s.selections[qid] = sel
		}
	}
	return s
}

func (s *Session) ID() string { return s.attempt.ID }

// Attempt returns a copy of the attempt record.
func (s *Session) Attempt() Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Questions returns the attempt's questions in their fixed order. The slice
// must not be modified.
func (s *Session) Questions() []question.Question { return s.questions }

// Select records selected for questionID, overwriting any earlier choice.
// A nil selected clears it.
func (s *Session) Select(questionID string, selected *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.Status != StatusInProgress || s.closing {
		return ErrAlreadyFinalized
	}
	i, ok := s.index[questionID]
	if !ok {
		return ErrInvalidQuestion
	}
	if selected != nil {
		if !s.questions[i].HasOption(*selected) {
			return ErrInvalidOption
		}
		v := *selected
		selected = &v
	}
	s.selections[questionID] = selected
	return nil
}

// Tick consumes one second and reports whether time is up. It is a no-op
// once the attempt is closing or finalized.
func (s *Session) Tick() (expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.Status != StatusInProgress || s.closing {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return s.remaining == 0
}

// Remaining is the number of countdown seconds left.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Resync lowers the countdown to remaining when the wall clock says less
// time is left than the session counted, e.g. after ticks were paused.
func (s *Session) Resync(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = min(s.remaining, max(remaining, 0))
}

// Answers returns every engaged selection in question order.
func (s *Session) Answers() []scoring.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLocked()
}

func (s *Session) answersLocked() []scoring.Answer {
	out := make([]scoring.Answer, 0, len(s.selections))
	for i := range s.questions {
		qid := s.questions[i].ID
		if sel, ok := s.selections[qid]; ok {
			out = append(out, scoring.Answer{QuestionID: qid, Selected: sel})
		}
	}
	return out
}

// Finish finalizes the session exactly once. commit receives the answers
// captured at this instant and returns the attempt as stored; selections
// are refused while it runs. If commit fails the session reopens. Calls
// after a successful Finish return the stored attempt without invoking
// commit again.
func (s *Session) Finish(commit func(answers []scoring.Answer) (Attempt, error)) (Attempt, error) {
	s.finishMu.Lock()
	defer s.finishMu.Unlock()

	s.mu.Lock()
	if s.attempt.Status != StatusInProgress {
		a := s.attempt
		s.mu.Unlock()
		return a, nil
	}
	s.closing = true
	answers := s.answersLocked()
	s.mu.Unlock()

	final, err := commit(answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = false
	if err != nil {
		return Attempt{}, err
	}
	s.attempt = final
	return final, nil
}

// View is a read-only picture of the session for rendering.
type View struct {
	Attempt   Attempt
	Remaining int
	Questions []QuestionView
}

type QuestionView struct {
	ID       string
	TopicID  string
	Content  string
	ImageURL *string
	Options  []question.Option
	Selected *string
}

// Snapshot copies the current state. Option order is the one fixed at
// session creation.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Attempt:   s.attempt,
		Remaining: s.remaining,
		Questions: make([]QuestionView, len(s.questions)),
	}
	for i := range s.questions {
		q := &s.questions[i]
		v.Questions[i] = QuestionView{
			ID:       q.ID,
			TopicID:  q.TopicID,
			Content:  q.Content,
			ImageURL: q.ImageURL,
			Options:  s.options[i],
			Selected: s.selections[q.ID],
		}
	}
	return v
}
