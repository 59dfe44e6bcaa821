package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harmonyquest/harmonyquest/internal/lessons"
)

// Phase is the controller's position in the lesson flow.
type Phase int

const (
	// PhaseAnswering waits for the user to commit an answer.
	PhaseAnswering Phase = iota
	// PhaseFeedback shows whether the committed answer was correct.
	PhaseFeedback
	// PhasePartComplete summarizes a finished part.
	PhasePartComplete
	// PhaseLessonComplete is terminal until an explicit restart.
	PhaseLessonComplete
)

// Key addresses a question within a lesson.
type Key struct {
	Part     int
	Question int
}

// EventKind classifies what a Continue call did.
type EventKind int

const (
	EventNextQuestion EventKind = iota
	EventPartComplete
	EventNextPart
	EventLessonComplete
)

// Event reports the outcome of a phase transition, including any XP
// granted at part and lesson boundaries.
type Event struct {
	Kind EventKind

	PartXP        int
	BonusXP       int
	Percent       int
	CorrectInPart int
	TotalInPart   int
}

// Progress is the subset of the progress store the controller mutates.
type Progress interface {
	UpdateLessonProgress(ctx context.Context, slug string, percent int) error
	AddXP(ctx context.Context, amount int) error
}

// Controller walks a user through one lesson: parts in order, questions
// in order, feedback after every answer. Local progress mutations
// happen synchronously at part and lesson boundaries; mirroring the
// completion to the backend is the caller's job, keyed off the
// EventLessonComplete event.
type Controller struct {
	id       uuid.UUID
	lesson   lessons.Lesson
	progress Progress

	part     int
	question int
	phase    Phase

	answers map[Key]int    // selected answer index (multiple choice)
	typed   map[Key]string // typed answer (fill in the blank)
	correct map[Key]bool
	checked map[Key]bool

	xpEarned int
}

// New creates a Controller for a lesson. Parts without questions are
// dropped; a lesson with no questions at all is not playable.
func New(lesson lessons.Lesson, progress Progress) (*Controller, error) {
	parts := make([]lessons.Part, 0, len(lesson.Parts))
	for _, p := range lesson.Parts {
		if len(p.Questions) > 0 {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("lesson %q has no questions", lesson.Slug)
	}
	lesson.Parts = parts

	c := &Controller{
		id:       uuid.New(),
		lesson:   lesson,
		progress: progress,
	}
	c.reset()
	return c, nil
}

func (c *Controller) reset() {
	c.part = 0
	c.question = 0
	c.phase = PhaseAnswering
	c.answers = make(map[Key]int)
	c.typed = make(map[Key]string)
	c.correct = make(map[Key]bool)
	c.checked = make(map[Key]bool)
	c.xpEarned = 0
}

// Restart returns the controller to the first question with a fresh
// answer record. Accumulated progress-store state is untouched.
func (c *Controller) Restart() {
	c.id = uuid.New()
	c.reset()
}

// ID identifies this run of the lesson.
func (c *Controller) ID() uuid.UUID { return c.id }

// Lesson returns the lesson being played.
func (c *Controller) Lesson() lessons.Lesson { return c.lesson }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// PartIndex returns the current part index.
func (c *Controller) PartIndex() int { return c.part }

// QuestionIndex returns the current question index within the part.
func (c *Controller) QuestionIndex() int { return c.question }

// Part returns the current part.
func (c *Controller) Part() lessons.Part { return c.lesson.Parts[c.part] }

// Question returns the current question.
func (c *Controller) Question() lessons.Question {
	return c.lesson.Parts[c.part].Questions[c.question]
}

// XPEarned returns the XP accumulated this session, including any
// completion bonus once the lesson finishes.
func (c *Controller) XPEarned() int { return c.xpEarned }

// Checked reports whether a question has been graded this session.
func (c *Controller) Checked(key Key) bool { return c.checked[key] }

// Answer returns the selected answer index for a graded
// multiple-choice question.
func (c *Controller) Answer(key Key) (int, bool) {
	idx, ok := c.answers[key]
	return idx, ok
}

// WasCorrect reports whether a graded question was answered correctly.
func (c *Controller) WasCorrect(key Key) bool { return c.correct[key] }

// Submit commits a multiple-choice answer for the current question and
// moves to feedback. A question that has already been graded cannot be
// answered again.
func (c *Controller) Submit(answerIndex int) (bool, error) {
	q, key, err := c.submittable()
	if err != nil {
		return false, err
	}
	if answerIndex < 0 || answerIndex >= len(q.Answers) {
		return false, fmt.Errorf("answer index %d out of range", answerIndex)
	}

	ok := q.Answers[answerIndex].Correct
	c.answers[key] = answerIndex
	c.grade(key, ok)
	return ok, nil
}

// SubmitText commits a typed answer for the current fill-in-the-blank
// question. Matching is case-insensitive on the trimmed input, against
// any answer marked correct.
func (c *Controller) SubmitText(text string) (bool, error) {
	q, key, err := c.submittable()
	if err != nil {
		return false, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, fmt.Errorf("answer is empty")
	}

	ok := false
	for _, a := range q.Answers {
		if a.Correct && strings.EqualFold(trimmed, a.Text) {
			ok = true
			break
		}
	}
	c.typed[key] = trimmed
	c.grade(key, ok)
	return ok, nil
}

func (c *Controller) submittable() (lessons.Question, Key, error) {
	if c.phase != PhaseAnswering {
		return lessons.Question{}, Key{}, fmt.Errorf("not accepting answers in this phase")
	}
	key := Key{Part: c.part, Question: c.question}
	if c.checked[key] {
		return lessons.Question{}, Key{}, fmt.Errorf("question already graded")
	}
	return c.Question(), key, nil
}

func (c *Controller) grade(key Key, ok bool) {
	c.correct[key] = ok
	c.checked[key] = true
	c.phase = PhaseFeedback
}

// Continue advances past feedback or a part summary. Part and lesson
// boundaries update the progress store before returning.
func (c *Controller) Continue(ctx context.Context) (Event, error) {
	switch c.phase {
	case PhaseFeedback:
		return c.leaveFeedback(ctx)
	case PhasePartComplete:
		return c.leavePartSummary(ctx)
	default:
		return Event{}, fmt.Errorf("nothing to continue from")
	}
}

func (c *Controller) leaveFeedback(ctx context.Context) (Event, error) {
	part := c.Part()
	if c.question+1 < len(part.Questions) {
		c.question++
		c.phase = PhaseAnswering
		return Event{Kind: EventNextQuestion}, nil
	}

	// All questions in the part are graded: settle the part.
	correct := 0
	for q := range part.Questions {
		if c.correct[Key{Part: c.part, Question: q}] {
			correct++
		}
	}
	total := len(part.Questions)
	partXP := PartXP(correct, total)
	percent := c.overallPercent()

	if err := c.progress.UpdateLessonProgress(ctx, c.lesson.Slug, percent); err != nil {
		return Event{}, err
	}
	if err := c.progress.AddXP(ctx, partXP); err != nil {
		return Event{}, err
	}
	c.xpEarned += partXP
	c.phase = PhasePartComplete

	return Event{
		Kind:          EventPartComplete,
		PartXP:        partXP,
		Percent:       percent,
		CorrectInPart: correct,
		TotalInPart:   total,
	}, nil
}

func (c *Controller) leavePartSummary(ctx context.Context) (Event, error) {
	if c.part+1 < len(c.lesson.Parts) {
		c.part++
		c.question = 0
		c.phase = PhaseAnswering
		return Event{Kind: EventNextPart}, nil
	}

	correct, total := c.totals()
	bonus := CompletionBonus(correct, total)

	if err := c.progress.UpdateLessonProgress(ctx, c.lesson.Slug, 100); err != nil {
		return Event{}, err
	}
	if err := c.progress.AddXP(ctx, bonus); err != nil {
		return Event{}, err
	}
	c.xpEarned += bonus
	c.phase = PhaseLessonComplete

	return Event{
		Kind:          EventLessonComplete,
		BonusXP:       bonus,
		Percent:       100,
		CorrectInPart: correct,
		TotalInPart:   total,
	}, nil
}

// overallPercent is the share of the lesson's questions graded so far.
func (c *Controller) overallPercent() int {
	graded := len(c.checked)
	total := c.lesson.QuestionCount()
	if total == 0 {
		return 0
	}
	return graded * 100 / total
}

func (c *Controller) totals() (correct, total int) {
	for p, part := range c.lesson.Parts {
		for q := range part.Questions {
			total++
			if c.correct[Key{Part: p, Question: q}] {
				correct++
			}
		}
	}
	return correct, total
}
