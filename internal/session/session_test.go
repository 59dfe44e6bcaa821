package session

import (
	"context"
	"testing"

	"github.com/harmonyquest/harmonyquest/internal/lessons"
)

type recordingProgress struct {
	percents []int
	xp       int
}

func (r *recordingProgress) UpdateLessonProgress(_ context.Context, _ string, percent int) error {
	r.percents = append(r.percents, percent)
	return nil
}

func (r *recordingProgress) AddXP(_ context.Context, amount int) error {
	r.xp += amount
	return nil
}

func mc(text string, correctIdx int) lessons.Question {
	answers := make([]lessons.Answer, 3)
	for i := range answers {
		answers[i] = lessons.Answer{Text: "option"}
	}
	answers[correctIdx].Correct = true
	return lessons.Question{Type: lessons.TypeMultipleChoice, Text: text, Answers: answers}
}

func twoPartLesson() lessons.Lesson {
	return lessons.Lesson{
		Title: "Two Parts",
		Slug:  "two-parts",
		Parts: []lessons.Part{
			{Title: "First", Questions: []lessons.Question{mc("p0q0", 0), mc("p0q1", 1)}},
			{Title: "Second", Questions: []lessons.Question{mc("p1q0", 2), mc("p1q1", 0)}},
		},
	}
}

func mustContinue(t *testing.T, c *Controller) Event {
	t.Helper()
	ev, err := c.Continue(context.Background())
	if err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	return ev
}

func mustSubmit(t *testing.T, c *Controller, idx int) bool {
	t.Helper()
	ok, err := c.Submit(idx)
	if err != nil {
		t.Fatalf("Submit(%d) error = %v", idx, err)
	}
	return ok
}

func TestPerfectRunThroughTwoParts(t *testing.T) {
	prog := &recordingProgress{}
	c, err := New(twoPartLesson(), prog)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Part 1.
	if !mustSubmit(t, c, 0) {
		t.Fatal("expected correct answer")
	}
	mustContinue(t, c) // feedback -> next question
	mustSubmit(t, c, 1)
	ev := mustContinue(t, c) // feedback -> part complete
	if ev.Kind != EventPartComplete {
		t.Fatalf("event = %v, want EventPartComplete", ev.Kind)
	}
	if ev.CorrectInPart != 2 || ev.TotalInPart != 2 {
		t.Errorf("part score = %d/%d, want 2/2", ev.CorrectInPart, ev.TotalInPart)
	}
	if ev.PartXP != PartXP(2, 2) {
		t.Errorf("PartXP = %d, want %d", ev.PartXP, PartXP(2, 2))
	}
	if ev.Percent != 50 {
		t.Errorf("percent after part 1 = %d, want 50", ev.Percent)
	}

	ev = mustContinue(t, c) // part summary -> next part
	if ev.Kind != EventNextPart {
		t.Fatalf("event = %v, want EventNextPart", ev.Kind)
	}
	if c.PartIndex() != 1 || c.QuestionIndex() != 0 {
		t.Errorf("position = (%d,%d), want (1,0)", c.PartIndex(), c.QuestionIndex())
	}

	// Part 2.
	mustSubmit(t, c, 2)
	mustContinue(t, c)
	mustSubmit(t, c, 0)
	mustContinue(t, c)       // feedback -> part complete
	ev = mustContinue(t, c)  // final part summary -> lesson complete
	if ev.Kind != EventLessonComplete {
		t.Fatalf("event = %v, want EventLessonComplete", ev.Kind)
	}
	if c.Phase() != PhaseLessonComplete {
		t.Errorf("phase = %v, want PhaseLessonComplete", c.Phase())
	}

	wantXP := 2*PartXP(2, 2) + CompletionBonus(4, 4)
	if prog.xp != wantXP {
		t.Errorf("total XP = %d, want %d (two part payouts plus bonus)", prog.xp, wantXP)
	}
	if c.XPEarned() != wantXP {
		t.Errorf("XPEarned() = %d, want %d", c.XPEarned(), wantXP)
	}

	last := prog.percents[len(prog.percents)-1]
	if last != 100 {
		t.Errorf("final reported progress = %d, want 100", last)
	}
}

func TestSubmit_RejectsGradedQuestion(t *testing.T) {
	c, err := New(twoPartLesson(), &recordingProgress{})
	if err != nil {
		t.Fatal(err)
	}

	mustSubmit(t, c, 2) // wrong answer, now graded
	if _, err := c.Submit(0); err == nil {
		t.Fatal("Submit() accepted an answer for a graded question")
	}

	key := Key{Part: 0, Question: 0}
	if idx, _ := c.Answer(key); idx != 2 {
		t.Errorf("stored answer = %d, want 2 (unchanged)", idx)
	}
	if c.WasCorrect(key) {
		t.Error("grade flipped after rejected re-submit")
	}
}

func TestSubmit_RejectedOutsideAnsweringPhase(t *testing.T) {
	c, err := New(twoPartLesson(), &recordingProgress{})
	if err != nil {
		t.Fatal(err)
	}

	mustSubmit(t, c, 0)
	// Now in feedback.
	if _, err := c.Submit(1); err == nil {
		t.Error("Submit() accepted an answer during feedback")
	}
}

func TestRestart_ClearsSessionOnly(t *testing.T) {
	prog := &recordingProgress{}
	c, err := New(twoPartLesson(), prog)
	if err != nil {
		t.Fatal(err)
	}

	mustSubmit(t, c, 0)
	mustContinue(t, c)
	mustSubmit(t, c, 1)
	mustContinue(t, c) // part settled, XP granted
	xpBefore := prog.xp
	if xpBefore == 0 {
		t.Fatal("expected XP after settling part 1")
	}
	oldID := c.ID()

	c.Restart()

	if c.Phase() != PhaseAnswering || c.PartIndex() != 0 || c.QuestionIndex() != 0 {
		t.Error("restart did not return to the first question")
	}
	if c.Checked(Key{Part: 0, Question: 0}) {
		t.Error("restart kept the checked set")
	}
	if c.XPEarned() != 0 {
		t.Errorf("XPEarned() = %d after restart, want 0", c.XPEarned())
	}
	if prog.xp != xpBefore {
		t.Errorf("progress store XP = %d, want %d (restart must not touch it)", prog.xp, xpBefore)
	}
	if c.ID() == oldID {
		t.Error("restart kept the old session ID")
	}
}

func TestFillInTheBlank(t *testing.T) {
	lesson := lessons.Lesson{
		Title: "Blanks",
		Slug:  "blanks",
		Parts: []lessons.Part{{Questions: []lessons.Question{{
			Type: lessons.TypeFillInBlank,
			Text: "A respectful greeting is ____",
			Answers: []lessons.Answer{
				{Text: "Namaste", Correct: true},
				{Text: "Vanakkam", Correct: true},
			},
		}}}},
	}
	c, err := New(lesson, &recordingProgress{})
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.SubmitText("  namaste ")
	if err != nil {
		t.Fatalf("SubmitText() error = %v", err)
	}
	if !ok {
		t.Error("case-insensitive trimmed match rejected")
	}

	c.Restart()
	if _, err := c.SubmitText("   "); err == nil {
		t.Error("SubmitText() accepted blank input")
	}
	ok, err = c.SubmitText("Shalom")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("wrong answer graded as correct")
	}
}

func TestSinglePartLesson(t *testing.T) {
	lesson := lessons.Lesson{
		Title: "Flat",
		Slug:  "flat",
		Parts: []lessons.Part{{Questions: []lessons.Question{mc("q0", 0), mc("q1", 1)}}},
	}
	prog := &recordingProgress{}
	c, err := New(lesson, prog)
	if err != nil {
		t.Fatal(err)
	}

	mustSubmit(t, c, 0)
	mustContinue(t, c)
	mustSubmit(t, c, 0) // wrong
	ev := mustContinue(t, c)
	if ev.Kind != EventPartComplete {
		t.Fatalf("event = %v, want EventPartComplete", ev.Kind)
	}
	ev = mustContinue(t, c)
	if ev.Kind != EventLessonComplete {
		t.Fatalf("event = %v, want EventLessonComplete", ev.Kind)
	}
	if ev.CorrectInPart != 1 || ev.TotalInPart != 2 {
		t.Errorf("lesson score = %d/%d, want 1/2", ev.CorrectInPart, ev.TotalInPart)
	}
}

func TestNew_RejectsEmptyLesson(t *testing.T) {
	_, err := New(lessons.Lesson{Slug: "empty"}, &recordingProgress{})
	if err == nil {
		t.Error("New() accepted a lesson with no questions")
	}

	_, err = New(lessons.Lesson{
		Slug:  "hollow",
		Parts: []lessons.Part{{Title: "nothing here"}},
	}, &recordingProgress{})
	if err == nil {
		t.Error("New() accepted a lesson whose parts are all empty")
	}
}

func TestPartXP(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 4, 0},
		{2, 4, 10},
		{4, 4, 20},
		{3, 4, 15},
		{1, 3, 7},
		{0, 0, 0},
		{5, 4, 20}, // clamped
	}
	for _, tt := range tests {
		if got := PartXP(tt.correct, tt.total); got != tt.want {
			t.Errorf("PartXP(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestCompletionBonus(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{10, 10, 75}, // perfect
		{9, 10, 65},  // 90%
		{8, 10, 55},  // 80%
		{7, 10, 50},  // 70%
		{0, 10, 50},
	}
	for _, tt := range tests {
		if got := CompletionBonus(tt.correct, tt.total); got != tt.want {
			t.Errorf("CompletionBonus(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}
