package lesson

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/session"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
)

// Backend sync states for the completed lesson.
const (
	syncNone = iota // signed out, nothing to mirror
	syncPending
	syncOK
	syncFailed
)

// LessonScreen walks the user through one lesson, question by question.
// All progress mutations go through the session controller; this screen
// only renders state and translates keys.
type LessonScreen struct {
	ctrl     *session.Controller
	progress *progress.Store
	session  *auth.Session

	mc    components.MultiChoice
	input components.TextInput

	lastEvent   *session.Event
	lastCorrect bool

	syncState  int
	syncResult *progress.SyncResult
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen. sess may be nil (offline mode); the
// completion is then not mirrored to the backend.
func New(l lessons.Lesson, progressStore *progress.Store, sess *auth.Session) (*LessonScreen, error) {
	ctrl, err := session.New(l, progressStore)
	if err != nil {
		return nil, err
	}

	s := &LessonScreen{
		ctrl:     ctrl,
		progress: progressStore,
		session:  sess,
	}
	s.setupQuestion()
	return s, nil
}

func (s *LessonScreen) Title() string {
	return s.ctrl.Lesson().Title
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.currentIsTyped() {
		return s.input.Init()
	}
	return nil
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch s.ctrl.Phase() {
	case session.PhaseAnswering:
		if s.currentIsTyped() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Check answer"},
				{Key: "Esc", Description: "Leave lesson"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Check answer"},
			{Key: "Esc", Description: "Leave lesson"},
		}
	case session.PhaseFeedback, session.PhasePartComplete:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to lessons"},
			{Key: "R", Description: "Play again"},
		}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case syncDoneMsg:
		result := msg.Result
		s.syncResult = &result
		if result.Failed() {
			s.syncState = syncFailed
		} else {
			s.syncState = syncOK
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Non-key messages (cursor blink) go to the active text input.
	if s.ctrl.Phase() == session.PhaseAnswering && s.currentIsTyped() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.ctrl.Phase() {
	case session.PhaseAnswering:
		return s.handleAnswering(msg)
	case session.PhaseFeedback, session.PhasePartComplete:
		return s.advance()
	case session.PhaseLessonComplete:
		switch msg.String() {
		case "r", "R":
			s.ctrl.Restart()
			s.lastEvent = nil
			s.syncState = syncNone
			s.syncResult = nil
			s.setupQuestion()
			return s, s.Init()
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *LessonScreen) handleAnswering(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.currentIsTyped() {
		if msg.String() == "enter" {
			ok, err := s.ctrl.SubmitText(s.input.Value())
			if err != nil {
				return s, nil // empty answer, keep typing
			}
			s.lastCorrect = ok
			s.input.Submit(ok)
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if s.mc.Submitted {
		ok, err := s.ctrl.Submit(s.mc.ChosenIndex)
		if err != nil {
			return s, cmd
		}
		s.lastCorrect = ok
	}
	return s, cmd
}

// advance leaves feedback or a part summary via the controller.
func (s *LessonScreen) advance() (screen.Screen, tea.Cmd) {
	ev, err := s.ctrl.Continue(context.Background())
	if err != nil {
		return s, nil
	}

	switch ev.Kind {
	case session.EventNextQuestion, session.EventNextPart:
		s.setupQuestion()
		return s, s.Init()

	case session.EventPartComplete:
		s.lastEvent = &ev
		return s, nil

	case session.EventLessonComplete:
		s.lastEvent = &ev
		return s, s.syncCmd()
	}
	return s, nil
}

// syncCmd mirrors the completed lesson to the backend.
func (s *LessonScreen) syncCmd() tea.Cmd {
	if s.session == nil {
		s.syncState = syncNone
		return nil
	}

	s.syncState = syncPending
	store := s.progress
	slug := s.ctrl.Lesson().Slug
	xp := s.ctrl.XPEarned()
	token := s.session.Token
	return func() tea.Msg {
		return syncDoneMsg{
			Result: store.CompleteLessonOnBackend(context.Background(), slug, xp, token),
		}
	}
}

// setupQuestion rebuilds the answer widget for the current question.
func (s *LessonScreen) setupQuestion() {
	q := s.ctrl.Question()
	if q.Type == lessons.TypeFillInBlank {
		s.input = components.NewTextInput("Type your answer...", false, 60)
		return
	}

	options := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		options[i] = a.Text
	}
	s.mc = components.NewMultiChoice(q.Text, options, q.CorrectIndex())
}

// currentIsTyped reports whether the current question takes typed input.
func (s *LessonScreen) currentIsTyped() bool {
	return s.ctrl.Question().Type == lessons.TypeFillInBlank
}
