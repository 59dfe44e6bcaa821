package lessonlist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	lessonscreen "github.com/harmonyquest/harmonyquest/internal/screens/lesson"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

type catalogLoadedMsg struct {
	Lessons []lessons.Lesson
	Remote  bool
	Err     error
}

// LessonListScreen shows the lesson catalog with per-lesson progress.
type LessonListScreen struct {
	service  *lessons.Service
	progress *progress.Store
	session  *auth.Session

	lessons  []lessons.Lesson
	remote   bool
	loading  bool
	selected int
	errMsg   string
}

var _ screen.Screen = (*LessonListScreen)(nil)
var _ screen.KeyHintProvider = (*LessonListScreen)(nil)

// New creates a LessonListScreen.
func New(service *lessons.Service, progressStore *progress.Store, sess *auth.Session) *LessonListScreen {
	return &LessonListScreen{
		service:  service,
		progress: progressStore,
		session:  sess,
		loading:  true,
	}
}

func (l *LessonListScreen) Title() string {
	return "Lessons"
}

func (l *LessonListScreen) Init() tea.Cmd {
	service := l.service
	return func() tea.Msg {
		catalog, remote, err := service.All(context.Background())
		return catalogLoadedMsg{Lessons: catalog, Remote: remote, Err: err}
	}
}

func (l *LessonListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start lesson"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LessonListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		l.loading = false
		if msg.Err != nil {
			l.errMsg = msg.Err.Error()
			return l, nil
		}
		l.lessons = msg.Lessons
		l.remote = msg.Remote
		return l, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if l.selected > 0 {
				l.selected--
			}
		case "down", "j":
			if l.selected < len(l.lessons)-1 {
				l.selected++
			}
		case "enter":
			return l.startSelected()
		}
	}

	return l, nil
}

func (l *LessonListScreen) startSelected() (screen.Screen, tea.Cmd) {
	if l.selected < 0 || l.selected >= len(l.lessons) {
		return l, nil
	}

	next, err := lessonscreen.New(l.lessons[l.selected], l.progress, l.session)
	if err != nil {
		l.errMsg = fmt.Sprintf("Cannot start lesson: %v", err)
		return l, nil
	}
	return l, func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (l *LessonListScreen) View(width, height int) string {
	if l.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading lessons..."))
	}
	if l.errMsg != "" && len(l.lessons) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(l.errMsg))
	}

	barWidth := min(width-30, 40)
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Choose your next quest"))
	b.WriteString("\n")
	source := "offline catalog"
	if l.remote {
		source = "online catalog"
	}
	b.WriteString(theme.Subtitle.Render(source))
	b.WriteString("\n\n")

	for i, lesson := range l.lessons {
		percent := l.progress.LessonProgress(lesson.Slug)

		marker := "    "
		titleStyle := lipgloss.NewStyle().Foreground(theme.Text)
		if i == l.selected {
			marker = "  ▸ "
			titleStyle = titleStyle.Foreground(theme.Primary).Bold(true)
		}

		status := ""
		if percent == 100 {
			status = "  " + theme.Correct.Render("✓")
		}

		b.WriteString(marker + titleStyle.Render(lesson.Title) + status)
		b.WriteString("\n")

		bar := components.NewProgressBar("", float64(percent)/100, true, barWidth)
		questions := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d questions", lesson.QuestionCount()))
		b.WriteString("      " + bar.View() + "   " + questions)
		b.WriteString("\n\n")
	}

	if l.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(l.errMsg))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
