package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/router"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/screens/guide"
	"github.com/harmonyquest/harmonyquest/internal/screens/lessonlist"
	"github.com/harmonyquest/harmonyquest/internal/screens/stats"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu     components.Menu
	progress *progress.Store
	session  *auth.Session
	offline  bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. sess is nil in offline mode; etiquetteSvc is
// nil when no model provider is configured, which disables the culture
// guide entry.
func New(progressStore *progress.Store, lessonSvc *lessons.Service, etiquetteSvc *etiquette.Service, authSvc *auth.Service, sess *auth.Session, signInFactory func() screen.Screen) *HomeScreen {
	items := []components.MenuItem{
		{Label: "EXPLORE LESSONS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: lessonlist.New(lessonSvc, progressStore, sess)}
			}
		}},
		{Label: "CULTURE GUIDE", Disabled: etiquetteSvc == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: guide.New(etiquetteSvc)}
			}
		}},
		{Label: "MY STATS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(progressStore, sess)}
			}
		}},
	}

	if sess != nil {
		items = append(items, components.MenuItem{Label: "SIGN OUT", Action: func() tea.Cmd {
			return func() tea.Msg {
				ctx := context.Background()
				_ = authSvc.Logout(ctx)
				_ = progressStore.ResetStats(ctx)
				return router.ReplaceScreenMsg{Screen: signInFactory()}
			}
		}})
	} else {
		items = append(items, components.MenuItem{Label: "SIGN IN", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: signInFactory()}
			}
		}})
	}

	items = append(items, components.MenuItem{Label: "QUIT", Action: func() tea.Cmd {
		return tea.Quit
	}})

	return &HomeScreen{
		menu:     components.NewMenu(items),
		progress: progressStore,
		session:  sess,
		offline:  sess == nil,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, renderGreeting(h.session))
	sections = append(sections, h.renderStatsBar())
	sections = append(sections, h.menu.View())

	if h.offline {
		sections = append(sections, theme.Hint.Render("Offline mode — progress stays on this device."))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderGreeting(sess *auth.Session) string {
	name := "Explorer"
	if sess != nil && sess.Name != "" {
		name = sess.Name
	}
	title := theme.Title.Render("✦ HARMONY QUEST ✦")
	sub := theme.Subtitle.Render(fmt.Sprintf("Welcome back, %s", name))
	return title + "\n" + sub
}

// renderStatsBar shows the lifetime stats line under the greeting.
func (h *HomeScreen) renderStatsBar() string {
	completed := 0
	for _, p := range h.progress.AllLessonProgress() {
		if p == 100 {
			completed++
		}
	}

	stat := func(icon, label string, value int) string {
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(icon) + " " +
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d", value)) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
	}

	line := stat("✦", "XP", h.progress.XP()) + "    " +
		stat("★", "day streak", h.progress.Streak()) + "    " +
		stat("◆", "lessons done", completed)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Render(line)
}
