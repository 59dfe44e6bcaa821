package stats

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/screen"
	"github.com/harmonyquest/harmonyquest/internal/ui/components"
	"github.com/harmonyquest/harmonyquest/internal/ui/layout"
	"github.com/harmonyquest/harmonyquest/internal/ui/theme"
)

// StatsScreen shows lifetime XP, streak, and per-lesson completion.
type StatsScreen struct {
	progress *progress.Store
	session  *auth.Session
	catalog  []lessons.Lesson
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen. Lesson titles come from the embedded
// catalog; lessons only known to the backend fall back to their slug.
func New(progressStore *progress.Store, sess *auth.Session) *StatsScreen {
	catalog, _ := lessons.Catalog()
	return &StatsScreen{
		progress: progressStore,
		session:  sess,
		catalog:  catalog,
	}
}

func (s *StatsScreen) Title() string {
	return "My Stats"
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	var b strings.Builder

	if s.session != nil {
		b.WriteString(theme.Title.Render(s.session.Name))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(s.session.Email))
	} else {
		b.WriteString(theme.Title.Render("Offline explorer"))
	}
	b.WriteString("\n\n")

	streak := s.progress.Streak()
	statLine := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("✦ %d XP", s.progress.XP())) +
		"      " +
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("★ %d day streak", streak))
	b.WriteString(statLine)
	b.WriteString("\n")

	if streak > 0 && progress.IsMilestone(streak) {
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Milestone reached — %d days!", streak)))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("Next milestone: %d days", progress.NextMilestone(streak))))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Lessons"))
	b.WriteString("\n")
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(divider)
	b.WriteString("\n\n")

	barWidth := min(width-40, 36)
	if barWidth < 10 {
		barWidth = 10
	}

	all := s.progress.AllLessonProgress()
	seen := make(map[string]bool, len(s.catalog))
	for _, l := range s.catalog {
		seen[l.Slug] = true
		b.WriteString(s.renderLessonRow(l.Title, all[l.Slug], barWidth))
	}
	// Lessons the backend tracks but the embedded catalog doesn't.
	var extras []string
	for slug := range all {
		if !seen[slug] {
			extras = append(extras, slug)
		}
	}
	sort.Strings(extras)
	for _, slug := range extras {
		b.WriteString(s.renderLessonRow(slug, all[slug], barWidth))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Badges"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n\n")
	for _, badge := range s.progress.Badges(len(s.catalog)) {
		b.WriteString(renderBadgeRow(badge))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderBadgeRow(badge progress.Badge) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if !badge.Unlocked {
		return dim.Render("· ") + dim.Width(20).Render(badge.Name) + " " +
			dim.Render(badge.Description) + "\n"
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(badge.Icon) + " " +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(20).Render(badge.Name) + " " +
		dim.Render(badge.Description) + "\n"
}

func (s *StatsScreen) renderLessonRow(title string, percent, barWidth int) string {
	name := lipgloss.NewStyle().Foreground(theme.Text).Width(28).Render(title)
	bar := components.NewProgressBar("", float64(percent)/100, true, barWidth)

	status := "   "
	if percent == 100 {
		status = " " + theme.Correct.Render("✓")
	}
	return name + " " + bar.View() + status + "\n"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
